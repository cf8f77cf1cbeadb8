package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync feed translation
	SyncRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_sync_requests_total",
		Help: "Total number of sync window requests served.",
	})
	ItemsSyncedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_items_synced_total",
		Help: "Total number of delta entries mapped into legacy items.",
	}, []string{"type"}) // type: "update" or "delete"

	// Article downloads
	ArticleDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_article_downloads_total",
		Help: "Total number of article download requests.",
	}, []string{"status"}) // status: "ok", "not_found" or "error"

	// Client actions
	ActionsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_actions_applied_total",
		Help: "Total number of client actions translated to backend calls.",
	}, []string{"action", "status"})

	// Image conversion pathway
	ImageConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_image_conversions_total",
		Help: "Total number of image conversions served.",
	}, []string{"result"}) // result: "success" or "placeholder"
)

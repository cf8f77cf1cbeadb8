package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"kobogate/internal/article"
	"kobogate/internal/config"
	"kobogate/internal/metrics"
	"kobogate/internal/middlewares"
	"kobogate/internal/pocket"
	"kobogate/internal/readeck"
	"kobogate/internal/services"
	"kobogate/internal/utils"
)

// KoboHandler serves the legacy reader protocol endpoints.
type KoboHandler struct {
	cfg      *config.Config
	sync     services.SyncService
	actions  services.ActionService
	articles services.ArticleService
}

func NewKoboHandler(cfg *config.Config, sync services.SyncService, actions services.ActionService, articles services.ArticleService) *KoboHandler {
	return &KoboHandler{cfg: cfg, sync: sync, actions: actions, articles: articles}
}

// Get returns articles updated or deleted since the requested timestamp,
// windowed by offset/count.
func (h *KoboHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req pocket.GetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Error decoding get request")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var since *time.Time
	if req.Since != nil && !req.Since.IsZero() {
		since = &req.Since.Time
	}

	resp, err := h.sync.ListUpdates(r.Context(), req.AccessToken, since, req.Offset, req.Count)
	if err != nil {
		middlewares.DumpError(r.Context(), "get", err)
		utils.SendJSONError(w, "upstream error", upstreamStatus(err))
		return
	}

	metrics.SyncRequestsTotal.Inc()
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Download resolves an article by its original URL and returns the
// rewritten HTML plus the extracted image table.
func (h *KoboHandler) Download(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Error().Err(err).Msg("Error parsing download form")
		utils.SendJSONError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	req := pocket.DownloadRequest{
		AccessToken: r.PostFormValue("access_token"),
		ConsumerKey: r.PostFormValue("consumer_key"),
		Output:      r.PostFormValue("output"),
		URL:         r.PostFormValue("url"),
	}
	req.Images, _ = strconv.Atoi(r.PostFormValue("images"))
	req.Refresh, _ = strconv.Atoi(r.PostFormValue("refresh"))

	if req.URL == "" {
		utils.SendJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	policy := article.JPEGConversionPolicy(h.cfg.ConvertToJPEG, h.conversionURL(r))

	resp, err := h.articles.Download(r.Context(), req.AccessToken, req.URL, policy)
	if err != nil {
		if readeck.IsNotFound(err) {
			metrics.ArticleDownloadsTotal.WithLabelValues("not_found").Inc()
			utils.SendJSONError(w, "Article not found", http.StatusNotFound)
			return
		}
		middlewares.DumpError(r.Context(), "download", err)
		metrics.ArticleDownloadsTotal.WithLabelValues("error").Inc()
		utils.SendJSONError(w, "upstream error", upstreamStatus(err))
		return
	}

	metrics.ArticleDownloadsTotal.WithLabelValues("ok").Inc()
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Send applies a batch of state-change actions, one result per action in
// input order.
func (h *KoboHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req pocket.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Error decoding send request")
		utils.SendJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.actions.Apply(r.Context(), req.AccessToken, req.Actions)
	if err != nil {
		middlewares.DumpError(r.Context(), "send", err)
		utils.SendJSONError(w, "upstream error", upstreamStatus(err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// conversionURL builds the externally reachable convert-image URL for a
// given image source, honoring reverse-proxy forwarding headers.
func (h *KoboHandler) conversionURL(r *http.Request) func(src string) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := r.Host
	prefix := strings.TrimRight(r.Header.Get("X-Forwarded-Prefix"), "/")

	return func(src string) string {
		rewritten := fmt.Sprintf("%s://%s%s/api/convert-image?url=%s", scheme, host, prefix, url.QueryEscape(src))
		log.Info().Str("from", src).Str("to", rewritten).Msg("Replacing image URL for conversion")
		return rewritten
	}
}

// upstreamStatus maps backend failures to a gateway status: API errors
// surface as 502, anything else as 500.
func upstreamStatus(err error) int {
	var apiErr *readeck.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

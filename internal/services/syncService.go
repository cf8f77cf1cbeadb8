package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"kobogate/internal/metrics"
	"kobogate/internal/pocket"
	"kobogate/internal/readeck"
)

// SyncService translates the backend's sync delta feed into the legacy
// item listing.
type SyncService interface {
	ListUpdates(ctx context.Context, token string, since *time.Time, offset, count int) (*pocket.GetResponse, error)
}

type syncServiceImpl struct {
	clients ReadeckFactory
}

func NewSyncService(clients ReadeckFactory) SyncService {
	return &syncServiceImpl{clients: clients}
}

// ListUpdates fetches the full delta for since, windows it by
// offset/count and maps each windowed entry. Total always reflects the
// unwindowed delta length. Deleted entries produce the minimal deletion
// shape; updated entries are resolved through a detail fetch.
func (s *syncServiceImpl) ListUpdates(ctx context.Context, token string, since *time.Time, offset, count int) (*pocket.GetResponse, error) {
	api := s.clients(token)

	entries, err := api.BookmarksSync(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &pocket.GetResponse{
		Status: 1,
		List:   make(map[string]any),
		Total:  len(entries),
	}

	for _, entry := range window(entries, offset, count) {
		if entry.Type == readeck.SyncTypeDelete {
			resp.List[entry.ID] = pocket.DeletedItem{ItemID: entry.ID, Status: "2"}
			metrics.ItemsSyncedTotal.WithLabelValues(readeck.SyncTypeDelete).Inc()
			continue
		}

		bm, err := api.BookmarkDetails(ctx, entry.ID)
		if err != nil {
			log.Error().Err(err).Str("bookmark_id", entry.ID).Msg("Error fetching bookmark details")
			return nil, err
		}
		resp.List[entry.ID] = itemFromBookmark(entry.ID, bm)
		metrics.ItemsSyncedTotal.WithLabelValues(readeck.SyncTypeUpdate).Inc()
	}

	return resp, nil
}

func window(entries []readeck.BookmarkSync, offset, count int) []readeck.BookmarkSync {
	if offset < 0 {
		offset = 0
	}
	if count < 0 {
		count = 0
	}
	if offset >= len(entries) {
		return nil
	}
	// Clamp count before adding so a huge value cannot overflow end.
	if count > len(entries)-offset {
		count = len(entries) - offset
	}
	return entries[offset : offset+count]
}

// itemFromBookmark maps a full bookmark record onto the legacy item
// shape. The backend has no read-time concept, so time_read is always 0.
func itemFromBookmark(id string, bm *readeck.Bookmark) pocket.Item {
	authors := make(map[string]pocket.ItemAuthor, len(bm.Authors))
	for _, author := range bm.Authors {
		authors[author] = pocket.ItemAuthor{AuthorID: author, Name: author}
	}

	tags := make(map[string]pocket.ItemTag, len(bm.Labels))
	for _, label := range bm.Labels {
		tags[label] = pocket.ItemTag{ItemID: id, Tag: label}
	}

	item := pocket.Item{
		Authors:       authors,
		Excerpt:       bm.Description,
		Favorite:      "0",
		GivenTitle:    bm.Title,
		GivenURL:      bm.URL,
		HasImage:      "0",
		HasVideo:      "0",
		Image:         pocket.ItemImage{},
		Images:        map[string]pocket.ImageRef{},
		IsArticle:     "1",
		ItemID:        bm.ID,
		ResolvedID:    bm.ID,
		ResolvedTitle: bm.Title,
		ResolvedURL:   bm.URL,
		Status:        "0",
		Tags:          tags,
		TimeAdded:     bm.Created.Unix(),
		TimeRead:      0,
		TimeUpdated:   bm.Updated.Unix(),
		Videos:        []any{},
		WordCount:     bm.WordCount,
	}

	if img := bm.Resources.Image; img != nil {
		item.HasImage = "1"
		item.Image = pocket.ItemImage{Src: img.Src}
		item.Images = map[string]pocket.ImageRef{
			"1": {ImageID: "1", ItemID: "1", Src: img.Src},
		}
		item.TopImageURL = img.Src
	}

	return item
}

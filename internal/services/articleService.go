package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"kobogate/internal/article"
	"kobogate/internal/pocket"
	"kobogate/internal/readeck"
)

// ArticleService resolves a requested URL to a backend bookmark and
// returns its article HTML rewritten for the legacy reader.
type ArticleService interface {
	Download(ctx context.Context, token, rawURL string, policy article.URLPolicy) (*pocket.DownloadResponse, error)
}

type articleServiceImpl struct {
	clients ReadeckFactory
}

func NewArticleService(clients ReadeckFactory) ArticleService {
	return &articleServiceImpl{clients: clients}
}

// Download locates the bookmark matching rawURL, fetches its rendered
// article and extracts the images. A miss surfaces as
// readeck.ErrNotFound.
func (s *articleServiceImpl) Download(ctx context.Context, token, rawURL string, policy article.URLPolicy) (*pocket.DownloadResponse, error) {
	api := s.clients(token)

	bm, err := s.findBookmark(ctx, api, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := api.BookmarkArticle(ctx, bm.ID)
	if err != nil {
		return nil, err
	}

	images, rewritten, err := article.Rewrite(doc, policy)
	if err != nil {
		return nil, err
	}

	return &pocket.DownloadResponse{Images: images, Article: rewritten}, nil
}

// findBookmark probes progressively wider site groupings derived from
// the requested host and scans each candidate's bookmark stream for the
// first exact post-decoding URL match. A transport error on one
// candidate is logged and skips to the next.
func (s *articleServiceImpl) findBookmark(ctx context.Context, api readeck.API, rawURL string) (*readeck.Bookmark, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing requested URL: %w", err)
	}

	requested := decodeURL(rawURL)
	log.Debug().Str("url", requested).Msg("Looking for bookmark URL")

	for _, site := range siteCandidates(parsed.Hostname()) {
		log.Debug().Str("site", site).Msg("Searching bookmarks for site")

		it := api.Bookmarks(ctx, site)
		for it.Next() {
			bm := it.Bookmark()
			if decodeURL(bm.URL) == requested {
				log.Debug().Str("bookmark_id", bm.ID).Msg("Match found")
				return &bm, nil
			}
		}
		if err := it.Err(); err != nil {
			log.Error().Err(err).Str("site", site).Msg("Error searching bookmarks for site")
			continue
		}
	}

	return nil, fmt.Errorf("bookmark for %s: %w", rawURL, readeck.ErrNotFound)
}

// siteCandidates widens from the full host toward the registrable domain
// by stripping leftmost labels, stopping once two labels remain. This is
// a heuristic without public-suffix knowledge.
func siteCandidates(host string) []string {
	candidates := []string{host}
	parts := strings.Split(host, ".")
	for len(parts) > 2 {
		parts = parts[1:]
		candidates = append(candidates, strings.Join(parts, "."))
	}
	return candidates
}

// decodeURL percent-decodes s (treating + as space) so that differently
// encoded forms of the same URL compare equal. Undecodable input is
// compared as-is.
func decodeURL(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

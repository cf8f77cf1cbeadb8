package readeck

import (
	"context"
	"time"
)

// BookmarkSource is a lazy, restartable-per-call stream of bookmarks.
type BookmarkSource interface {
	Next() bool
	Bookmark() Bookmark
	Err() error
}

// API is the client surface the gateway services depend on.
type API interface {
	BookmarksSync(ctx context.Context, since *time.Time) ([]BookmarkSync, error)
	Bookmarks(ctx context.Context, site string) BookmarkSource
	BookmarkDetails(ctx context.Context, id string) (*Bookmark, error)
	BookmarkArticle(ctx context.Context, id string) (string, error)
	UpdateBookmark(ctx context.Context, id string, patch BookmarkPatch) error
	CreateBookmark(ctx context.Context, bookmarkURL string) error
}

var _ API = (*Client)(nil)

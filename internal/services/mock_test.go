package services

import (
	"context"
	"time"

	"kobogate/internal/readeck"
)

// mockReadeck is an in-memory readeck.API used across the service tests.
type mockReadeck struct {
	syncEntries []readeck.BookmarkSync
	syncErr     error

	details   map[string]*readeck.Bookmark
	detailErr error

	articles map[string]string

	sites    map[string][]readeck.Bookmark
	siteErrs map[string]error

	// queried sites and applied mutations, in call order
	queriedSites []string
	updates      []appliedUpdate
	created      []string

	updateErr error
	createErr error
}

type appliedUpdate struct {
	id    string
	patch readeck.BookmarkPatch
}

func (m *mockReadeck) BookmarksSync(_ context.Context, _ *time.Time) ([]readeck.BookmarkSync, error) {
	return m.syncEntries, m.syncErr
}

func (m *mockReadeck) Bookmarks(_ context.Context, site string) readeck.BookmarkSource {
	m.queriedSites = append(m.queriedSites, site)
	return &mockSource{bookmarks: m.sites[site], err: m.siteErrs[site]}
}

func (m *mockReadeck) BookmarkDetails(_ context.Context, id string) (*readeck.Bookmark, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	bm, ok := m.details[id]
	if !ok {
		return nil, readeck.ErrNotFound
	}
	return bm, nil
}

func (m *mockReadeck) BookmarkArticle(_ context.Context, id string) (string, error) {
	doc, ok := m.articles[id]
	if !ok {
		return "", readeck.ErrNotFound
	}
	return doc, nil
}

func (m *mockReadeck) UpdateBookmark(_ context.Context, id string, patch readeck.BookmarkPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, appliedUpdate{id: id, patch: patch})
	return nil
}

func (m *mockReadeck) CreateBookmark(_ context.Context, bookmarkURL string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, bookmarkURL)
	return nil
}

// mockSource yields its bookmarks then reports err, mirroring a stream
// that fails mid-pagination when err is set with bookmarks present.
type mockSource struct {
	bookmarks []readeck.Bookmark
	err       error
	pos       int
	current   readeck.Bookmark
}

func (s *mockSource) Next() bool {
	if s.pos >= len(s.bookmarks) {
		return false
	}
	s.current = s.bookmarks[s.pos]
	s.pos++
	return true
}

func (s *mockSource) Bookmark() readeck.Bookmark { return s.current }

func (s *mockSource) Err() error { return s.err }

func factoryFor(m *mockReadeck) ReadeckFactory {
	return func(string) readeck.API { return m }
}

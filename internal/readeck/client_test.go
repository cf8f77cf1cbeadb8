package readeck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarksSyncSinceFormat(t *testing.T) {
	var gotSince, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSince = r.URL.Query().Get("since")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[{"id":"b1","time":"2024-05-01T10:00:00Z","type":"update"}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	since := time.Date(2024, 5, 1, 12, 30, 45, 0, time.FixedZone("CEST", 2*3600))

	entries, err := client.BookmarksSync(context.Background(), &since)
	require.NoError(t, err)

	// Converted to UTC, no offset suffix.
	assert.Equal(t, "2024-05-01T10:30:45", gotSince)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	require.Len(t, entries, 1)
	assert.Equal(t, "b1", entries[0].ID)
	assert.Equal(t, SyncTypeUpdate, entries[0].Type)
}

func TestBookmarksSyncNoSince(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("since") {
			t.Errorf("unexpected since param: %q", r.URL.Query().Get("since"))
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL, "tok").BookmarksSync(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBookmarksSyncUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok").BookmarksSync(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func bookmarkPage(ids ...string) []Bookmark {
	page := make([]Bookmark, len(ids))
	for i, id := range ids {
		page[i] = Bookmark{ID: id, URL: "https://example.com/" + id}
	}
	return page
}

func TestBookmarksPaginationFollowsLinkHeader(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("site"); got != "example.com" {
			t.Errorf("site=%q", got)
		}
		var page []Bookmark
		switch r.URL.Query().Get("page") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/bookmarks?page=2>; rel="next", <%s/api/bookmarks?page=1>; rel="first"`, srvURL, srvURL))
			page = bookmarkPage("a", "b")
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/bookmarks?page=3>; rel=next`, srvURL))
			page = bookmarkPage("c")
		case "3":
			page = bookmarkPage("d")
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()
	srvURL = srv.URL

	it := NewClient(srv.URL, "tok").Bookmarks(context.Background(), "example.com")

	var ids []string
	for it.Next() {
		ids = append(ids, it.Bookmark().ID)
	}
	require.NoError(t, it.Err())

	// One logical ordered stream across all pages.
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestBookmarksIteratorSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	it := NewClient(srv.URL, "tok").Bookmarks(context.Background(), "example.com")
	assert.False(t, it.Next())
	var apiErr *APIError
	require.ErrorAs(t, it.Err(), &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestBookmarkDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok").BookmarkDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestBookmarkDetailsDecodesRecord(t *testing.T) {
	wordCount := 321
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookmarks/b1", r.URL.Path)
		json.NewEncoder(w).Encode(Bookmark{
			ID:        "b1",
			URL:       "https://example.com/post",
			Title:     "A post",
			WordCount: &wordCount,
			Resources: Resources{Image: &ResourceImage{Src: "https://example.com/top.png", Width: 100, Height: 50}},
		})
	}))
	defer srv.Close()

	bm, err := NewClient(srv.URL, "tok").BookmarkDetails(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "A post", bm.Title)
	require.NotNil(t, bm.WordCount)
	assert.Equal(t, 321, *bm.WordCount)
	require.NotNil(t, bm.Resources.Image)
	assert.Equal(t, "https://example.com/top.png", bm.Resources.Image.Src)
}

func TestBookmarkArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookmarks/b1/article", r.URL.Path)
		fmt.Fprint(w, "<p>hello</p>")
	}))
	defer srv.Close()

	doc, err := NewClient(srv.URL, "tok").BookmarkArticle(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", doc)
}

func TestUpdateBookmarkTreats404AsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	archived := true
	err := NewClient(srv.URL, "tok").UpdateBookmark(context.Background(), "gone", BookmarkPatch{IsArchived: &archived})
	assert.NoError(t, err)
}

func TestUpdateBookmarkSendsPartialPatch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	marked := true
	err := NewClient(srv.URL, "tok").UpdateBookmark(context.Background(), "b1", BookmarkPatch{IsMarked: &marked})
	require.NoError(t, err)

	// Only the touched flag crosses the wire.
	assert.Equal(t, map[string]any{"is_marked": true}, gotBody)
}

func TestCreateBookmark(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookmarks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "tok").CreateBookmark(context.Background(), "https://example.com/new")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"url": "https://example.com/new"}, gotBody)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"quoted rel", `<https://rd.test/api/bookmarks?page=2>; rel="next"`, "https://rd.test/api/bookmarks?page=2"},
		{"bare rel", `<https://rd.test/p2>; rel=next`, "https://rd.test/p2"},
		{"multiple entries", `<https://rd.test/p1>; rel="first", <https://rd.test/p2>; rel="next", <https://rd.test/p9>; rel="last"`, "https://rd.test/p2"},
		{"no next", `<https://rd.test/p1>; rel="prev"`, ""},
		{"extra params", `<https://rd.test/p2>; title="page 2"; rel="next"`, "https://rd.test/p2"},
		{"comma in url", `<https://rd.test/p2?ids=1,2,3>; rel="next"`, "https://rd.test/p2?ids=1,2,3"},
		{"comma in url among entries", `<https://rd.test/p1?ids=1,2>; rel="prev", <https://rd.test/p2?ids=1,2>; rel="next"`, "https://rd.test/p2?ids=1,2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextLink(tc.header))
		})
	}
}

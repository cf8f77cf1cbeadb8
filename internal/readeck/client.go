package readeck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"kobogate/internal/utils"
)

// ErrNotFound reports that a bookmark lookup hit a 404.
var ErrNotFound = errors.New("readeck: not found")

// APIError is a non-2xx response from the Readeck API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("readeck: API error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("readeck: API error %d", e.StatusCode)
}

// IsNotFound reports whether err represents a missing bookmark, either as
// the sentinel or as a raw 404 API error.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to one Readeck instance on behalf of one user token.
// Clients are cheap to construct and are built per request, since the
// bearer token comes from the inbound legacy request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues one authenticated request and returns the response status,
// headers and body. Non-2xx responses are logged with full (sanitized)
// context and returned as *APIError.
func (c *Client) do(ctx context.Context, method, rawURL string, body any) (int, http.Header, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, nil, err
	}

	if resp.StatusCode >= 400 {
		bodyText := string(respBody)
		if len(bodyText) > 1000 {
			bodyText = bodyText[:1000] + "..."
		}
		log.Error().
			Str("method", method).
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Interface("request_headers", utils.HeadersToMap(utils.SanitizeHeaders(req.Header))).
			Str("body", bodyText).
			Msg("READECK_API_ERROR")
	}

	return resp.StatusCode, resp.Header, respBody, nil
}

// BookmarksSync returns the delta feed of bookmarks updated or deleted
// since the given time. A nil since returns the full feed.
func (c *Client) BookmarksSync(ctx context.Context, since *time.Time) ([]BookmarkSync, error) {
	syncURL := c.baseURL + "/api/bookmarks/sync"
	if since != nil {
		q := url.Values{}
		q.Set("since", since.UTC().Format("2006-01-02T15:04:05"))
		syncURL += "?" + q.Encode()
	}

	status, _, body, err := c.do(ctx, http.MethodGet, syncURL, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var entries []BookmarkSync
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("readeck: decoding sync feed: %w", err)
	}
	return entries, nil
}

// Bookmarks returns an iterator over all bookmarks whose site matches,
// following the Link rel="next" continuation across pages. Entries are
// yielded in server order, one logical stream spanning all pages.
func (c *Client) Bookmarks(ctx context.Context, site string) BookmarkSource {
	first := c.baseURL + "/api/bookmarks?" + url.Values{"site": {site}}.Encode()
	return &BookmarkIterator{client: c, ctx: ctx, site: site, nextURL: first}
}

// BookmarkDetails fetches the full record for one bookmark.
func (c *Client) BookmarkDetails(ctx context.Context, id string) (*Bookmark, error) {
	status, _, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/bookmarks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(body)}
	}

	var bm Bookmark
	if err := json.Unmarshal(body, &bm); err != nil {
		return nil, fmt.Errorf("readeck: decoding bookmark %s: %w", id, err)
	}
	return &bm, nil
}

// BookmarkArticle fetches the rendered article HTML for one bookmark.
func (c *Client) BookmarkArticle(ctx context.Context, id string) (string, error) {
	status, _, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/bookmarks/"+url.PathEscape(id)+"/article", nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if status < 200 || status >= 300 {
		return "", &APIError{StatusCode: status, Body: string(body)}
	}
	return string(body), nil
}

// UpdateBookmark applies a partial state update. A 404 is treated as
// success: the target being already gone is not an error.
func (c *Client) UpdateBookmark(ctx context.Context, id string, patch BookmarkPatch) error {
	status, _, body, err := c.do(ctx, http.MethodPatch, c.baseURL+"/api/bookmarks/"+url.PathEscape(id), patch)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status < 200 || status >= 300 {
		return &APIError{StatusCode: status, Body: string(body)}
	}
	return nil
}

// CreateBookmark submits a new bookmark for the given URL.
func (c *Client) CreateBookmark(ctx context.Context, bookmarkURL string) error {
	status, _, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/bookmarks", map[string]string{"url": bookmarkURL})
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &APIError{StatusCode: status, Body: string(body)}
	}
	return nil
}

// BookmarkIterator walks the paginated bookmark listing lazily, in the
// style of bufio.Scanner: Next advances, Bookmark returns the current
// entry, Err reports the first transport or API failure.
type BookmarkIterator struct {
	client  *Client
	ctx     context.Context
	site    string
	nextURL string
	page    []Bookmark
	pos     int
	current Bookmark
	err     error
}

func (it *BookmarkIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.pos >= len(it.page) {
		if it.nextURL == "" {
			return false
		}
		if err := it.fetchPage(); err != nil {
			it.err = err
			return false
		}
	}
	it.current = it.page[it.pos]
	it.pos++
	return true
}

func (it *BookmarkIterator) Bookmark() Bookmark { return it.current }

func (it *BookmarkIterator) Err() error { return it.err }

func (it *BookmarkIterator) fetchPage() error {
	pageURL, err := withSiteParam(it.nextURL, it.site)
	if err != nil {
		return err
	}

	status, headers, body, err := it.client.do(it.ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &APIError{StatusCode: status, Body: string(body)}
	}

	var page []Bookmark
	if err := json.Unmarshal(body, &page); err != nil {
		return fmt.Errorf("readeck: decoding bookmark page: %w", err)
	}
	it.page = page
	it.pos = 0
	it.nextURL = nextLink(headers.Get("Link"))
	return nil
}

// withSiteParam ensures the site filter survives continuation URLs that
// the server may hand back without it.
func withSiteParam(rawURL, site string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("site") == "" {
		q.Set("site", site)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// nextLink extracts the rel="next" URL from a Link header of the form
// `<url>; rel=value, <url>; rel=value`. Entries are located by their
// <...> group so commas inside a target URL do not split it. Returns ""
// when absent.
func nextLink(header string) string {
	rest := header
	for {
		start := strings.Index(rest, "<")
		if start < 0 {
			return ""
		}
		end := strings.Index(rest[start:], ">")
		if end < 0 {
			return ""
		}
		target := rest[start+1 : start+end]
		rest = rest[start+end+1:]

		params := rest
		if i := strings.Index(rest, "<"); i >= 0 {
			params = rest[:i]
			rest = rest[i:]
		} else {
			rest = ""
		}
		for _, param := range strings.Split(params, ";") {
			key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok {
				continue
			}
			val = strings.Trim(strings.TrimSpace(val), `"`)
			if strings.TrimSpace(key) == "rel" && val == "next" {
				return target
			}
		}
	}
}

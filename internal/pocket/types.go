// Package pocket defines the wire schema expected by the legacy e-reader
// client. Field names are part of the protocol and must not change: the
// client is fixed and unmodifiable.
package pocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Action kinds accepted on the send endpoint. Anything else is reported
// as a per-action failure, never as a request error.
const (
	ActionArchive    = "archive"
	ActionReadd      = "readd"
	ActionFavorite   = "favorite"
	ActionUnfavorite = "unfavorite"
	ActionDelete     = "delete"
	ActionAdd        = "add"
)

// Timestamp decodes from either epoch seconds or an ISO-8601 string,
// since different client firmwares disagree on the since format.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("pocket: cannot parse timestamp %q", s)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	secs, err := n.Float64()
	if err != nil {
		return fmt.Errorf("pocket: cannot parse timestamp %q", n.String())
	}
	t.Time = time.Unix(int64(secs), 0).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

// GetRequest is the body of the "list updates" operation.
type GetRequest struct {
	AccessToken string     `json:"access_token"`
	ConsumerKey string     `json:"consumer_key"`
	ContentType string     `json:"contentType"`
	Count       int        `json:"count"`
	DetailType  string     `json:"detailType"`
	Offset      int        `json:"offset"`
	State       string     `json:"state"`
	Total       string     `json:"total"`
	Since       *Timestamp `json:"since,omitempty"`
}

// Action is one entry of a send batch: either an existing-item action
// carrying item_id, or an add carrying url. The union is closed over the
// Action* kinds; unknown kinds map to a false result downstream.
type Action struct {
	Action string `json:"action"`
	ItemID string `json:"item_id,omitempty"`
	URL    string `json:"url,omitempty"`
}

// SendRequest is the body of the "apply state changes" operation.
type SendRequest struct {
	AccessToken string   `json:"access_token"`
	ConsumerKey string   `json:"consumer_key"`
	Actions     []Action `json:"actions"`
}

// SendResponse carries one result per action, in input order.
type SendResponse struct {
	Status        bool   `json:"status"`
	ActionResults []bool `json:"action_results"`
}

// DownloadRequest is the form-encoded body of the article download
// operation.
type DownloadRequest struct {
	AccessToken string
	ConsumerKey string
	Images      int
	Refresh     int
	Output      string
	URL         string
}

// ItemAuthor is an author entry keyed by the author name itself.
type ItemAuthor struct {
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
}

// ItemTag is a tag entry keyed by the label itself.
type ItemTag struct {
	ItemID string `json:"item_id"`
	Tag    string `json:"tag"`
}

// ItemImage is the single-image summary of an item; serialized as {}
// when the item has no image.
type ItemImage struct {
	Src string `json:"src,omitempty"`
}

// ImageRef points at one extracted image, keyed by its zero-based
// position in the item's images map.
type ImageRef struct {
	ImageID string `json:"image_id"`
	ItemID  string `json:"item_id"`
	Src     string `json:"src"`
}

// Item is the full legacy item shape (status "0").
type Item struct {
	Authors       map[string]ItemAuthor `json:"authors"`
	Excerpt       string                `json:"excerpt"`
	Favorite      string                `json:"favorite"`
	GivenTitle    string                `json:"given_title"`
	GivenURL      string                `json:"given_url"`
	HasImage      string                `json:"has_image"`
	HasVideo      string                `json:"has_video"`
	Image         ItemImage             `json:"image"`
	Images        map[string]ImageRef   `json:"images"`
	IsArticle     string                `json:"is_article"`
	ItemID        string                `json:"item_id"`
	ResolvedID    string                `json:"resolved_id"`
	ResolvedTitle string                `json:"resolved_title"`
	ResolvedURL   string                `json:"resolved_url"`
	Status        string                `json:"status"`
	Tags          map[string]ItemTag    `json:"tags"`
	TimeAdded     int64                 `json:"time_added"`
	TimeRead      int64                 `json:"time_read"`
	TimeUpdated   int64                 `json:"time_updated"`
	Videos        []any                 `json:"videos"`
	WordCount     *int                  `json:"word_count"`
	TopImageURL   string                `json:"top_image_url,omitempty"`
}

// DeletedItem is the minimal deletion shape (status "2"); no other
// fields are ever present on it.
type DeletedItem struct {
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

// GetResponse is the full sync window result. List values are either
// Item or DeletedItem, exactly one shape per entry.
type GetResponse struct {
	Status int            `json:"status"`
	List   map[string]any `json:"list"`
	Total  int            `json:"total"`
}

// DownloadResponse is the rewritten article plus its image side-table.
type DownloadResponse struct {
	Images  map[string]ImageRef `json:"images"`
	Article string              `json:"article"`
}

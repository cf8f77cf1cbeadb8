// Package readeck implements a typed client for the Readeck bookmark API.
//
// The data structures are partial and only cover what the gateway needs
// to translate Readeck records into the legacy reader protocol.
package readeck

import "time"

// Sync entry types returned by the bookmark sync feed.
const (
	SyncTypeUpdate = "update"
	SyncTypeDelete = "delete"
)

// BookmarkSync is one entry of the sync delta feed: a bookmark that was
// updated or deleted since the requested timestamp.
type BookmarkSync struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Type string    `json:"type"`
}

// ResourceImage is an image resource attached to a bookmark.
type ResourceImage struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ResourceLink is a plain link resource attached to a bookmark.
type ResourceLink struct {
	Src string `json:"src"`
}

// Resources groups the media and document resources of a bookmark.
// Image is present iff Readeck extracted a top image for the bookmark.
type Resources struct {
	Article   *ResourceLink  `json:"article,omitempty"`
	Icon      *ResourceImage `json:"icon,omitempty"`
	Image     *ResourceImage `json:"image,omitempty"`
	Log       ResourceLink   `json:"log"`
	Props     ResourceLink   `json:"props"`
	Thumbnail *ResourceImage `json:"thumbnail,omitempty"`
}

// Bookmark is a full bookmark record as returned by the detail and list
// endpoints. The ID is stable across fetches.
type Bookmark struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Href          string    `json:"href"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Authors       []string  `json:"authors"`
	Labels        []string  `json:"labels"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
	DocumentType  string    `json:"document_type"`
	HasArticle    bool      `json:"has_article"`
	IsArchived    bool      `json:"is_archived"`
	IsDeleted     bool      `json:"is_deleted"`
	IsMarked      bool      `json:"is_marked"`
	Lang          string    `json:"lang"`
	Loaded        bool      `json:"loaded"`
	ReadProgress  int       `json:"read_progress"`
	Resources     Resources `json:"resources"`
	Site          string    `json:"site"`
	SiteName      string    `json:"site_name"`
	State         int       `json:"state"`
	TextDirection string    `json:"text_direction"`
	Type          string    `json:"type"`
	WordCount     *int      `json:"word_count,omitempty"`
}

// BookmarkPatch is a partial update of a bookmark's state flags. Nil
// fields are left untouched by the backend.
type BookmarkPatch struct {
	IsArchived *bool `json:"is_archived,omitempty"`
	IsDeleted  *bool `json:"is_deleted,omitempty"`
	IsMarked   *bool `json:"is_marked,omitempty"`
}

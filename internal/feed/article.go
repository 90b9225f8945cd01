package feed

import "time"

// Article is the unit flowing through the whole news pipeline, for both
// the generic crypto API and the Pi blog feed.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	SourceName  string    `json:"sourceName"`
	PublishedAt time.Time `json:"publishedAt"`

	// Relevance is only set on generic-API articles that went through
	// scoring; blog articles are on-topic by construction and skip it.
	Relevance int `json:"relevance,omitempty"`

	// FromBlogFeed marks articles taken from the Pi blog syndication
	// feed. FeedURL records which candidate URL won, for diagnostics.
	FromBlogFeed bool   `json:"fromBlogFeed,omitempty"`
	FeedURL      string `json:"feedUrl,omitempty"`
}

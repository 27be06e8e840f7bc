package types

import (
	"net/url"
	"strings"
	"time"
)

// Link is a bookmarked resource (vendor page, manual, tutorial).
type Link struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	DateAdded   time.Time  `json:"dateAdded"`
	DateUpdated *time.Time `json:"dateUpdated,omitempty"`
}

// Validate checks that a link has a title and an absolute URL.
func (l *Link) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrInvalidName
	}
	u, err := url.Parse(l.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// LinkPatch carries a partial update for a Link.
type LinkPatch struct {
	Title       *string
	URL         *string
	Description *string
	Category    *string
	Tags        []string
}

// Apply merges the patch into l.
func (lp LinkPatch) Apply(l *Link) {
	setIf(&l.Title, lp.Title)
	setIf(&l.URL, lp.URL)
	setIf(&l.Description, lp.Description)
	setIf(&l.Category, lp.Category)
	if lp.Tags != nil {
		l.Tags = append([]string{}, lp.Tags...)
	}
}

// LinkFilter selects the visible links.
type LinkFilter struct {
	SearchTerm string   // Matches title, URL, description and tags.
	Categories []string // Empty means all.
}

// LinkFilterPatch carries a partial LinkFilter update.
type LinkFilterPatch struct {
	SearchTerm *string
	Categories []string
}

// Apply merges the patch into f.
func (fp LinkFilterPatch) Apply(f *LinkFilter) {
	setIf(&f.SearchTerm, fp.SearchTerm)
	if fp.Categories != nil {
		f.Categories = append([]string{}, fp.Categories...)
	}
}

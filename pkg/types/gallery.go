package types

import (
	"strings"
	"time"
)

// GalleryItem showcases a finished build.
type GalleryItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURLs   []string    `json:"imageUrls"`
	Tags        []string    `json:"tags"`
	Specs       *BuildSpecs `json:"specs,omitempty"`
	DateAdded   time.Time   `json:"dateAdded"`
	DateUpdated *time.Time  `json:"dateUpdated,omitempty"`
}

// Validate checks that a gallery item has a title.
func (g *GalleryItem) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrInvalidName
	}
	return nil
}

// GalleryPatch carries a partial update for a GalleryItem.
type GalleryPatch struct {
	Title       *string
	Description *string
	ImageURLs   []string
	Tags        []string // nil leaves tags unchanged; an empty slice clears them.
	Specs       *BuildSpecs
}

// Apply merges the patch into g.
func (gp GalleryPatch) Apply(g *GalleryItem) {
	setIf(&g.Title, gp.Title)
	setIf(&g.Description, gp.Description)
	if gp.ImageURLs != nil {
		g.ImageURLs = append([]string{}, gp.ImageURLs...)
	}
	if gp.Tags != nil {
		g.Tags = append([]string{}, gp.Tags...)
	}
	if gp.Specs != nil {
		specs := *gp.Specs
		g.Specs = &specs
	}
}

// GalleryFilter selects the visible gallery items.
type GalleryFilter struct {
	SearchTerm string   // Matches title, description and tags.
	Tags       []string // Item passes when it carries any selected tag.
}

// GalleryFilterPatch carries a partial GalleryFilter update.
type GalleryFilterPatch struct {
	SearchTerm *string
	Tags       []string
}

// Apply merges the patch into f.
func (fp GalleryFilterPatch) Apply(f *GalleryFilter) {
	setIf(&f.SearchTerm, fp.SearchTerm)
	if fp.Tags != nil {
		f.Tags = append([]string{}, fp.Tags...)
	}
}

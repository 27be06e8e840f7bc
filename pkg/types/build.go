package types

import (
	"strings"
	"time"
)

// Build note statuses.
const (
	BuildStatusPlanning   = "planning"
	BuildStatusInProgress = "in-progress"
	BuildStatusCompleted  = "completed"
	BuildStatusArchived   = "archived"
)

// validBuildStatuses is the set of recognized build statuses.
var validBuildStatuses = map[string]bool{
	BuildStatusPlanning:   true,
	BuildStatusInProgress: true,
	BuildStatusCompleted:  true,
	BuildStatusArchived:   true,
}

// IsValidBuildStatus reports whether s is a recognized build status.
func IsValidBuildStatus(s string) bool {
	return validBuildStatuses[s]
}

// BuildNote documents one build.
type BuildNote struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Parts       []BuildPart `json:"parts"`
	TotalCost   float64     `json:"totalCost"`
	ImageURLs   []string    `json:"imageUrls"`
	Specs       *BuildSpecs `json:"specs,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	DateCreated time.Time   `json:"dateCreated"`
	DateUpdated *time.Time  `json:"dateUpdated,omitempty"`
}

// BuildPart is a part allocated to a build.
type BuildPart struct {
	PartID   string `json:"partId"`
	Quantity int    `json:"quantity"`
}

// BuildSpecs holds the technical summary shared by builds and gallery items.
type BuildSpecs struct {
	Weight           float64 `json:"weight,omitempty"` // Grams.
	Size             string  `json:"size,omitempty"`
	MotorKV          int     `json:"motorKv,omitempty"`
	BatteryConfig    string  `json:"batteryConfig,omitempty"`
	FlightController string  `json:"flightController,omitempty"`
	VTX              string  `json:"vtx,omitempty"`
}

// Validate checks the title and status of a build note.
func (b *BuildNote) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrInvalidName
	}
	if !IsValidBuildStatus(b.Status) {
		return ErrInvalidStatus
	}
	for _, p := range b.Parts {
		if p.Quantity < 0 {
			return ErrInvalidQuantity
		}
	}
	if b.TotalCost < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// BuildPatch carries a partial update for a BuildNote.
type BuildPatch struct {
	Title       *string
	Description *string
	Status      *string
	Parts       []BuildPart
	TotalCost   *float64
	ImageURLs   []string
	Specs       *BuildSpecs
	Notes       *string
}

// Apply merges the patch into b.
func (bp BuildPatch) Apply(b *BuildNote) {
	setIf(&b.Title, bp.Title)
	setIf(&b.Description, bp.Description)
	setIf(&b.Status, bp.Status)
	if bp.Parts != nil {
		b.Parts = append([]BuildPart{}, bp.Parts...)
	}
	setIf(&b.TotalCost, bp.TotalCost)
	if bp.ImageURLs != nil {
		b.ImageURLs = append([]string{}, bp.ImageURLs...)
	}
	if bp.Specs != nil {
		specs := *bp.Specs
		b.Specs = &specs
	}
	setIf(&b.Notes, bp.Notes)
}

// BuildFilter selects the visible build notes.
type BuildFilter struct {
	SearchTerm string   // Matches title and description.
	Statuses   []string // Empty means all.
}

// BuildFilterPatch carries a partial BuildFilter update.
type BuildFilterPatch struct {
	SearchTerm *string
	Statuses   []string
}

// Apply merges the patch into f.
func (fp BuildFilterPatch) Apply(f *BuildFilter) {
	setIf(&f.SearchTerm, fp.SearchTerm)
	if fp.Statuses != nil {
		f.Statuses = append([]string{}, fp.Statuses...)
	}
}

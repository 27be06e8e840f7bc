package types

import (
	"strings"
	"time"
)

// Todo priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// validPriorities is the set of recognized todo priorities.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// IsValidPriority reports whether p is a recognized priority.
func IsValidPriority(p string) bool {
	return validPriorities[p]
}

// TodoItem is a task or reminder.
type TodoItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Completed     bool       `json:"completed"`
	Priority      string     `json:"priority"`
	DateCreated   time.Time  `json:"dateCreated"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`
	DateUpdated   *time.Time `json:"dateUpdated,omitempty"`
}

// Validate checks the title and priority of a todo.
func (t *TodoItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrInvalidName
	}
	if !IsValidPriority(t.Priority) {
		return ErrInvalidPriority
	}
	return nil
}

// SetCompleted marks the todo done or not done, stamping DateCompleted.
// Idempotent: setting the current state keeps the existing timestamp.
func (t *TodoItem) SetCompleted(done bool, now time.Time) {
	if t.Completed == done {
		return
	}
	t.Completed = done
	if done {
		t.DateCompleted = &now
	} else {
		t.DateCompleted = nil
	}
}

// TodoPatch carries a partial update for a TodoItem.
type TodoPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Completed   *bool
}

// Apply merges the patch into t. Completion changes go through SetCompleted.
func (tp TodoPatch) Apply(t *TodoItem, now time.Time) {
	setIf(&t.Title, tp.Title)
	setIf(&t.Description, tp.Description)
	setIf(&t.Priority, tp.Priority)
	if tp.Completed != nil {
		t.SetCompleted(*tp.Completed, now)
	}
}

// TodoFilter selects the visible todos.
type TodoFilter struct {
	SearchTerm string   // Matches title and description.
	Priorities []string // Empty means all.
	Completed  *bool    // Nil means no restriction.
}

// TodoFilterPatch carries a partial TodoFilter update. Set ClearCompleted to
// reset the tri-state completed filter to "no restriction".
type TodoFilterPatch struct {
	SearchTerm     *string
	Priorities     []string
	Completed      *bool
	ClearCompleted bool
}

// Apply merges the patch into f.
func (fp TodoFilterPatch) Apply(f *TodoFilter) {
	setIf(&f.SearchTerm, fp.SearchTerm)
	if fp.Priorities != nil {
		f.Priorities = append([]string{}, fp.Priorities...)
	}
	switch {
	case fp.ClearCompleted:
		f.Completed = nil
	case fp.Completed != nil:
		v := *fp.Completed
		f.Completed = &v
	}
}

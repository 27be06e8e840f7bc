package types

import (
	"errors"
	"fmt"
	"strings"
)

// Collection operation errors.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrInUse            = errors.New("entity is in use")
	ErrValidationFailed = errors.New("backup validation failed")
	ErrSinkFailure      = errors.New("external sink failed")
)

// Entity validation errors.
var (
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidSettings = errors.New("invalid settings")
)

// InUseError reports a deletion blocked by referencing records. It matches
// ErrInUse with errors.Is.
type InUseError struct {
	Kind  string // Kind of the entity being deleted (category, subcategory, location, tag).
	Name  string // Name of the entity being deleted.
	Count int    // Number of records still referencing it.
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s %q is in use by %d record(s)", e.Kind, e.Name, e.Count)
}

// Is reports whether target is ErrInUse.
func (e *InUseError) Is(target error) bool {
	return target == ErrInUse
}

// ValidationError reports a backup document whose required fields are
// missing or malformed. It matches ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields []string // Dotted paths of the offending fields, e.g. "data.parts".
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("backup validation failed: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// InUseCount returns the blocking count carried by err when err is an
// InUseError, and false otherwise.
func InUseCount(err error) (int, bool) {
	var inUse *InUseError
	if errors.As(err, &inUse) {
		return inUse.Count, true
	}
	return 0, false
}

package collection

import (
	"slices"
	"strings"
	"time"
)

// MatchesTerm reports whether any field contains term, ignoring case.
// A blank term matches everything.
func MatchesTerm(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// InSet reports whether value is one of selected. An empty selection
// matches everything.
func InSet(value string, selected []string) bool {
	return len(selected) == 0 || slices.Contains(selected, value)
}

// Intersects reports whether any of values is in selected. An empty
// selection matches everything.
func Intersects(values, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, v := range values {
		if slices.Contains(selected, v) {
			return true
		}
	}
	return false
}

// MatchesBool applies a tri-state restriction: nil matches everything.
func MatchesBool(value bool, want *bool) bool {
	return want == nil || value == *want
}

// Where returns the records that satisfy keep, preserving order.
func Where[T any](recs []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(recs))
	for i := range recs {
		if keep(&recs[i]) {
			out = append(out, recs[i])
		}
	}
	return out
}

// NewestFirst stable-sorts recs in place by the time returned from at,
// latest first. Records with equal times keep their relative order.
func NewestFirst[T any](recs []T, at func(*T) time.Time) []T {
	slices.SortStableFunc(recs, func(a, b T) int {
		return at(&b).Compare(at(&a))
	})
	return recs
}

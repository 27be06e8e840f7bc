package collection

import (
	"slices"
	"strings"
)

// TagRegistry tracks the known gallery tags. A tag is known while at least
// one item references it or while it is explicitly registered. Known tags
// keep first-seen order.
type TagRegistry struct {
	refs     map[string]int
	explicit map[string]bool
	order    []string
}

// NewTagRegistry returns an empty registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{
		refs:     make(map[string]int),
		explicit: make(map[string]bool),
	}
}

// NormalizeTag lowercases and trims tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Acquire counts one reference for each distinct tag in tags.
func (r *TagRegistry) Acquire(tags []string) {
	for _, t := range distinct(tags) {
		r.refs[t]++
		r.touch(t)
	}
}

// Release drops one reference for each distinct tag in tags.
func (r *TagRegistry) Release(tags []string) {
	for _, t := range distinct(tags) {
		if r.refs[t] > 0 {
			r.refs[t]--
		}
		r.prune(t)
	}
}

// Swap applies the change of an item's tags from before to after.
func (r *TagRegistry) Swap(before, after []string) {
	r.Acquire(after)
	r.Release(before)
}

// Register marks tag as explicitly known. Returns false if it already was.
func (r *TagRegistry) Register(tag string) bool {
	if r.explicit[tag] {
		return false
	}
	r.explicit[tag] = true
	r.touch(tag)
	return true
}

// Unregister clears the explicit mark on tag and forgets it when nothing
// references it.
func (r *TagRegistry) Unregister(tag string) {
	delete(r.explicit, tag)
	r.prune(tag)
}

// Refs returns the number of items referencing tag.
func (r *TagRegistry) Refs(tag string) int {
	return r.refs[tag]
}

// Has reports whether tag is known.
func (r *TagRegistry) Has(tag string) bool {
	return r.refs[tag] > 0 || r.explicit[tag]
}

// Known returns the known tags in first-seen order.
func (r *TagRegistry) Known() []string {
	return append([]string{}, r.order...)
}

// Explicit returns the explicitly registered tags in first-seen order.
func (r *TagRegistry) Explicit() []string {
	out := []string{}
	for _, t := range r.order {
		if r.explicit[t] {
			out = append(out, t)
		}
	}
	return out
}

// Rebuild discards all state, registers explicit, then counts itemTags.
func (r *TagRegistry) Rebuild(explicit []string, itemTags [][]string) {
	r.refs = make(map[string]int)
	r.explicit = make(map[string]bool)
	r.order = nil
	for _, t := range explicit {
		r.Register(t)
	}
	for _, tags := range itemTags {
		r.Acquire(tags)
	}
}

func (r *TagRegistry) touch(tag string) {
	if !slices.Contains(r.order, tag) {
		r.order = append(r.order, tag)
	}
}

func (r *TagRegistry) prune(tag string) {
	if r.refs[tag] > 0 || r.explicit[tag] {
		return
	}
	delete(r.refs, tag)
	if i := slices.Index(r.order, tag); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

func distinct(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagRegistry_ReferenceCounting(t *testing.T) {
	r := NewTagRegistry()

	r.Acquire([]string{"5inch", "analog"})
	r.Acquire([]string{"5inch", "digital", "5inch"})
	assert.Equal(t, []string{"5inch", "analog", "digital"}, r.Known())
	assert.Equal(t, 2, r.Refs("5inch"))

	r.Release([]string{"5inch", "analog"})
	assert.Equal(t, []string{"5inch", "digital"}, r.Known())
	assert.False(t, r.Has("analog"))

	r.Release([]string{"5inch", "digital", "5inch"})
	assert.Empty(t, r.Known())
}

func TestTagRegistry_ExplicitSurvivesZeroRefs(t *testing.T) {
	r := NewTagRegistry()
	assert.True(t, r.Register("freestyle"))
	assert.False(t, r.Register("freestyle"))

	r.Acquire([]string{"freestyle"})
	r.Release([]string{"freestyle"})
	assert.True(t, r.Has("freestyle"))
	assert.Equal(t, []string{"freestyle"}, r.Explicit())

	r.Unregister("freestyle")
	assert.False(t, r.Has("freestyle"))
	assert.Empty(t, r.Known())
}

func TestTagRegistry_UnregisterKeepsReferenced(t *testing.T) {
	r := NewTagRegistry()
	r.Register("micro")
	r.Acquire([]string{"micro"})

	r.Unregister("micro")
	assert.True(t, r.Has("micro"))
	assert.Empty(t, r.Explicit())
}

func TestTagRegistry_Swap(t *testing.T) {
	r := NewTagRegistry()
	r.Acquire([]string{"a", "b"})
	r.Swap([]string{"a", "b"}, []string{"b", "c"})

	assert.Equal(t, []string{"b", "c"}, r.Known())
	assert.Equal(t, 1, r.Refs("b"))
}

func TestTagRegistry_Rebuild(t *testing.T) {
	r := NewTagRegistry()
	r.Acquire([]string{"stale"})

	r.Rebuild([]string{"custom"}, [][]string{{"x", "custom"}, {"x"}})
	assert.Equal(t, []string{"custom", "x"}, r.Known())
	assert.Equal(t, 2, r.Refs("x"))
	assert.False(t, r.Has("stale"))
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "long range", NormalizeTag("  Long Range "))
}

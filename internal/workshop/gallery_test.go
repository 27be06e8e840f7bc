package workshop

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// referencedTags returns the sorted union of tags on the current items.
func referencedTags(w *Workshop) []string {
	seen := map[string]bool{}
	for _, it := range w.Gallery.List() {
		for _, t := range it.Tags {
			seen[t] = true
		}
	}
	out := []string{}
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func sortedTags(w *Workshop) []string {
	tags := w.Gallery.Tags()
	sort.Strings(tags)
	return tags
}

func TestGallery_TagInvariant(t *testing.T) {
	w, _ := setupWorkshop(t)

	a, err := w.Gallery.Add(types.GalleryItem{Title: "Quad A", Tags: []string{"5inch", "Analog", " analog "}})
	require.NoError(t, err)
	assert.Equal(t, referencedTags(w), sortedTags(w))

	b, err := w.Gallery.Add(types.GalleryItem{Title: "Quad B", Tags: []string{"5inch", "digital"}})
	require.NoError(t, err)
	assert.Equal(t, referencedTags(w), sortedTags(w))

	require.NoError(t, w.Gallery.Update(a, types.GalleryPatch{Tags: []string{"micro"}}))
	assert.Equal(t, referencedTags(w), sortedTags(w))

	require.NoError(t, w.Gallery.Update(b, types.GalleryPatch{Title: types.Ptr("Quad B2")}))
	assert.Equal(t, referencedTags(w), sortedTags(w))

	require.NoError(t, w.Gallery.Delete(b))
	assert.Equal(t, []string{"micro"}, sortedTags(w))

	require.NoError(t, w.Gallery.Delete(a))
	assert.Empty(t, w.Gallery.Tags())
}

func TestGallery_CasePreservedOnItems(t *testing.T) {
	w, _ := setupWorkshop(t)
	id, err := w.Gallery.Add(types.GalleryItem{Title: "Quad", Tags: []string{"Long Range", "Long Range", ""}})
	require.NoError(t, err)

	it, _ := w.Gallery.Get(id)
	assert.Equal(t, []string{"Long Range"}, it.Tags)
	assert.Equal(t, []string{"Long Range"}, w.Gallery.Tags())
}

func TestGallery_CustomTags(t *testing.T) {
	w, store := setupWorkshop(t)

	tag, err := w.Gallery.AddCustomTag("  Freestyle ")
	require.NoError(t, err)
	assert.Equal(t, "freestyle", tag)
	assert.Equal(t, []string{"freestyle"}, w.Gallery.Tags())

	raw, err := store.Get(types.KeyCustomTags)
	require.NoError(t, err)
	assert.JSONEq(t, `["freestyle"]`, string(raw))

	_, err = w.Gallery.AddCustomTag("   ")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	id, err := w.Gallery.Add(types.GalleryItem{Title: "Quad", Tags: []string{"freestyle"}})
	require.NoError(t, err)

	err = w.Gallery.RemoveCustomTag("freestyle")
	n, ok := types.InUseCount(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, 1, n)

	// Explicit tags stay known with no references.
	require.NoError(t, w.Gallery.Delete(id))
	assert.Equal(t, []string{"freestyle"}, w.Gallery.Tags())

	w.Gallery.SetFilterOptions(types.GalleryFilterPatch{Tags: []string{"freestyle", "micro"}})
	require.NoError(t, w.Gallery.RemoveCustomTag("freestyle"))
	assert.Empty(t, w.Gallery.Tags())
	assert.Equal(t, []string{"micro"}, w.Gallery.FilterOptions().Tags)

	assert.ErrorIs(t, w.Gallery.RemoveCustomTag("freestyle"), types.ErrNotFound)
}

func TestGallery_RemoveCustomTagMatchesAddedForm(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"exact", "longrange"},
		{"mixed case", "LongRange"},
		{"padded", " LongRange "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := setupWorkshop(t)
			_, err := w.Gallery.AddCustomTag("LongRange")
			require.NoError(t, err)

			require.NoError(t, w.Gallery.RemoveCustomTag(tt.remove))
			assert.Empty(t, w.Gallery.Tags())
		})
	}

	t.Run("item tag keeps its case", func(t *testing.T) {
		w, _ := setupWorkshop(t)
		_, err := w.Gallery.Add(types.GalleryItem{Title: "Quad", Tags: []string{"LongRange"}})
		require.NoError(t, err)

		err = w.Gallery.RemoveCustomTag(" LongRange ")
		assert.ErrorIs(t, err, types.ErrInUse)
		assert.ErrorIs(t, w.Gallery.RemoveCustomTag("unknown"), types.ErrNotFound)
	})
}

func TestGallery_CustomTagsReload(t *testing.T) {
	w, store := setupWorkshop(t)
	_, err := w.Gallery.AddCustomTag("whoop")
	require.NoError(t, err)
	_, err = w.Gallery.Add(types.GalleryItem{Title: "Tiny", Tags: []string{"indoor"}})
	require.NoError(t, err)

	again, err := New(store.Backend, WithoutSeed())
	require.NoError(t, err)
	assert.Equal(t, []string{"whoop", "indoor"}, again.Gallery.Tags())
}

func TestGallery_CustomTagWriteFailure(t *testing.T) {
	w, store := setupWorkshop(t)
	store.failWrites = true
	_, err := w.Gallery.AddCustomTag("digital")
	assert.ErrorIs(t, err, types.ErrSinkFailure)
	assert.Empty(t, w.Gallery.Tags())
}

func TestGallery_FilterNewestFirst(t *testing.T) {
	w, _ := setupWorkshop(t)
	_, err := w.Gallery.Add(types.GalleryItem{Title: "First", Tags: []string{"analog"}})
	require.NoError(t, err)
	_, err = w.Gallery.Add(types.GalleryItem{Title: "Second", Tags: []string{"digital"}})
	require.NoError(t, err)
	_, err = w.Gallery.Add(types.GalleryItem{Title: "Third", Description: "analog cam"})
	require.NoError(t, err)

	titles := func() []string {
		out := []string{}
		for _, g := range w.Gallery.Visible() {
			out = append(out, g.Title)
		}
		return out
	}
	assert.Equal(t, []string{"Third", "Second", "First"}, titles())
	assert.Equal(t, "First", w.Gallery.List()[0].Title, "backing order is untouched")

	w.Gallery.SetFilterOptions(types.GalleryFilterPatch{SearchTerm: types.Ptr("ANALOG")})
	assert.Equal(t, []string{"Third", "First"}, titles())

	w.Gallery.SetFilterOptions(types.GalleryFilterPatch{Tags: []string{"analog"}})
	assert.Equal(t, []string{"First"}, titles())
}

package workshop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

func TestParts_FrameScenario(t *testing.T) {
	w, _ := setupWorkshop(t)

	catID, err := w.Categories.Add(types.Category{Name: "Frames"})
	require.NoError(t, err)

	partID, err := w.Parts.Add(types.Part{Name: "Frame", Category: "Frames", Quantity: 5, InUse: 2})
	require.NoError(t, err)

	p, err := w.Parts.Get(partID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Available())

	// Dropping quantity below inUse is rejected, not clamped.
	err = w.Parts.Update(partID, types.PartPatch{Quantity: types.Ptr(1)})
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)
	p, _ = w.Parts.Get(partID)
	assert.Equal(t, 5, p.Quantity)
	assert.Nil(t, p.DateUpdated)

	err = w.Categories.Delete(catID)
	require.ErrorIs(t, err, types.ErrInUse)
	n, ok := types.InUseCount(err)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	require.NoError(t, w.Parts.Delete(partID))
	require.NoError(t, w.Categories.Delete(catID))
	assert.Empty(t, w.Categories.List())
}

func TestParts_AddValidation(t *testing.T) {
	tests := []struct {
		name    string
		part    types.Part
		wantErr error
	}{
		{"valid", types.Part{Name: "Motor", Category: "Motors", Quantity: 4}, nil},
		{"missing name", types.Part{Category: "Motors"}, types.ErrInvalidName},
		{"missing category", types.Part{Name: "Motor"}, types.ErrInvalidCategory},
		{"negative quantity", types.Part{Name: "Motor", Category: "Motors", Quantity: -1}, types.ErrInvalidQuantity},
		{"in use above quantity", types.Part{Name: "Motor", Category: "Motors", Quantity: 1, InUse: 2}, types.ErrInvalidQuantity},
		{"negative price", types.Part{Name: "Motor", Category: "Motors", Price: -1}, types.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := setupWorkshop(t)
			id, err := w.Parts.Add(tt.part)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
				assert.Empty(t, w.Parts.List())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestParts_AddAssignsIdentity(t *testing.T) {
	w, _ := setupWorkshop(t)
	in := types.Part{ID: "caller-id", Name: "ESC", Category: "ESCs", Quantity: 1}

	a, err := w.Parts.Add(in)
	require.NoError(t, err)
	b, err := w.Parts.Add(in)
	require.NoError(t, err)

	assert.NotEqual(t, "caller-id", a)
	assert.NotEqual(t, a, b)

	p, err := w.Parts.Get(a)
	require.NoError(t, err)
	assert.False(t, p.DateAdded.IsZero())
	assert.NotNil(t, p.ImageURLs)
}

func TestParts_UpdatePreservesIdentity(t *testing.T) {
	w, _ := setupWorkshop(t)
	id, err := w.Parts.Add(types.Part{Name: "VTX", Category: "Video", Quantity: 1})
	require.NoError(t, err)
	before, _ := w.Parts.Get(id)

	require.NoError(t, w.Parts.Update(id, types.PartPatch{
		Name:  types.Ptr("VTX v2"),
		Price: types.Ptr(49.5),
	}))

	after, err := w.Parts.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, after.ID)
	assert.Equal(t, before.DateAdded, after.DateAdded)
	assert.Equal(t, "VTX v2", after.Name)
	assert.Equal(t, 49.5, after.Price)
	assert.Equal(t, "Video", after.Category, "absent fields are untouched")
	require.NotNil(t, after.DateUpdated)
	assert.True(t, after.DateUpdated.After(after.DateAdded))
}

func TestParts_UnknownID(t *testing.T) {
	w, _ := setupWorkshop(t)
	assert.ErrorIs(t, w.Parts.Update("nope", types.PartPatch{}), types.ErrNotFound)
	assert.ErrorIs(t, w.Parts.Delete("nope"), types.ErrNotFound)
	_, err := w.Parts.Get("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestParts_StoreFailure(t *testing.T) {
	w, store := setupWorkshop(t)
	id, err := w.Parts.Add(types.Part{Name: "Frame", Category: "Frames", Quantity: 1})
	require.NoError(t, err)

	store.failWrites = true
	_, err = w.Parts.Add(types.Part{Name: "Motor", Category: "Motors", Quantity: 1})
	assert.ErrorIs(t, err, types.ErrSinkFailure)
	assert.ErrorIs(t, w.Parts.Delete(id), types.ErrSinkFailure)
	assert.Len(t, w.Parts.List(), 1)
}

func TestParts_Filter(t *testing.T) {
	w, _ := setupWorkshop(t)
	add := func(p types.Part) {
		t.Helper()
		_, err := w.Parts.Add(p)
		require.NoError(t, err)
	}
	add(types.Part{Name: "2306 Motor", Category: "Motors", Location: "Bin A", Quantity: 8})
	add(types.Part{Name: "1404 Motor", Category: "Motors", Location: "Bin B", Quantity: 2})
	add(types.Part{Name: "Frame", Category: "Frames", Location: "Bin A", Quantity: 1, Manufacturer: "TBS"})

	names := func() []string {
		var out []string
		for _, p := range w.Parts.Visible() {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"2306 Motor", "1404 Motor", "Frame"}, names())

	w.Parts.SetFilterOptions(types.PartFilterPatch{SearchTerm: types.Ptr("motor")})
	assert.Equal(t, []string{"2306 Motor", "1404 Motor"}, names())

	w.Parts.SetFilterOptions(types.PartFilterPatch{Locations: []string{"Bin A"}})
	assert.Equal(t, []string{"2306 Motor"}, names(), "patches merge with the current filter")

	w.Parts.SetFilterOptions(types.PartFilterPatch{SearchTerm: types.Ptr("tbs"), Locations: []string{}})
	assert.Equal(t, []string{"Frame"}, names())

	w.Parts.SetFilterOptions(types.PartFilterPatch{SearchTerm: types.Ptr(""), LowStockOnly: types.Ptr(true)})
	assert.Equal(t, []string{"1404 Motor", "Frame"}, names())

	_, err := w.UpdateSettings(types.SettingsPatch{LowStockThreshold: types.Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Frame"}, names(), "threshold change recomputes the view")
	assert.Len(t, w.Parts.LowStock(), 1)
}

func TestParts_VisibleMatchesFreshFilter(t *testing.T) {
	w, _ := setupWorkshop(t)
	w.Parts.SetFilterOptions(types.PartFilterPatch{
		SearchTerm: types.Ptr("a"),
		Categories: []string{"Frames", "Motors"},
	})
	check := func() {
		t.Helper()
		threshold := w.Settings().LowStockThreshold
		assert.Equal(t, FilterParts(w.Parts.List(), w.Parts.FilterOptions(), threshold), w.Parts.Visible())
	}

	ids := []string{}
	for _, p := range []types.Part{
		{Name: "Arm", Category: "Frames", Quantity: 4},
		{Name: "Stack", Category: "FCs", Quantity: 1},
		{Name: "Bearing", Category: "Motors", Quantity: 10},
		{Name: "Motor", Category: "Motors", Quantity: 2},
	} {
		id, err := w.Parts.Add(p)
		require.NoError(t, err)
		ids = append(ids, id)
		check()
	}
	require.NoError(t, w.Parts.Update(ids[1], types.PartPatch{Category: types.Ptr("Frames"), Name: types.Ptr("Frame plate")}))
	check()
	require.NoError(t, w.Parts.Delete(ids[0]))
	check()
	w.Parts.SetFilterOptions(types.PartFilterPatch{LowStockOnly: types.Ptr(true)})
	check()
}

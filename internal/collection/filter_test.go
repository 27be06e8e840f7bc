package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesTerm(t *testing.T) {
	tests := []struct {
		name   string
		term   string
		fields []string
		want   bool
	}{
		{"blank term", "   ", []string{"anything"}, true},
		{"empty term no fields", "", nil, true},
		{"case insensitive", "tbs", []string{"TBS Crossfire"}, true},
		{"any field", "kv", []string{"Motor", "2306 2400KV"}, true},
		{"substring", "ross", []string{"Crossfire"}, true},
		{"no match", "gps", []string{"Motor", "ESC"}, false},
		{"no fields", "x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesTerm(tt.term, tt.fields...))
		})
	}
}

func TestInSetAndIntersects(t *testing.T) {
	assert.True(t, InSet("Frames", nil))
	assert.True(t, InSet("Frames", []string{"Motors", "Frames"}))
	assert.False(t, InSet("frames", []string{"Frames"}))

	assert.True(t, Intersects(nil, nil))
	assert.True(t, Intersects([]string{"5inch", "analog"}, []string{"analog"}))
	assert.False(t, Intersects([]string{"5inch"}, []string{"micro"}))
	assert.False(t, Intersects(nil, []string{"micro"}))
}

func TestMatchesBool(t *testing.T) {
	yes, no := true, false
	assert.True(t, MatchesBool(true, nil))
	assert.True(t, MatchesBool(false, nil))
	assert.True(t, MatchesBool(true, &yes))
	assert.False(t, MatchesBool(true, &no))
	assert.True(t, MatchesBool(false, &no))
}

func TestNewestFirst_Stable(t *testing.T) {
	type rec struct {
		id string
		at time.Time
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []rec{
		{"old", base},
		{"tie1", base.Add(time.Hour)},
		{"new", base.Add(2 * time.Hour)},
		{"tie2", base.Add(time.Hour)},
	}

	got := NewestFirst(recs, func(r *rec) time.Time { return r.at })

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.id
	}
	assert.Equal(t, []string{"new", "tie1", "tie2", "old"}, ids)
}

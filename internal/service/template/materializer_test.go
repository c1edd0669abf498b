package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

func float64Ptr(v float64) *float64 { return &v }

func TestMaterialize_OffsetSpec(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	in := []event.Event{{
		Title: "Open Stage",
		TimeSpec: &event.RelativeTimeSpec{
			Type:          event.SpecOffset,
			Minutes:       -30,
			DurationHours: float64Ptr(2),
		},
	}}

	out := m.Materialize(in, now)
	require.Len(t, out, 1)

	assert.True(t, out[0].Start.Equal(time.Date(2026, time.July, 15, 17, 30, 0, 0, time.UTC)))
	assert.True(t, out[0].End.Equal(time.Date(2026, time.July, 15, 19, 30, 0, 0, time.UTC)))
	assert.True(t, out[0].PublishedAt.Equal(now))
	assert.Nil(t, out[0].TimeSpec)
}

func TestMaterialize_OffsetSpecDefaultDuration(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	out := m.Materialize([]event.Event{{
		Title:    "Night Market",
		TimeSpec: &event.RelativeTimeSpec{Type: event.SpecOffset, Hours: 1},
	}}, now)
	require.Len(t, out, 1)

	assert.True(t, out[0].Start.Equal(now.Add(time.Hour)))
	assert.True(t, out[0].End.Equal(now.Add(3*time.Hour)))
}

func TestMaterialize_OffsetSpecFixedTimezone(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	out := m.Materialize([]event.Event{{
		Title: "Vernissage",
		TimeSpec: &event.RelativeTimeSpec{
			Type:           event.SpecOffset,
			Hours:          2,
			TimezoneOffset: 2,
		},
	}}, now)
	require.Len(t, out, 1)

	// Same instant, expressed in the fixed +02:00 offset.
	assert.True(t, out[0].Start.Equal(now.Add(2*time.Hour)))
	_, offset := out[0].Start.Zone()
	assert.Equal(t, 2*3600, offset)
}

func TestMaterialize_SunriseRelativeSpec(t *testing.T) {
	// Sunrise boundary for 10:00 is tomorrow 06:00.
	now := time.Date(2026, time.July, 15, 10, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	out := m.Materialize([]event.Event{{
		Title: "Dawn Hike",
		TimeSpec: &event.RelativeTimeSpec{
			Type:             event.SpecSunriseRelative,
			StartOffsetHours: -1,
			EndOffsetHours:   1,
			EndOffsetMinutes: 30,
		},
	}}, now)
	require.Len(t, out, 1)

	assert.True(t, out[0].Start.Equal(time.Date(2026, time.July, 16, 5, 0, 0, 0, time.UTC)))
	assert.True(t, out[0].End.Equal(time.Date(2026, time.July, 16, 7, 30, 0, 0, time.UTC)))
}

func TestMaterialize_UnknownSpecTypeFallsBack(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	out := m.Materialize([]event.Event{{
		Title:    "Mystery Slot",
		TimeSpec: &event.RelativeTimeSpec{Type: event.SpecType("wibble")},
	}}, now)
	require.Len(t, out, 1)

	assert.True(t, out[0].Start.Equal(now))
	assert.True(t, out[0].End.Equal(now.Add(2*time.Hour)))
	assert.Nil(t, out[0].TimeSpec)
}

func TestMaterialize_NonTemplateEventsUnchanged(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	fixed := event.Event{
		ID:       "ev-1",
		Title:    "Konzert im Park",
		Category: "music",
		Start:    time.Date(2026, time.July, 16, 19, 0, 0, 0, time.UTC),
		End:      time.Date(2026, time.July, 16, 22, 0, 0, 0, time.UTC),
		Location: &event.Location{Latitude: 50.3135, Longitude: 11.9128, Name: "Stadtpark"},
	}

	out := m.Materialize([]event.Event{fixed}, now)
	require.Len(t, out, 1)

	assert.Equal(t, fixed, out[0])
	// Copy identity, not aliasing.
	assert.NotSame(t, fixed.Location, out[0].Location)
}

func TestMaterialize_DoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, time.July, 15, 18, 0, 0, 0, time.UTC)
	m := NewMaterializer()

	in := []event.Event{{
		Title:    "Open Stage",
		TimeSpec: &event.RelativeTimeSpec{Type: event.SpecOffset, Hours: 1},
	}}
	_ = m.Materialize(in, now)

	require.NotNil(t, in[0].TimeSpec)
	assert.True(t, in[0].Start.IsZero())
}

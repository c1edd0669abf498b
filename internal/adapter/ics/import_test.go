package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icsPayload(lines ...string) []byte {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//krwl//test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR", "")
	return []byte(strings.Join(all, "\r\n"))
}

func importWindow() ImportConfig {
	return ImportConfig{
		RangeStart: time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, time.August, 16, 0, 0, 0, 0, time.UTC),
	}
}

func TestImport_SingleEvent(t *testing.T) {
	payload := icsPayload(
		"BEGIN:VEVENT",
		"UID:single-1",
		"DTSTART:20260716T190000Z",
		"DTEND:20260716T210000Z",
		"SUMMARY:Konzert im Park",
		"CATEGORIES:Music",
		"LOCATION:Stadtpark",
		"GEO:50.3135;11.9128",
		"END:VEVENT",
	)

	events, err := Import(payload, importWindow())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "single-1", ev.ID)
	assert.Equal(t, "Konzert im Park", ev.Title)
	assert.Equal(t, "music", ev.Category)
	require.NotNil(t, ev.Location)
	assert.Equal(t, 50.3135, ev.Location.Latitude)
	assert.Equal(t, 11.9128, ev.Location.Longitude)
	assert.Equal(t, "Stadtpark", ev.Location.Name)
	assert.Equal(t, 2*time.Hour, ev.End.Sub(ev.Start))
}

func TestImport_EventOutsideWindowDropped(t *testing.T) {
	payload := icsPayload(
		"BEGIN:VEVENT",
		"UID:stale-1",
		"DTSTART:20250101T190000Z",
		"DTEND:20250101T210000Z",
		"SUMMARY:Silvester 2024",
		"END:VEVENT",
	)

	events, err := Import(payload, importWindow())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestImport_WeeklyRecurrenceExpanded(t *testing.T) {
	payload := icsPayload(
		"BEGIN:VEVENT",
		"UID:weekly-1",
		"DTSTART:20260718T090000Z",
		"DTEND:20260718T120000Z",
		"SUMMARY:Market Day",
		"RRULE:FREQ=WEEKLY;COUNT=10",
		"END:VEVENT",
	)

	events, err := Import(payload, importWindow())
	require.NoError(t, err)

	// Saturdays 18 Jul through 15 Aug inside the window.
	require.Len(t, events, 5)

	seen := make(map[string]bool)
	for i, ev := range events {
		assert.Equal(t, "Market Day", ev.Title)
		assert.Equal(t, 3*time.Hour, ev.End.Sub(ev.Start))
		assert.False(t, seen[ev.ID], "occurrence IDs must be unique")
		seen[ev.ID] = true
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, ev.Start.Sub(events[i-1].Start))
		}
	}
}

func TestImport_MissingLocationStaysNil(t *testing.T) {
	payload := icsPayload(
		"BEGIN:VEVENT",
		"UID:nameonly-1",
		"DTSTART:20260716T190000Z",
		"DTEND:20260716T200000Z",
		"SUMMARY:Lesung",
		"LOCATION:Stadtbibliothek",
		"END:VEVENT",
	)

	events, err := Import(payload, importWindow())
	require.NoError(t, err)
	require.Len(t, events, 1)

	// A venue name without GEO coordinates must not pin the event to 0,0.
	assert.Nil(t, events[0].Location)
}

func TestImport_DefaultCategoryApplied(t *testing.T) {
	payload := icsPayload(
		"BEGIN:VEVENT",
		"UID:nocat-1",
		"DTSTART:20260716T190000Z",
		"DTEND:20260716T200000Z",
		"SUMMARY:Offenes Treffen",
		"END:VEVENT",
	)

	cfg := importWindow()
	cfg.Category = "community"

	events, err := Import(payload, cfg)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "community", events[0].Category)
}

func TestImport_EmptyPayload(t *testing.T) {
	_, err := Import(nil, importWindow())
	assert.Error(t, err)
}

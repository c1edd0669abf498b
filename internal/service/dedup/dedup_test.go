package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

var marketStart = time.Date(2026, time.July, 18, 9, 0, 0, 0, time.UTC)

func marketDay(title string) event.Event {
	return event.Event{
		Title:    title,
		Start:    marketStart,
		Location: &event.Location{Latitude: 50.3135, Longitude: 11.9128},
	}
}

func TestDedupe_IdenticalRecordsCollapse(t *testing.T) {
	e := NewEngine("")

	groups := e.Dedupe([]event.Event{
		marketDay("Market Day"),
		marketDay("Market Day"),
		marketDay("Market Day"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Count)
	assert.Len(t, groups[0].Members, 3)
	assert.Equal(t, "Market Day", groups[0].Representative.Title)
}

func TestDedupe_TitleNormalization(t *testing.T) {
	e := NewEngine("")

	groups := e.Dedupe([]event.Event{
		marketDay("  Market Day  "),
		marketDay("market day"),
		marketDay("MARKET DAY"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Count)
	// Representative is the first-seen record, surrounding whitespace intact.
	assert.Equal(t, "  Market Day  ", groups[0].Representative.Title)
}

func TestDedupe_IdentifierTakesPriority(t *testing.T) {
	e := NewEngine("")

	a := marketDay("Market Day")
	a.ID = "src-a-1"
	b := marketDay("Completely Different Title")
	b.ID = "src-a-1"
	c := marketDay("Market Day") // no ID, falls to composite key

	groups := e.Dedupe([]event.Event{a, b, c})

	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "src-a-1", groups[0].Representative.ID)
	assert.Equal(t, 1, groups[1].Count)
}

func TestDedupe_StrictnessControlsLocationMatching(t *testing.T) {
	a := marketDay("Market Day")
	b := marketDay("Market Day")
	b.Location = &event.Location{Latitude: 50.3200, Longitude: 11.9180}

	strict := NewEngine(StrictnessTitleStartLocation).Dedupe([]event.Event{a, b})
	assert.Len(t, strict, 2)

	loose := NewEngine(StrictnessTitleStart).Dedupe([]event.Event{a, b})
	require.Len(t, loose, 1)
	assert.Equal(t, 2, loose[0].Count)
}

func TestDedupe_MissingLocationIsItsOwnKey(t *testing.T) {
	a := marketDay("Market Day")
	b := marketDay("Market Day")
	b.Location = nil

	groups := NewEngine("").Dedupe([]event.Event{a, b})
	assert.Len(t, groups, 2)
}

func TestDedupe_CountsPartitionInput(t *testing.T) {
	events := []event.Event{
		marketDay("Market Day"),
		marketDay("Market Day"),
		marketDay("Flohmarkt"),
		{Title: "Kino Open Air", Start: marketStart.Add(10 * time.Hour)},
		{ID: "x-1", Title: "Jazz Abend", Start: marketStart},
	}

	groups := NewEngine("").Dedupe(events)

	total := 0
	for _, g := range groups {
		total += g.Count
		assert.Len(t, g.Members, g.Count)
	}
	assert.Equal(t, len(events), total)
}

func TestDedupe_EmptyInput(t *testing.T) {
	assert.Empty(t, NewEngine("").Dedupe(nil))
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

func TestMemoryEventStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	ev := event.Event{
		ID:       "ev-1",
		Title:    "Jazz am Rathaus",
		Category: "music",
		Start:    time.Date(2026, time.July, 15, 20, 0, 0, 0, time.UTC),
		End:      time.Date(2026, time.July, 15, 23, 0, 0, 0, time.UTC),
		Location: &event.Location{Latitude: 50.3200, Longitude: 11.9180, Name: "Rathaus"},
	}
	require.NoError(t, store.SaveEvent(ctx, ev))

	got, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, ev, *got)

	// Mutating the returned copy must not touch the stored record.
	got.Location.Name = "elsewhere"
	again, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "Rathaus", again.Location.Name)
}

func TestMemoryEventStore_GetMissing(t *testing.T) {
	_, err := NewMemoryEventStore().GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEventStore_DistanceNeverPersisted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	d := 3.2
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "ev-1", Title: "X", Distance: &d}))

	got, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Nil(t, got.Distance)
}

func TestMemoryEventStore_ListOrderedByStart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	base := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "b", Title: "B", Start: base.Add(2 * time.Hour)}))
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "a", Title: "A", Start: base}))
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "c", Title: "C", Start: base.Add(4 * time.Hour)}))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	assert.Equal(t, "c", events[2].ID)
}

func TestMemoryEventStore_DeleteEndedBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryEventStore()

	cutoff := time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "old", Title: "Old", End: cutoff.Add(-time.Hour)}))
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "new", Title: "New", End: cutoff.Add(time.Hour)}))
	require.NoError(t, store.SaveEvent(ctx, event.Event{ID: "open", Title: "No end"}))

	removed, err := store.DeleteEndedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestBookmarkRegistry(t *testing.T) {
	reg := NewBookmarkRegistry()

	assert.False(t, reg.IsBookmarked("ev-1"))

	reg.Add("ev-1")
	reg.Add("ev-2")
	reg.Add("ev-1") // idempotent
	assert.True(t, reg.IsBookmarked("ev-1"))
	assert.Equal(t, []string{"ev-1", "ev-2"}, reg.List())

	assert.True(t, reg.Remove("ev-1"))
	assert.False(t, reg.Remove("ev-1"))
	assert.False(t, reg.IsBookmarked("ev-1"))
}

package event

import (
	"context"
	"time"
)

// BookmarkStore exposes bookmark membership. Bookmarked events bypass
// every filter gate; the core only needs the read capability.
type BookmarkStore interface {
	// IsBookmarked reports whether the given event ID is bookmarked
	IsBookmarked(id string) bool
}

// Clock supplies the current instant. Every core function takes the
// instant itself so results are deterministic; Clock exists for the
// serving layer to inject.
type Clock interface {
	// Now returns the current instant
	Now() time.Time
}

// Filterer applies the temporal, categorical and spatial gates to a
// candidate event list.
type Filterer interface {
	// Filter returns the events visible under the given settings,
	// as fresh records carrying a distance annotation where computed
	Filter(events []Event, settings FilterSettings, ref *Location, bookmarks BookmarkStore, now time.Time) []Event

	// CountByCategory applies the temporal and spatial gates only and
	// returns a category -> surviving-event-count map
	CountByCategory(events []Event, settings FilterSettings, ref *Location, bookmarks BookmarkStore, now time.Time) map[string]int
}

// Materializer expands template events into concrete timestamped events.
type Materializer interface {
	// Materialize resolves every relative-time spec against now and
	// deep-copies everything else unchanged
	Materialize(events []Event, now time.Time) []Event
}

// Deduper consolidates near-duplicate event records into display groups.
type Deduper interface {
	// Dedupe partitions events into groups of equivalent records
	Dedupe(events []Event) []Group
}

// Store persists canonical event records. The pure core never touches
// it; it belongs to the serving layer.
type Store interface {
	// SaveEvent inserts or updates an event
	SaveEvent(ctx context.Context, ev Event) error

	// GetEvent returns an event by ID
	GetEvent(ctx context.Context, id string) (*Event, error)

	// ListEvents returns all stored events
	ListEvents(ctx context.Context) ([]Event, error)

	// DeleteEndedBefore removes events whose end time is before cutoff
	// and returns how many were removed
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// internal/adapter/storage/memory_store.go

package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// MemoryEventStore is an in-memory event.Store used in development mode
// and in tests. It keeps canonical copies; callers never see internal
// slices or shared pointers.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

// NewMemoryEventStore creates a new in-memory event store
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events: make(map[string]event.Event),
	}
}

// SaveEvent inserts or updates an event
func (s *MemoryEventStore) SaveEvent(_ context.Context, ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Distance is a view-layer annotation and must not be persisted.
	c := ev.Clone()
	c.Distance = nil
	s.events[c.ID] = c
	return nil
}

// GetEvent returns an event by ID
func (s *MemoryEventStore) GetEvent(_ context.Context, id string) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := ev.Clone()
	return &c, nil
}

// ListEvents returns all stored events ordered by start time
func (s *MemoryEventStore) ListEvents(_ context.Context) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]event.Event, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev.Clone())
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// DeleteEndedBefore removes events whose end time is before cutoff
func (s *MemoryEventStore) DeleteEndedBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ev := range s.events {
		if !ev.End.IsZero() && ev.End.Before(cutoff) {
			delete(s.events, id)
			removed++
		}
	}
	return removed, nil
}

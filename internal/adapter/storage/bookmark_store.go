// internal/adapter/storage/bookmark_store.go

package storage

import (
	"sort"
	"sync"
)

// BookmarkRegistry is a mutex-guarded in-memory bookmark membership set.
// It implements event.BookmarkStore for the filter pipeline and adds the
// mutation surface the HTTP API needs.
type BookmarkRegistry struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewBookmarkRegistry creates a new bookmark registry
func NewBookmarkRegistry() *BookmarkRegistry {
	return &BookmarkRegistry{
		ids: make(map[string]struct{}),
	}
}

// IsBookmarked reports whether the given event ID is bookmarked
func (r *BookmarkRegistry) IsBookmarked(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ids[id]
	return ok
}

// Add marks an event ID as bookmarked
func (r *BookmarkRegistry) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ids[id] = struct{}{}
}

// Remove unbookmarks an event ID, reporting whether it was present
func (r *BookmarkRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.ids[id]
	delete(r.ids, id)
	return ok
}

// List returns all bookmarked IDs in stable order
func (r *BookmarkRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

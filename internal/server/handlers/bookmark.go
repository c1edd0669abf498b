// internal/server/handlers/bookmark.go

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// BookmarkRegistry is the mutable bookmark surface the HTTP API needs on
// top of the read capability the filter core consumes.
type BookmarkRegistry interface {
	event.BookmarkStore

	// Add marks an event ID as bookmarked
	Add(id string)

	// Remove unbookmarks an event ID, reporting whether it was present
	Remove(id string) bool

	// List returns all bookmarked IDs
	List() []string
}

// BookmarkHandler handles bookmark-related HTTP requests
type BookmarkHandler struct {
	registry BookmarkRegistry
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(registry BookmarkRegistry) *BookmarkHandler {
	return &BookmarkHandler{
		registry: registry,
	}
}

// ListBookmarks returns all bookmarked event IDs
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.registry.List())
}

// GetBookmark reports whether a single event ID is bookmarked
func (h *BookmarkHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"bookmarked": h.registry.IsBookmarked(id)})
}

// PutBookmark marks an event as bookmarked
func (h *BookmarkHandler) PutBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	h.registry.Add(id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBookmark removes a bookmark
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	if !h.registry.Remove(id) {
		respondWithError(w, http.StatusNotFound, "Bookmark not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// internal/server/handlers/event.go

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feileberlin/krwl-hof/internal/adapter/ics"
	"github.com/feileberlin/krwl-hof/internal/adapter/notify"
	"github.com/feileberlin/krwl-hof/internal/adapter/storage"
	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// maxImportBody caps ICS upload size.
const maxImportBody = 4 << 20

// importHorizon bounds recurrence expansion on ICS import.
const importHorizon = 180 * 24 * time.Hour

// EventHandler handles event-related HTTP requests. It wires the pure
// visibility pipeline (materialize, filter, dedupe) to the store and the
// per-request clock reading.
type EventHandler struct {
	store        event.Store
	bookmarks    event.BookmarkStore
	materializer event.Materializer
	filters      event.Filterer
	deduper      event.Deduper
	clock        event.Clock
	notifier     notify.Notifier
	defaults     event.FilterSettings
	templates    []event.Event
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	store event.Store,
	bookmarks event.BookmarkStore,
	materializer event.Materializer,
	filters event.Filterer,
	deduper event.Deduper,
	clock event.Clock,
	notifier notify.Notifier,
	defaults event.FilterSettings,
	templates []event.Event,
) *EventHandler {
	return &EventHandler{
		store:        store,
		bookmarks:    bookmarks,
		materializer: materializer,
		filters:      filters,
		deduper:      deduper,
		clock:        clock,
		notifier:     notifier,
		defaults:     defaults,
		templates:    templates,
	}
}

// ListEvents returns the events visible under the requested filter
// settings, with distance annotations where computable
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	candidates, err := h.candidates(r, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	settings, ref, err := h.parseFilterQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	visible := h.filters.Filter(candidates, settings, ref, h.bookmarks, now)
	respondWithJSON(w, http.StatusOK, visible)
}

// CountByCategory returns a category -> count map under the requested
// time and distance settings, ignoring the category selection itself
func (h *EventHandler) CountByCategory(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	candidates, err := h.candidates(r, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	settings, ref, err := h.parseFilterQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	counts := h.filters.CountByCategory(candidates, settings, ref, h.bookmarks, now)
	respondWithJSON(w, http.StatusOK, counts)
}

// ListGroups returns the visible events consolidated into deduplicated
// display groups
func (h *EventHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	candidates, err := h.candidates(r, now)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	settings, ref, err := h.parseFilterQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	visible := h.filters.Filter(candidates, settings, ref, h.bookmarks, now)
	respondWithJSON(w, http.StatusOK, h.deduper.Dedupe(visible))
}

// GetEvent returns a single stored event by ID
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event ID", nil)
		return
	}

	ev, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Event not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get event", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ev)
}

// CreateEvent ingests a single event record
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if ev.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Missing event title", nil)
		return
	}
	if ev.TimeSpec == nil && ev.Start.IsZero() {
		respondWithError(w, http.StatusBadRequest, "Missing event start time", nil)
		return
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.Category = ev.NormalizedCategory()
	if ev.PublishedAt.IsZero() {
		ev.PublishedAt = h.clock.Now()
	}

	if err := h.store.SaveEvent(r.Context(), ev); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save event", err)
		return
	}

	h.announce("ingest", []string{ev.ID})
	respondWithJSON(w, http.StatusCreated, ev)
}

// ImportICS ingests a whole ICS calendar payload, expanding recurring
// events within the import horizon
func (h *EventHandler) ImportICS(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	now := h.clock.Now()
	imported, err := ics.Import(body, ics.ImportConfig{
		Category:   r.URL.Query().Get("category"),
		RangeStart: now.Add(-24 * time.Hour),
		RangeEnd:   now.Add(importHorizon),
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ICS payload", err)
		return
	}

	ids := make([]string, 0, len(imported))
	for _, ev := range imported {
		ev.PublishedAt = now
		if err := h.store.SaveEvent(r.Context(), ev); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to save imported event", err)
			return
		}
		ids = append(ids, ev.ID)
	}

	h.announce("import", ids)
	respondWithJSON(w, http.StatusCreated, map[string]int{"imported": len(ids)})
}

// candidates assembles the candidate set: stored events plus, in demo
// mode, the template events, all materialized against now.
func (h *EventHandler) candidates(r *http.Request, now time.Time) ([]event.Event, error) {
	stored, err := h.store.ListEvents(r.Context())
	if err != nil {
		return nil, err
	}
	candidates := append(stored, h.templates...)
	return h.materializer.Materialize(candidates, now), nil
}

// parseFilterQuery builds FilterSettings and a reference location from
// the query string, falling back to the configured defaults. An absent
// lat/lng pair means geolocation was denied: spatial gating is skipped,
// not treated as infinite distance.
func (h *EventHandler) parseFilterQuery(r *http.Request) (event.FilterSettings, *event.Location, error) {
	settings := h.defaults
	q := r.URL.Query()

	if v := q.Get("time"); v != "" {
		settings.TimeFilter = event.TimeFilter(v)
	}
	if v := q.Get("category"); v != "" {
		settings.Category = v
	}
	if v := q.Get("radius_km"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius < 0 {
			return settings, nil, errors.New("invalid radius_km")
		}
		settings.MaxDistanceKm = radius
	}

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr == "" || lngStr == "" {
		return settings, nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return settings, nil, errors.New("invalid latitude")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return settings, nil, errors.New("invalid longitude")
	}

	return settings, &event.Location{Latitude: lat, Longitude: lng}, nil
}

func (h *EventHandler) announce(reason string, ids []string) {
	if h.notifier == nil {
		return
	}
	// Delivery is best effort; a missed notification only delays the
	// next client refresh.
	_ = h.notifier.EventsChanged(notify.Change{
		Reason: reason,
		IDs:    ids,
		At:     h.clock.Now(),
	})
}

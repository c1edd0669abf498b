// internal/adapter/storage/event_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("event not found")

// EventStore implements event.Store on Postgres. Latitude and longitude
// are stored as plain doubles; the derived distance annotation is never
// persisted.
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates a new event store
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{
		db: db,
	}
}

// SaveEvent inserts or updates an event
func (s *EventStore) SaveEvent(ctx context.Context, ev event.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, category, start_time, end_time,
			published_at, url, location_name, lat, lng
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (id) DO UPDATE
		SET
			title = $2,
			description = $3,
			category = $4,
			start_time = $5,
			end_time = $6,
			published_at = $7,
			url = $8,
			location_name = $9,
			lat = $10,
			lng = $11
	`

	var name *string
	var lat, lng *float64
	if ev.Location != nil {
		name = &ev.Location.Name
		lat = &ev.Location.Latitude
		lng = &ev.Location.Longitude
	}

	_, err := s.db.Exec(ctx, query,
		ev.ID, ev.Title, ev.Description, ev.NormalizedCategory(),
		ev.Start, ev.End, ev.PublishedAt, ev.URL,
		name, lat, lng,
	)
	if err != nil {
		return fmt.Errorf("error saving event: %w", err)
	}

	return nil
}

// GetEvent returns an event by ID
func (s *EventStore) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	query := `
		SELECT id, title, description, category, start_time, end_time,
		       published_at, url, location_name, lat, lng
		FROM events
		WHERE id = $1
	`

	ev, err := scanEvent(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	return ev, nil
}

// ListEvents returns all stored events ordered by start time
func (s *EventStore) ListEvents(ctx context.Context) ([]event.Event, error) {
	query := `
		SELECT id, title, description, category, start_time, end_time,
		       published_at, url, location_name, lat, lng
		FROM events
		ORDER BY start_time
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		events = append(events, *ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

// DeleteEndedBefore removes events whose end time is before cutoff
func (s *EventStore) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE end_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var ev event.Event
	var name *string
	var lat, lng *float64

	if err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.Category,
		&ev.Start, &ev.End, &ev.PublishedAt, &ev.URL,
		&name, &lat, &lng,
	); err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		ev.Location = &event.Location{
			Latitude:  *lat,
			Longitude: *lng,
		}
		if name != nil {
			ev.Location.Name = *name
		}
	}

	return &ev, nil
}

// internal/adapter/ics/import.go

package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

const defaultMaxOccurrencesPerEvent = 500

// ImportConfig controls how an ICS payload is converted into events.
type ImportConfig struct {
	// Category is assigned to imported events that carry no CATEGORIES
	// property of their own.
	Category string

	// RangeStart / RangeEnd bound recurrence expansion. Events and
	// occurrences outside the window are dropped.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps recurrence expansion per VEVENT.
	MaxOccurrencesPerEvent int
}

// Import parses an ICS payload and converts its VEVENTs into domain
// events, expanding RRULE recurrences within the configured window. A
// VEVENT that cannot be parsed is skipped, not fatal.
func Import(body []byte, cfg ImportConfig) ([]event.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS payload")
	}
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("import range end is before range start")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing calendar: %w", err)
	}

	var events []event.Event
	for _, ve := range cal.Events() {
		evs, err := convertVEvent(ve, cfg)
		if err != nil {
			continue
		}
		events = append(events, evs...)
	}

	return events, nil
}

// convertVEvent turns one VEVENT into one or more concrete events.
func convertVEvent(ve *ical.VEvent, cfg ImportConfig) ([]event.Event, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, errors.New("missing UID")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("missing DTSTART: %w", err)
	}
	end, _ := ve.GetEndAt()
	if end.IsZero() {
		end = start.Add(2 * time.Hour)
	}

	base := event.Event{
		ID:       uidProp.Value,
		Category: cfg.Category,
		Start:    start,
		End:      end,
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		base.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		base.Description = p.Value
	}
	if p := ve.GetProperty("CATEGORIES"); p != nil && p.Value != "" {
		// First category wins when the property lists several.
		base.Category = strings.ToLower(strings.TrimSpace(strings.Split(p.Value, ",")[0]))
	}
	if p := ve.GetProperty("URL"); p != nil {
		base.URL = p.Value
	}
	base.Location = parseEventLocation(ve)

	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		if start.Before(cfg.RangeStart) || start.After(cfg.RangeEnd) {
			return nil, nil
		}
		return []event.Event{base}, nil
	}

	return expandRecurrence(base, rruleProp.Value, cfg)
}

// expandRecurrence materializes the occurrences of a recurring VEVENT
// within the import window, one event per occurrence.
func expandRecurrence(base event.Event, rawRule string, cfg ImportConfig) ([]event.Event, error) {
	r, err := rrule.StrToRRule(rawRule)
	if err != nil {
		return nil, fmt.Errorf("error parsing RRULE: %w", err)
	}
	r.DTStart(base.Start)

	var set rrule.Set
	set.RRule(r)

	// Align the window with the event's own location for Between.
	rangeStart := cfg.RangeStart.In(base.Start.Location())
	rangeEnd := cfg.RangeEnd.In(base.Start.Location())

	starts := set.Between(rangeStart, rangeEnd, true)
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
	}

	duration := base.End.Sub(base.Start)
	out := make([]event.Event, 0, len(starts))
	for _, occStart := range starts {
		occ := base.Clone()
		// Per-occurrence IDs keep dedup and bookmarks stable across
		// imports of the same feed.
		occ.ID = base.ID + "/" + occStart.UTC().Format("20060102T150405Z")
		occ.Start = occStart
		occ.End = occStart.Add(duration)
		out = append(out, occ)
	}
	return out, nil
}

// parseEventLocation builds a location from GEO ("lat;lon") plus the
// LOCATION display name. A VEVENT without coordinates yields no location
// at all, so the spatial gate is skipped for it instead of pinning the
// event to 0,0.
func parseEventLocation(ve *ical.VEvent) *event.Location {
	p := ve.GetProperty("GEO")
	if p == nil || p.Value == "" {
		return nil
	}
	parts := strings.SplitN(p.Value, ";", 2)
	if len(parts) != 2 {
		return nil
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return nil
	}

	loc := event.Location{Latitude: lat, Longitude: lng}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		loc.Name = p.Value
	}
	return &loc
}

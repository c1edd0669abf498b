package event

import (
	"strings"
	"time"
)

// CategoryUncategorized is assigned to events that arrive without a category.
const CategoryUncategorized = "uncategorized"

// CategoryAll is the wildcard category in FilterSettings.
const CategoryAll = "all"

// TimeFilter identifies a named temporal visibility window.
type TimeFilter string

const (
	FilterSunrise         TimeFilter = "sunrise"
	FilterSundayPrimetime TimeFilter = "sunday_primetime"
	FilterFullMoon        TimeFilter = "full_moon"
	Filter6h              TimeFilter = "6h"
	Filter12h             TimeFilter = "12h"
	Filter24h             TimeFilter = "24h"
	Filter48h             TimeFilter = "48h"
	FilterAll             TimeFilter = "all"
)

// SpecType identifies the kind of relative-time template spec.
type SpecType string

const (
	SpecOffset          SpecType = "offset"
	SpecSunriseRelative SpecType = "sunrise_relative"
)

// Location is a geographic point with an optional display name.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Name      string  `json:"name,omitempty"`
}

// RelativeTimeSpec describes event timestamps as offsets from "now" rather
// than fixed calendar times. It only appears on template (demo) events and
// is consumed during materialization.
type RelativeTimeSpec struct {
	Type SpecType `json:"type"`

	// Offset spec fields. DurationHours is a pointer so that an omitted
	// duration (default 2h) can be told apart from an explicit zero.
	Hours          float64  `json:"hours,omitempty"`
	Minutes        float64  `json:"minutes,omitempty"`
	DurationHours  *float64 `json:"duration_hours,omitempty"`
	TimezoneOffset float64  `json:"timezone_offset,omitempty"`

	// Sunrise-relative spec fields, each defaulting to zero.
	StartOffsetHours   float64 `json:"start_offset_hours,omitempty"`
	StartOffsetMinutes float64 `json:"start_offset_minutes,omitempty"`
	EndOffsetHours     float64 `json:"end_offset_hours,omitempty"`
	EndOffsetMinutes   float64 `json:"end_offset_minutes,omitempty"`
}

// Event is a single calendar entry. Distance is a view-layer annotation
// attached during filtering; it is never written back to storage.
type Event struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end,omitempty"`
	PublishedAt time.Time         `json:"published_at,omitempty"`
	URL         string            `json:"url,omitempty"`
	Location    *Location         `json:"location,omitempty"`
	TimeSpec    *RelativeTimeSpec `json:"relative_time,omitempty"`

	Distance *float64 `json:"distance,omitempty"`
}

// Clone returns a structurally independent copy of the event. Pointer
// fields get their own allocations so annotating the copy cannot alias
// the original.
func (e Event) Clone() Event {
	c := e
	if e.Location != nil {
		loc := *e.Location
		c.Location = &loc
	}
	if e.TimeSpec != nil {
		spec := *e.TimeSpec
		if e.TimeSpec.DurationHours != nil {
			d := *e.TimeSpec.DurationHours
			spec.DurationHours = &d
		}
		c.TimeSpec = &spec
	}
	if e.Distance != nil {
		d := *e.Distance
		c.Distance = &d
	}
	return c
}

// NormalizedCategory returns the event's category, defaulting empty
// values to CategoryUncategorized.
func (e Event) NormalizedCategory() string {
	if strings.TrimSpace(e.Category) == "" {
		return CategoryUncategorized
	}
	return e.Category
}

// IsTemplate reports whether the event still carries a relative-time spec.
func (e Event) IsTemplate() bool {
	return e.TimeSpec != nil
}

// FilterSettings is the user-chosen filter state applied on each pass.
type FilterSettings struct {
	MaxDistanceKm float64    `json:"max_distance_km"`
	TimeFilter    TimeFilter `json:"time_filter"`
	Category      string     `json:"category"`

	// LocationOverride, when set, replaces the caller-supplied reference
	// location for spatial gating.
	LocationOverride *Location `json:"location_override,omitempty"`
}

// DefaultSettings mirrors the application's initial filter sentence:
// "in all categories, till sunrise, within 5 km".
func DefaultSettings() FilterSettings {
	return FilterSettings{
		MaxDistanceKm: 5,
		TimeFilter:    FilterSunrise,
		Category:      CategoryAll,
	}
}

// Group is a set of event records that resolve to the same real-world
// event. Representative is the first-seen member.
type Group struct {
	Representative Event   `json:"representative"`
	Count          int     `json:"count"`
	Members        []Event `json:"members"`
}

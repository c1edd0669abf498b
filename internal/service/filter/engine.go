// internal/service/filter/engine.go

package filter

import (
	"time"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
	"github.com/feileberlin/krwl-hof/internal/service/geo"
	"github.com/feileberlin/krwl-hof/internal/service/schedule"
)

// Engine composes the temporal, categorical and spatial gates into the
// end-to-end visibility pipeline. All methods are pure: inputs are never
// mutated and identical arguments always produce identical results.
type Engine struct{}

// NewEngine creates a new filter engine
func NewEngine() *Engine {
	return &Engine{}
}

// Filter returns the events visible under the given settings as fresh
// records. Bookmarked events bypass every gate but still receive a
// distance annotation when one can be computed. A missing reference
// location, or a missing event location, skips the spatial gate for that
// event rather than rejecting it.
func (e *Engine) Filter(events []event.Event, settings event.FilterSettings, ref *event.Location, bookmarks event.BookmarkStore, now time.Time) []event.Event {
	ref = referenceLocation(settings, ref)
	boundary := schedule.MaxEventTime(settings.TimeFilter, now)

	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		c := ev.Clone()
		annotateDistance(&c, ref)

		if isBookmarked(bookmarks, c.ID) {
			out = append(out, c)
			continue
		}
		if c.Start.After(boundary) {
			continue
		}
		if settings.Category != event.CategoryAll && c.NormalizedCategory() != settings.Category {
			continue
		}
		if c.Distance != nil && *c.Distance > settings.MaxDistanceKm {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CountByCategory applies the temporal and spatial gates only (bookmarked
// events always count) and returns how many events each category would
// contribute under the current time and distance settings. It drives the
// category-selector affordances.
func (e *Engine) CountByCategory(events []event.Event, settings event.FilterSettings, ref *event.Location, bookmarks event.BookmarkStore, now time.Time) map[string]int {
	ref = referenceLocation(settings, ref)
	boundary := schedule.MaxEventTime(settings.TimeFilter, now)

	counts := make(map[string]int)
	for _, ev := range events {
		if !isBookmarked(bookmarks, ev.ID) {
			if ev.Start.After(boundary) {
				continue
			}
			if ref != nil && ev.Location != nil && geo.Distance(*ref, *ev.Location) > settings.MaxDistanceKm {
				continue
			}
		}
		counts[ev.NormalizedCategory()]++
	}
	return counts
}

// referenceLocation resolves the effective reference point, letting a
// settings override win over the caller-supplied location.
func referenceLocation(settings event.FilterSettings, ref *event.Location) *event.Location {
	if settings.LocationOverride != nil {
		return settings.LocationOverride
	}
	return ref
}

// annotateDistance attaches the distance from the reference point when
// both sides have coordinates. The annotation lives on the copy only.
func annotateDistance(ev *event.Event, ref *event.Location) {
	ev.Distance = nil
	if ref == nil || ev.Location == nil {
		return
	}
	d := geo.Distance(*ref, *ev.Location)
	ev.Distance = &d
}

func isBookmarked(bookmarks event.BookmarkStore, id string) bool {
	return bookmarks != nil && id != "" && bookmarks.IsBookmarked(id)
}

// internal/service/template/materializer.go

package template

import (
	"time"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
	"github.com/feileberlin/krwl-hof/internal/service/schedule"
)

// defaultDurationHours applies when an offset spec omits its duration.
const defaultDurationHours = 2.0

// Materializer expands relative-time template events into concrete
// timestamped events. It is deliberately not memoized: callers re-invoke
// it whenever their notion of "now" changes so demo data always looks
// current.
type Materializer struct{}

// NewMaterializer creates a new materializer
func NewMaterializer() *Materializer {
	return &Materializer{}
}

// Materialize returns a new list in which every event carrying a
// relative-time spec has been resolved against now, stamped with
// publishedAt = now, and stripped of its spec. Events without a spec are
// deep-copied unchanged.
func (m *Materializer) Materialize(events []event.Event, now time.Time) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		c := ev.Clone()
		if c.TimeSpec != nil {
			m.resolve(&c, now)
		}
		out = append(out, c)
	}
	return out
}

// resolve rewrites the event's timestamps in place from its spec.
func (m *Materializer) resolve(ev *event.Event, now time.Time) {
	spec := ev.TimeSpec

	switch spec.Type {
	case event.SpecSunriseRelative:
		sunrise := schedule.MaxEventTime(event.FilterSunrise, now)
		ev.Start = sunrise.Add(hoursMinutes(spec.StartOffsetHours, spec.StartOffsetMinutes))
		ev.End = sunrise.Add(hoursMinutes(spec.EndOffsetHours, spec.EndOffsetMinutes))

	case event.SpecOffset:
		start := now.Add(hoursMinutes(spec.Hours, spec.Minutes))
		duration := defaultDurationHours
		if spec.DurationHours != nil {
			duration = *spec.DurationHours
		}
		end := start.Add(time.Duration(duration * float64(time.Hour)))

		// A non-zero timezone offset pins the timestamps to that fixed
		// UTC offset instead of naive local time.
		if spec.TimezoneOffset != 0 {
			zone := time.FixedZone("", int(spec.TimezoneOffset*3600))
			start = start.In(zone)
			end = end.In(zone)
		}
		ev.Start, ev.End = start, end

	default:
		// Unknown spec types never fail: a 2-hour event starting now.
		ev.Start = now
		ev.End = now.Add(defaultDurationHours * time.Hour)
	}

	ev.PublishedAt = now
	ev.TimeSpec = nil
}

func hoursMinutes(hours, minutes float64) time.Duration {
	return time.Duration(hours*float64(time.Hour) + minutes*float64(time.Minute))
}

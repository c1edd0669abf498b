// internal/service/dedup/dedup.go

package dedup

import (
	"strconv"
	"strings"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

// Strictness selects which fields participate in the composite identity
// key when an event has no ID of its own.
type Strictness string

const (
	// StrictnessTitleStartLocation matches on normalized title, exact
	// start time and exact coordinates. This is the default policy.
	StrictnessTitleStartLocation Strictness = "title_start_location"

	// StrictnessTitleStart matches on normalized title and exact start
	// time only, folding together records from sources that disagree on
	// venue coordinates.
	StrictnessTitleStart Strictness = "title_start"
)

// Engine groups equivalent event records and counts duplicates.
type Engine struct {
	strictness Strictness
}

// NewEngine creates a new deduplication engine
func NewEngine(strictness Strictness) *Engine {
	if strictness == "" {
		strictness = StrictnessTitleStartLocation
	}
	return &Engine{strictness: strictness}
}

// Dedupe partitions events into groups of records that resolve to the
// same real-world event. The first-seen record of each group becomes its
// representative; members keep input order, and group counts always sum
// to len(events).
func (e *Engine) Dedupe(events []event.Event) []event.Group {
	groups := make([]event.Group, 0, len(events))
	index := make(map[string]int, len(events))

	for _, ev := range events {
		key := e.key(ev)
		if i, ok := index[key]; ok {
			groups[i].Count++
			groups[i].Members = append(groups[i].Members, ev)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, event.Group{
			Representative: ev,
			Count:          1,
			Members:        []event.Event{ev},
		})
	}

	return groups
}

// key derives the identity key for an event. An explicit ID always wins;
// otherwise a composite of normalized title, exact start time and
// (depending on strictness) exact coordinates is used.
func (e *Engine) key(ev event.Event) string {
	if ev.ID != "" {
		return "id|" + ev.ID
	}

	var b strings.Builder
	b.WriteString("composite|")
	b.WriteString(strings.ToLower(strings.TrimSpace(ev.Title)))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(ev.Start.UnixNano(), 10))

	if e.strictness == StrictnessTitleStartLocation {
		b.WriteByte('|')
		if ev.Location != nil {
			b.WriteString(strconv.FormatFloat(ev.Location.Latitude, 'f', -1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(ev.Location.Longitude, 'f', -1, 64))
		} else {
			b.WriteString("none")
		}
	}

	return b.String()
}

// internal/service/schedule/boundary.go

package schedule

import (
	"math"
	"time"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

const (
	// sunriseHour is the fixed civil-time sunrise approximation. Real
	// astronomical sunrise is deliberately not computed.
	sunriseHour = 6

	primetimeHour   = 20
	primetimeMinute = 15
)

// synodicMonth is the average period between successive full moons.
var synodicMonth = time.Duration(29.53058770576 * 24 * float64(time.Hour))

// referenceFullMoon is a known historical full moon used as the epoch for
// lunar-cycle arithmetic.
var referenceFullMoon = time.Date(2000, time.January, 21, 4, 41, 0, 0, time.UTC)

// farFuture is the sentinel boundary for the unbounded "all" filter. A
// concrete instant keeps time comparisons well-defined.
var farFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// boundaryFunc computes the latest allowed event start for one filter kind.
type boundaryFunc func(now time.Time) time.Time

var boundaries = map[event.TimeFilter]boundaryFunc{
	event.FilterSunrise:         NextSunrise,
	event.FilterSundayPrimetime: NextSundayPrimetime,
	event.FilterFullMoon:        MorningAfterFullMoon,
	event.Filter6h:              hourOffset(6),
	event.Filter12h:             hourOffset(12),
	event.Filter24h:             hourOffset(24),
	event.Filter48h:             hourOffset(48),
	event.FilterAll:             func(time.Time) time.Time { return farFuture },
}

// MaxEventTime returns the latest start time an event may have to satisfy
// the given time filter, evaluated relative to now. Unknown kinds fall
// back to the sunrise rule rather than failing.
func MaxEventTime(kind event.TimeFilter, now time.Time) time.Time {
	if fn, ok := boundaries[kind]; ok {
		return fn(now)
	}
	return NextSunrise(now)
}

// NextSunrise returns the next 06:00 local boundary. At exactly 06:00 the
// boundary has already rolled over to the following day.
func NextSunrise(now time.Time) time.Time {
	day := now.Day()
	if now.Hour() >= sunriseHour {
		day++
	}
	return time.Date(now.Year(), now.Month(), day, sunriseHour, 0, 0, 0, now.Location())
}

// NextSundayPrimetime returns the next Sunday 20:15 local. A Sunday at or
// past 20:15 rolls forward a full week.
func NextSundayPrimetime(now time.Time) time.Time {
	wd := int(now.Weekday()) // Sunday == 0
	days := 0
	if wd == 0 {
		if now.Hour()*60+now.Minute() >= primetimeHour*60+primetimeMinute {
			days = 7
		}
	} else {
		days = 7 - wd
	}
	return time.Date(now.Year(), now.Month(), now.Day()+days, primetimeHour, primetimeMinute, 0, 0, now.Location())
}

// MorningAfterFullMoon returns 06:00 on the calendar day following the
// first full moon strictly after the midnight that begins the next
// primetime Sunday.
func MorningAfterFullMoon(now time.Time) time.Time {
	sunday := NextSundayPrimetime(now)
	midnight := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, sunday.Location())

	moon := NextFullMoonAfter(midnight).In(now.Location())
	return time.Date(moon.Year(), moon.Month(), moon.Day()+1, sunriseHour, 0, 0, 0, now.Location())
}

// NextFullMoonAfter returns the first full moon instant strictly after t,
// computed from the reference epoch plus whole synodic months.
func NextFullMoonAfter(t time.Time) time.Time {
	cycles := math.Floor(float64(t.Sub(referenceFullMoon)) / float64(synodicMonth))
	moon := referenceFullMoon.Add(time.Duration(cycles) * synodicMonth)
	for !moon.After(t) {
		moon = moon.Add(synodicMonth)
	}
	return moon
}

func hourOffset(hours int) boundaryFunc {
	return func(now time.Time) time.Time {
		return now.Add(time.Duration(hours) * time.Hour)
	}
}

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

var (
	hofCenter  = event.Location{Latitude: 50.3135, Longitude: 11.9128}
	theaterHof = event.Location{Latitude: 50.3200, Longitude: 11.9180}
	berlin     = event.Location{Latitude: 52.5200, Longitude: 13.4050}
	munich     = event.Location{Latitude: 48.1351, Longitude: 11.5820}
)

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0, Distance(hofCenter, hofCenter), 1e-9)
	assert.InDelta(t, 0, Distance(berlin, berlin), 1e-9)
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]event.Location{
		{hofCenter, theaterHof},
		{berlin, munich},
		{hofCenter, munich},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_KnownPairs(t *testing.T) {
	// Berlin to Munich, a well-known reference distance.
	assert.InDelta(t, 504.4, Distance(berlin, munich), 0.5)

	// Town center to the theater, under a kilometer.
	assert.InDelta(t, 0.81, Distance(hofCenter, theaterHof), 0.01)
}

func TestWithinRadius(t *testing.T) {
	assert.True(t, WithinRadius(hofCenter, theaterHof, 1.0))
	assert.False(t, WithinRadius(hofCenter, theaterHof, 0.5))
	assert.False(t, WithinRadius(berlin, munich, 500))
}

package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func square(cx, cy float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{cx - 1, cy - 1},
		{cx + 1, cy - 1},
		{cx + 1, cy + 1},
		{cx - 1, cy + 1},
		{cx - 1, cy - 1},
	}}
}

func TestMeanCenterSinglePolygon(t *testing.T) {
	lat, lon := MeanCenter([]orb.Geometry{square(44.0, 56.3)})

	assert.InDelta(t, 56.3, lat, 1e-9)
	assert.InDelta(t, 44.0, lon, 1e-9)
}

func TestMeanCenterAverages(t *testing.T) {
	lat, lon := MeanCenter([]orb.Geometry{square(10, 20), square(30, 40)})

	assert.InDelta(t, 30.0, lat, 1e-9)
	assert.InDelta(t, 20.0, lon, 1e-9)
}

func TestMeanCenterEmpty(t *testing.T) {
	lat, lon := MeanCenter(nil)

	assert.Zero(t, lat)
	assert.Zero(t, lon)
}

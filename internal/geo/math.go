package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MeanCenter averages the centroids of the given geometries and returns the
// result as (lat, lon). Used to center the boundary-only map on whatever the
// lookup returned.
func MeanCenter(geoms []orb.Geometry) (lat, lon float64) {
	if len(geoms) == 0 {
		return 0, 0
	}

	var sumLat, sumLon float64
	for _, g := range geoms {
		c, _ := planar.CentroidArea(g)
		sumLon += c[0]
		sumLat += c[1]
	}

	n := float64(len(geoms))

	return sumLat / n, sumLon / n
}

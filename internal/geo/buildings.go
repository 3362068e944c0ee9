package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WeightPerFloor scales floor counts into heat weights.
const WeightPerFloor = 10

// BuildingPoint is a single weighted heat point produced from one building
// feature. Weight is floors multiplied by WeightPerFloor.
type BuildingPoint struct {
	Lat    float64
	Lon    float64
	Weight int
}

// ParseBuildings reads a GeoJSON feature collection and returns one weighted
// point per Point feature, in input order. Features without a Point geometry
// are skipped. The floor count comes from the "building:levels" property and
// defaults to 1 when absent or unparseable.
func ParseBuildings(path string) ([]BuildingPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	points := make([]BuildingPoint, 0, len(fc.Features))
	for _, f := range fc.Features {
		lat, lon, ok := f.Geometry.Point()
		if !ok {
			continue
		}

		floors := parseLevels(f.Properties["building:levels"])
		points = append(points, BuildingPoint{
			Lat:    lat,
			Lon:    lon,
			Weight: floors * WeightPerFloor,
		})
	}

	return points, nil
}

// MaxWeight returns the largest weight in the slice, or 0 for empty input.
func MaxWeight(points []BuildingPoint) int {
	max := 0
	for _, p := range points {
		if p.Weight > max {
			max = p.Weight
		}
	}

	return max
}

// parseLevels interprets the raw "building:levels" property value.
// OSM exports carry it as a string, hand-edited files sometimes as a number.
func parseLevels(v interface{}) int {
	switch t := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 1
		}
		return n
	case float64:
		if t == 0 {
			return 1
		}
		return int(t)
	default:
		return 1
	}
}

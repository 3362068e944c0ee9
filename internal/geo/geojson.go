// Package geo handles geographic data structures and coordinate conversions.
package geo

import "encoding/json"

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
}

// Geometry represents the geometry of a feature. Coordinates are kept raw
// because their nesting depends on the geometry type; only Point coordinates
// are decoded here.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"` // Point: [Lon, Lat]
}

// Point decodes the coordinates as a GeoJSON position and returns them
// reordered as (lat, lon). The second return is false when the geometry is
// not a Point or the coordinates do not decode.
func (g *Geometry) Point() (lat, lon float64, ok bool) {
	if g == nil || g.Type != "Point" || len(g.Coordinates) == 0 {
		return 0, 0, false
	}

	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
		return 0, 0, false
	}

	// GeoJSON stores [lon, lat]
	return coords[1], coords[0], true
}

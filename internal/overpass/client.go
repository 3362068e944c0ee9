// Package overpass resolves city administrative boundaries through the
// Overpass API and falls back to a manual rectangle when nothing matches.
package overpass

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Element is a single Overpass response element (a boundary relation).
type Element struct {
	Tags    map[string]string `json:"tags"`
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Members []Member          `json:"members"`
}

// Member is one relation member with inline way geometry (out geom).
type Member struct {
	Type     string   `json:"type"`
	Role     string   `json:"role"`
	Ref      int64    `json:"ref"`
	Geometry []LatLon `json:"geometry"`
}

// LatLon is an Overpass coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type response struct {
	Elements []Element `json:"elements"`
}

// Relation is a decoded administrative boundary candidate.
type Relation struct {
	Name       string
	AdminLevel string
	Geometry   orb.Geometry
}

// Boundary is the resolved city boundary, either from the lookup or the
// manual rectangle.
type Boundary struct {
	Name       string
	Manual     bool
	Collection *geojson.FeatureCollection
}

// Geometries returns the plain geometries of the boundary features.
func (b *Boundary) Geometries() []orb.Geometry {
	geoms := make([]orb.Geometry, 0, len(b.Collection.Features))
	for _, f := range b.Collection.Features {
		geoms = append(geoms, f.Geometry)
	}

	return geoms
}

// Query describes one boundary lookup.
type Query struct {
	Bounds       orb.Bound // search window handed to Overpass
	NameVariants []string  // substring matches against the name tag
	AdminLevels  []string  // accepted admin_level values
	FallbackName string
	Fallback     orb.Bound // rectangle used when the filter comes up empty
}

// Client talks to a single Overpass endpoint.
type Client struct {
	http     *http.Client
	endpoint string
	timeout  int // server-side query timeout, seconds
}

// New creates a boundary lookup client.
func New(client *http.Client, endpoint string, timeout int) *Client {
	if timeout <= 0 {
		timeout = 25
	}

	return &Client{http: client, endpoint: endpoint, timeout: timeout}
}

// Resolve fetches administrative boundary relations inside the search window
// and applies the selection policy: name contains one of the variants OR
// admin_level is in the accepted set. An empty filtered set yields the manual
// rectangle. Transport and decode errors are returned to the caller, which
// renders without a boundary in that case.
func (c *Client) Resolve(q Query) (*Boundary, error) {
	relations, err := c.fetch(q.Bounds)
	if err != nil {
		return nil, err
	}

	matched := Filter(relations, q.NameVariants, q.AdminLevels)
	if len(matched) == 0 {
		log.Warn().
			Int("candidates", len(relations)).
			Msg("No matching boundary polygons, using manual rectangle")

		return Manual(q.FallbackName, q.Fallback), nil
	}

	log.Info().Int("polygons", len(matched)).Msg("Boundary polygons found")

	fc := geojson.NewFeatureCollection()
	for _, r := range matched {
		f := geojson.NewFeature(r.Geometry)
		f.Properties["name"] = r.Name
		f.Properties["admin_level"] = r.AdminLevel
		fc.Append(f)
	}

	return &Boundary{Name: matched[0].Name, Collection: fc}, nil
}

// fetch runs the Overpass query and decodes candidates.
func (c *Client) fetch(b orb.Bound) ([]Relation, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:%d];relation["boundary"="administrative"](%g,%g,%g,%g);out tags geom;`,
		c.timeout,
		b.Min[1], b.Min[0], b.Max[1], b.Max[0],
	)

	resp, err := c.http.PostForm(c.endpoint, url.Values{"data": {query}})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var root response
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		return nil, err
	}

	relations := make([]Relation, 0, len(root.Elements))
	for _, el := range root.Elements {
		if el.Type != "relation" {
			continue
		}

		geom := relationGeometry(el)
		if geom == nil {
			continue
		}

		relations = append(relations, Relation{
			Name:       el.Tags["name"],
			AdminLevel: el.Tags["admin_level"],
			Geometry:   geom,
		})
	}

	return relations, nil
}

// Filter applies the boundary selection policy.
func Filter(relations []Relation, names, levels []string) []Relation {
	var matched []Relation
	for _, r := range relations {
		if nameMatches(r.Name, names) || levelMatches(r.AdminLevel, levels) {
			matched = append(matched, r)
		}
	}

	return matched
}

func nameMatches(name string, variants []string) bool {
	if name == "" {
		return false
	}
	for _, v := range variants {
		if v != "" && strings.Contains(name, v) {
			return true
		}
	}

	return false
}

func levelMatches(level string, accepted []string) bool {
	for _, l := range accepted {
		if level == l {
			return true
		}
	}

	return false
}

// Manual builds the fallback rectangle boundary.
func Manual(name string, b orb.Bound) *Boundary {
	f := geojson.NewFeature(b.ToPolygon())
	f.Properties["name"] = name

	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	return &Boundary{Name: name, Manual: true, Collection: fc}
}

// Package render assembles Leaflet maps and writes them as self-contained
// HTML pages.
package render

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"text/template"

	"github.com/retailgeo/densmap/assets"
	"github.com/retailgeo/densmap/internal/config"
	"github.com/retailgeo/densmap/internal/geo"
	"github.com/retailgeo/densmap/internal/markers"

	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// TileSet describes a base tile layer.
type TileSet struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

// Built-in basemaps.
var (
	TilesOSM = TileSet{
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		MaxZoom:     19,
	}
	TilesPositron = TileSet{
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		MaxZoom:     19,
	}
)

// BoundaryStyle mirrors the Leaflet path style options used for the
// boundary layer.
type BoundaryStyle struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// HeatOptions are the heat layer presentation constants.
type HeatOptions struct {
	MinOpacity float64
	MaxValue   float64
	Radius     int
	Blur       int
	MaxZoom    int
	Gradient   []config.GradientStop
}

// MarkerStyle selects the marker rendering: a circular badge with a letter,
// or the standard pin.
type MarkerStyle struct {
	Kind   string `json:"kind"` // "badge" or "pin"
	Letter string `json:"letter,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// Map is a page under construction. Layers appear in the layer control in
// the order they were added.
type Map struct {
	title string
	spec  mapSpec
}

// mapSpec is serialized into the page; the embedded template interprets it.
type mapSpec struct {
	Center   [2]float64      `json:"center"`
	Zoom     int             `json:"zoom"`
	Tiles    TileSet         `json:"tiles"`
	Boundary *boundarySpec   `json:"boundary,omitempty"`
	Heat     *heatSpec       `json:"heat,omitempty"`
	Markers  []markerSetSpec `json:"markers,omitempty"`
	Control  bool            `json:"control"`
	Legend   string          `json:"legend,omitempty"`
}

type boundarySpec struct {
	Name  string                     `json:"name"`
	Data  *geojson.FeatureCollection `json:"data"`
	Style *BoundaryStyle             `json:"style,omitempty"`
}

type heatSpec struct {
	Name    string       `json:"name"`
	Points  [][3]float64 `json:"points"`
	Options heatOptions  `json:"options"`
}

type heatOptions struct {
	MinOpacity float64           `json:"minOpacity"`
	Max        float64           `json:"max"`
	Radius     int               `json:"radius"`
	Blur       int               `json:"blur"`
	MaxZoom    int               `json:"maxZoom"`
	Gradient   map[string]string `json:"gradient"`
}

type markerSetSpec struct {
	Name   string        `json:"name"`
	Style  MarkerStyle   `json:"style"`
	Points []markerPoint `json:"points"`
}

type markerPoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// NewMap creates an empty map centered at (lat, lon).
func NewMap(title string, lat, lon float64, zoom int, tiles TileSet) *Map {
	return &Map{
		title: title,
		spec: mapSpec{
			Center: [2]float64{lat, lon},
			Zoom:   zoom,
			Tiles:  tiles,
		},
	}
}

// AddBoundary adds a named GeoJSON overlay. A nil style keeps the Leaflet
// default path style.
func (m *Map) AddBoundary(name string, fc *geojson.FeatureCollection, style *BoundaryStyle) {
	m.spec.Boundary = &boundarySpec{Name: name, Data: fc, Style: style}
}

// AddHeat adds the weighted heat layer.
func (m *Map) AddHeat(name string, points []geo.BuildingPoint, opts HeatOptions) {
	heat := &heatSpec{
		Name:   name,
		Points: make([][3]float64, 0, len(points)),
		Options: heatOptions{
			MinOpacity: opts.MinOpacity,
			Max:        opts.MaxValue,
			Radius:     opts.Radius,
			Blur:       opts.Blur,
			MaxZoom:    opts.MaxZoom,
			Gradient:   gradientMap(opts.Gradient),
		},
	}

	for _, p := range points {
		heat.Points = append(heat.Points, [3]float64{p.Lat, p.Lon, float64(p.Weight)})
	}

	m.spec.Heat = heat
}

// AddMarkers adds a named marker layer.
func (m *Map) AddMarkers(name string, style MarkerStyle, records []markers.Record) {
	set := markerSetSpec{
		Name:   name,
		Style:  style,
		Points: make([]markerPoint, 0, len(records)),
	}

	for _, r := range records {
		set.Points = append(set.Points, markerPoint{Name: r.Name, Lat: r.Lat, Lon: r.Lon})
	}

	m.spec.Markers = append(m.spec.Markers, set)
}

// AddLayerControl lists all layers in an expanded layer control.
func (m *Map) AddLayerControl() {
	m.spec.Control = true
}

// SetLegend attaches a legend image (a data URI) to the page.
func (m *Map) SetLegend(uri string) {
	m.spec.Legend = uri
}

type pageModel struct {
	Title string
	Spec  string
}

// Render executes the embedded page template.
func (m *Map) Render() ([]byte, error) {
	spec, err := json.Marshal(m.spec)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("map").Parse(string(assets.MapPage))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageModel{Title: m.title, Spec: string(spec)}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile renders the page and writes it to disk, minified unless
// disabled.
func (m *Map) WriteFile(path string, minified bool) error {
	page, err := m.Render()
	if err != nil {
		return err
	}

	if minified {
		page, err = minifyHTML(page)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(path, page, 0644)
}

func minifyHTML(page []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	return m.Bytes("text/html", page)
}

// gradientMap converts the stop list into the lookup object leaflet.heat
// expects.
func gradientMap(stops []config.GradientStop) map[string]string {
	if len(stops) == 0 {
		return nil
	}

	gradient := make(map[string]string, len(stops))
	for _, s := range stops {
		gradient[strconv.FormatFloat(s.At, 'g', -1, 64)] = s.Color
	}

	return gradient
}

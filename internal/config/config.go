// Package config handles configuration loading and shared data structures.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
// Every field has a default matching the built-in city profile, so the
// program runs without a configuration file at all.
type Config struct {
	City       City     `yaml:"city"`
	Data       Data     `yaml:"data"`
	Output     Output   `yaml:"output"`
	Overpass   Overpass `yaml:"overpass"`
	Heatmap    Heatmap  `yaml:"heatmap"`
	Layers     Layers   `yaml:"layers"`
	BranchIcon Badge    `yaml:"branch_icon"`
}

// City describes the target city: map placement, boundary lookup inputs
// and the manual rectangle used when the lookup finds nothing.
type City struct {
	NameNative  string   `yaml:"name_native"`
	NameLatin   string   `yaml:"name_latin"`
	AdminLevels []string `yaml:"admin_levels"`
	CenterLat   float64  `yaml:"center_lat"`
	CenterLon   float64  `yaml:"center_lon"`
	Zoom        int      `yaml:"zoom"`

	// Bounding box handed to the boundary lookup.
	Search Bounds `yaml:"search_bounds"`

	// Rectangle drawn when the lookup returns no matching polygon.
	Fallback     Bounds `yaml:"fallback_bounds"`
	FallbackName string `yaml:"fallback_name"`
}

// Bounds is a lat/lon bounding box.
type Bounds struct {
	MinLat float64 `yaml:"min_lat"`
	MinLon float64 `yaml:"min_lon"`
	MaxLat float64 `yaml:"max_lat"`
	MaxLon float64 `yaml:"max_lon"`
}

// Data holds input file paths.
type Data struct {
	Buildings   string `yaml:"buildings"`
	Branches    string `yaml:"branches"`
	Competitors string `yaml:"competitors"`
}

// Output holds output file paths.
type Output struct {
	Map      string `yaml:"map"`
	Boundary string `yaml:"boundary"`
}

// Overpass holds the boundary lookup endpoint settings.
type Overpass struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  int    `yaml:"timeout"` // seconds, also sent as the server-side query timeout
}

// Heatmap holds the heat layer presentation constants.
type Heatmap struct {
	MinOpacity float64        `yaml:"min_opacity"`
	MaxFactor  float64        `yaml:"max_factor"` // display max = MaxFactor * max observed weight
	Radius     int            `yaml:"radius"`
	Blur       int            `yaml:"blur"`
	MaxZoom    int            `yaml:"max_zoom"`
	Gradient   []GradientStop `yaml:"gradient"`
}

// GradientStop is a single color stop of the heat gradient.
type GradientStop struct {
	At    float64 `yaml:"at"`
	Color string  `yaml:"color"`
}

// Layers holds the display names shown in the layer control.
type Layers struct {
	Boundary    string `yaml:"boundary"`
	Heat        string `yaml:"heat"`
	Branches    string `yaml:"branches"`
	Competitors string `yaml:"competitors"`
}

// Badge describes the circular branch marker icon.
type Badge struct {
	Letter string `yaml:"letter"`
	Color  string `yaml:"color"`
	Size   int    `yaml:"size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		City: City{
			NameNative:  "Нижний Новгород",
			NameLatin:   "Nizhny Novgorod",
			AdminLevels: []string{"6", "8"},
			CenterLat:   56.326,
			CenterLon:   44.005,
			Zoom:        11,
			Search: Bounds{
				MinLat: 56.0, MinLon: 43.4,
				MaxLat: 56.6, MaxLon: 44.6,
			},
			Fallback: Bounds{
				MinLat: 56.20, MinLon: 43.80,
				MaxLat: 56.40, MaxLon: 44.10,
			},
			FallbackName: "Нижний Новгород (ручной)",
		},
		Data: Data{
			Buildings:   "data/houses.geojson",
			Branches:    "data/branches.csv",
			Competitors: "data/competitors.csv",
		},
		Output: Output{
			Map:      "index.html",
			Boundary: "city_boundary.html",
		},
		Overpass: Overpass{
			Endpoint: "https://overpass-api.de/api/interpreter",
			Timeout:  25,
		},
		Heatmap: Heatmap{
			MinOpacity: 0.3,
			MaxFactor:  0.4,
			Radius:     8,
			Blur:       10,
			MaxZoom:    18,
			Gradient: []GradientStop{
				{At: 0.1, Color: "blue"},
				{At: 0.2, Color: "blue"},
				{At: 0.3, Color: "lime"},
				{At: 0.4, Color: "lime"},
				{At: 0.5, Color: "yellow"},
				{At: 0.6, Color: "yellow"},
				{At: 0.7, Color: "orange"},
				{At: 0.8, Color: "orange"},
				{At: 0.9, Color: "red"},
				{At: 1.0, Color: "red"},
			},
		},
		Layers: Layers{
			Boundary:    "Границы города",
			Heat:        "Распределение МСБ и ИП",
			Branches:    "Отделения АО «Альфа-Банк»",
			Competitors: "Банки-конкуренты",
		},
		BranchIcon: Badge{
			Letter: "А",
			Color:  "#EF3124",
			Size:   22,
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

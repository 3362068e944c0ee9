package main

import (
	"crypto/tls"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/retailgeo/densmap/internal/config"
	"github.com/retailgeo/densmap/internal/geo"
	"github.com/retailgeo/densmap/internal/logger"
	"github.com/retailgeo/densmap/internal/markers"
	"github.com/retailgeo/densmap/internal/overpass"
	"github.com/retailgeo/densmap/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string `short:"c" long:"config"        env:"CONFIG_FILE"    description:"Path to configuration file" default:"densmap.yaml"`
	Buildings    string `short:"b" long:"buildings"     env:"BUILDINGS_FILE" description:"Override the buildings GeoJSON path"`
	SkipBoundary bool   `short:"s" long:"skip-boundary" description:"Skip the city boundary lookup"`
	NoMinify     bool   `long:"no-minify" description:"Write unminified HTML output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg := loadConfig(opts.ConfigFile)
	if opts.Buildings != "" {
		cfg.Data.Buildings = opts.Buildings
	}

	// Buildings are the one required input; anything wrong here is fatal.
	points, err := geo.ParseBuildings(cfg.Data.Buildings)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Data.Buildings).Msg("Failed to load buildings")
	}

	maxWeight := geo.MaxWeight(points)
	log.Info().
		Int("buildings", len(points)).
		Int("max_weight", maxWeight).
		Msg("Buildings parsed")

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: time.Duration(cfg.Overpass.Timeout+5) * time.Second,
	}

	boundary := resolveBoundary(client, cfg, opts.SkipBoundary)
	branches := loadMarkers(cfg.Data.Branches, "branches")
	competitors := loadMarkers(cfg.Data.Competitors, "competitors")

	m := render.NewMap(cfg.City.NameNative, cfg.City.CenterLat, cfg.City.CenterLon, cfg.City.Zoom, render.TilesOSM)

	if boundary != nil {
		m.AddBoundary(cfg.Layers.Boundary, boundary.Collection, &render.BoundaryStyle{
			FillColor:   "lightblue",
			Color:       "blue",
			Weight:      2,
			FillOpacity: 0.1,
		})
	}

	m.AddHeat(cfg.Layers.Heat, points, render.HeatOptions{
		MinOpacity: cfg.Heatmap.MinOpacity,
		MaxValue:   float64(maxWeight) * cfg.Heatmap.MaxFactor,
		Radius:     cfg.Heatmap.Radius,
		Blur:       cfg.Heatmap.Blur,
		MaxZoom:    cfg.Heatmap.MaxZoom,
		Gradient:   cfg.Heatmap.Gradient,
	})

	if branches != nil {
		m.AddMarkers(cfg.Layers.Branches, render.MarkerStyle{
			Kind:   "badge",
			Letter: cfg.BranchIcon.Letter,
			Color:  cfg.BranchIcon.Color,
			Size:   cfg.BranchIcon.Size,
		}, branches)
	}

	if competitors != nil {
		m.AddMarkers(cfg.Layers.Competitors, render.MarkerStyle{Kind: "pin"}, competitors)
	}

	m.AddLayerControl()

	if legend, err := render.Legend(cfg.Heatmap.Gradient, 140, 12); err != nil {
		log.Warn().Err(err).Msg("Failed to render legend, skipping")
	} else {
		m.SetLegend(legend)
	}

	if err := m.WriteFile(cfg.Output.Map, !opts.NoMinify); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Output.Map).Msg("Failed to write map")
	}
	log.Info().Str("path", cfg.Output.Map).Msg("Map saved")

	// Secondary boundary-only map, only when a boundary actually resolved.
	if boundary != nil {
		lat, lon := geo.MeanCenter(boundary.Geometries())

		bm := render.NewMap(boundary.Name, lat, lon, 13, render.TilesPositron)
		bm.AddBoundary("boundary", boundary.Collection, nil)

		if err := bm.WriteFile(cfg.Output.Boundary, !opts.NoMinify); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Output.Boundary).Msg("Failed to write boundary map")
		}
		log.Info().Str("path", cfg.Output.Boundary).Msg("Boundary map saved")
	}
}

// loadConfig falls back to built-in defaults when the file does not exist,
// so a bare run needs no setup at all.
func loadConfig(path string) *config.Config {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("Configuration file not found, using defaults")
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	return cfg
}

// resolveBoundary runs the Overpass lookup. Lookup errors are logged and
// swallowed: the main map renders without a boundary layer and the boundary
// page is not produced.
func resolveBoundary(client *http.Client, cfg *config.Config, skip bool) *overpass.Boundary {
	if skip {
		log.Info().Msg("Boundary lookup skipped")
		return nil
	}

	log.Info().Str("city", cfg.City.NameNative).Msg("Looking up city boundary")

	boundary, err := overpass.New(client, cfg.Overpass.Endpoint, cfg.Overpass.Timeout).Resolve(overpass.Query{
		Bounds:       bound(cfg.City.Search),
		NameVariants: []string{cfg.City.NameNative, cfg.City.NameLatin},
		AdminLevels:  cfg.City.AdminLevels,
		FallbackName: cfg.City.FallbackName,
		Fallback:     bound(cfg.City.Fallback),
	})
	if err != nil {
		log.Error().Err(err).Msg("Boundary lookup failed, rendering without boundary layer")
		return nil
	}

	return boundary
}

// loadMarkers reads an optional marker file. A missing file and a malformed
// file both skip the layer, with different notices.
func loadMarkers(path, layer string) []markers.Record {
	records, err := markers.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Str("layer", layer).Msg("Marker file not found, skipping layer")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("layer", layer).Msg("Failed to load markers, skipping layer")
		return nil
	}

	log.Info().Int("count", len(records)).Str("layer", layer).Msg("Markers loaded")

	return records
}

func bound(b config.Bounds) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

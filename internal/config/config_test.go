package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 56.326, cfg.City.CenterLat)
	assert.Equal(t, 44.005, cfg.City.CenterLon)
	assert.Equal(t, []string{"6", "8"}, cfg.City.AdminLevels)
	assert.Equal(t, "data/houses.geojson", cfg.Data.Buildings)
	assert.Equal(t, "index.html", cfg.Output.Map)
	assert.Equal(t, "city_boundary.html", cfg.Output.Boundary)
	assert.Equal(t, 0.4, cfg.Heatmap.MaxFactor)
	assert.Len(t, cfg.Heatmap.Gradient, 10)
	assert.Equal(t, "blue", cfg.Heatmap.Gradient[0].Color)
	assert.Equal(t, "red", cfg.Heatmap.Gradient[9].Color)
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "densmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
city:
  zoom: 12
data:
  buildings: other/buildings.geojson
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.City.Zoom)
	assert.Equal(t, "other/buildings.geojson", cfg.Data.Buildings)
	// untouched sections keep their defaults
	assert.Equal(t, "data/branches.csv", cfg.Data.Branches)
	assert.Equal(t, 8, cfg.Heatmap.Radius)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "densmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("city: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

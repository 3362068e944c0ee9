// Package markers reads optional marker location files.
package markers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Record is one marker row: a label and a coordinate.
type Record struct {
	Name string
	Lat  float64
	Lon  float64
}

// Load reads a semicolon-separated CSV with a name;lat;lon header and
// returns one record per row. Any read or parse problem is returned as an
// error; callers skip the whole layer in that case. A missing file surfaces
// as fs.ErrNotExist so it can be reported separately.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	name, lat, lon, err := columnIndexes(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		latV, err := strconv.ParseFloat(strings.TrimSpace(row[lat]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad lat: %w", path, i+2, err)
		}
		lonV, err := strconv.ParseFloat(strings.TrimSpace(row[lon]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad lon: %w", path, i+2, err)
		}

		records = append(records, Record{
			Name: strings.TrimSpace(row[name]),
			Lat:  latV,
			Lon:  lonV,
		})
	}

	return records, nil
}

// columnIndexes resolves the header columns by name, so column order in the
// file does not matter.
func columnIndexes(header []string) (name, lat, lon int, err error) {
	name, lat, lon = -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			name = i
		case "lat":
			lat = i
		case "lon":
			lon = i
		}
	}

	if name < 0 || lat < 0 || lon < 0 {
		return 0, 0, 0, fmt.Errorf("header must contain name, lat and lon columns")
	}

	return name, lat, lon, nil
}

package overpass

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overpassResponse = `{
	"elements": [
		{
			"type": "relation", "id": 1,
			"tags": {"name": "Нижний Новгород", "admin_level": "8", "boundary": "administrative"},
			"members": [
				{"type": "way", "ref": 10, "role": "outer", "geometry": [
					{"lat": 56.2, "lon": 43.8}, {"lat": 56.2, "lon": 44.1},
					{"lat": 56.4, "lon": 44.1}, {"lat": 56.4, "lon": 43.8},
					{"lat": 56.2, "lon": 43.8}
				]}
			]
		},
		{
			"type": "relation", "id": 2,
			"tags": {"name": "Приволжский федеральный округ", "admin_level": "3", "boundary": "administrative"},
			"members": [
				{"type": "way", "ref": 11, "role": "outer", "geometry": [
					{"lat": 50, "lon": 40}, {"lat": 50, "lon": 50},
					{"lat": 60, "lon": 50}, {"lat": 60, "lon": 40},
					{"lat": 50, "lon": 40}
				]}
			]
		}
	]
}`

func testQuery() Query {
	return Query{
		Bounds: orb.Bound{
			Min: orb.Point{43.4, 56.0},
			Max: orb.Point{44.6, 56.6},
		},
		NameVariants: []string{"Нижний Новгород", "Nizhny Novgorod"},
		AdminLevels:  []string{"6", "8"},
		FallbackName: "Нижний Новгород (ручной)",
		Fallback: orb.Bound{
			Min: orb.Point{43.80, 56.20},
			Max: orb.Point{44.10, 56.40},
		},
	}
}

func TestResolveFiltersByNameAndLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.Form.Get("data"), `relation["boundary"="administrative"]`)

		_, _ = w.Write([]byte(overpassResponse))
	}))
	defer srv.Close()

	boundary, err := New(srv.Client(), srv.URL, 25).Resolve(testQuery())
	require.NoError(t, err)

	assert.False(t, boundary.Manual)
	assert.Equal(t, "Нижний Новгород", boundary.Name)
	require.Len(t, boundary.Collection.Features, 1, "federal district must be filtered out")
	assert.Equal(t, "8", boundary.Collection.Features[0].Properties["admin_level"])
}

func TestResolveEmptyResultUsesManualRectangle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer srv.Close()

	q := testQuery()
	boundary, err := New(srv.Client(), srv.URL, 25).Resolve(q)
	require.NoError(t, err)

	assert.True(t, boundary.Manual)
	assert.Equal(t, q.FallbackName, boundary.Name)
	require.Len(t, boundary.Collection.Features, 1)

	poly, ok := boundary.Collection.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Equal(t, q.Fallback, poly.Bound())
}

func TestResolveServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	_, err := New(srv.Client(), srv.URL, 25).Resolve(testQuery())
	assert.Error(t, err)
}

func TestResolveBadJSONPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.Client(), srv.URL, 25).Resolve(testQuery())
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	relations := []Relation{
		{Name: "Нижний Новгород", AdminLevel: "8"},
		{Name: "городской округ Нижний Новгород", AdminLevel: "9"},
		{Name: "Somewhere", AdminLevel: "6"},
		{Name: "Elsewhere", AdminLevel: "4"},
	}

	matched := Filter(relations, []string{"Нижний Новгород"}, []string{"6", "8"})

	require.Len(t, matched, 3)
	assert.Equal(t, "Elsewhere", Filter(relations, nil, []string{"4"})[0].Name)
	assert.Empty(t, Filter(relations, []string{"Moscow"}, []string{"2"}))
}

func TestManual(t *testing.T) {
	b := orb.Bound{Min: orb.Point{43.8, 56.2}, Max: orb.Point{44.1, 56.4}}
	boundary := Manual("manual", b)

	assert.True(t, boundary.Manual)
	require.Len(t, boundary.Geometries(), 1)
	assert.Equal(t, b, boundary.Geometries()[0].Bound())
}

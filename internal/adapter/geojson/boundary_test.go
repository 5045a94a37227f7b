package geojson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

const squareCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "a"},
     "geometry": {"type": "Polygon", "coordinates": [[[14,49],[24,49],[24,55],[14,55],[14,49]]]}},
    {"type": "Feature", "properties": {"name": "marker"},
     "geometry": {"type": "Point", "coordinates": [19, 52]}},
    {"type": "Feature", "properties": {"name": "islands"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[18,54],[19,54],[19,55],[18,54]]],
       [[[20,54],[21,54],[21,55],[20,54]]]
     ]}}
  ]
}`

func TestParseBoundary_FeatureCollection(t *testing.T) {
	b, err := ParseBoundary([]byte(squareCollection))
	require.NoError(t, err)
	require.Len(t, b.Polygons, 3)

	want := orb.Ring{{14, 49}, {24, 49}, {24, 55}, {14, 55}, {14, 49}}
	if diff := cmp.Diff(want, b.Polygons[0][0]); diff != "" {
		t.Errorf("outer ring mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, b.Rings(), 3)
}

func TestParseBoundary_FeatureAndGeometry(t *testing.T) {
	feature := `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`
	b, err := ParseBoundary([]byte(feature))
	require.NoError(t, err)
	assert.Len(t, b.Polygons, 1)

	geometry := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`
	b, err = ParseBoundary([]byte(geometry))
	require.NoError(t, err)
	assert.Len(t, b.Polygons, 1)
}

func TestParseBoundary_Errors(t *testing.T) {
	_, err := ParseBoundary([]byte(`{"type":"FeatureCollection","features":[]}`))
	require.ErrorIs(t, err, domain.ErrEmptyBoundary)

	_, err = ParseBoundary([]byte(`{"type":"Point","coordinates":[19,52]}`))
	require.ErrorIs(t, err, domain.ErrEmptyBoundary)

	_, err = ParseBoundary([]byte(`not json`))
	require.Error(t, err)
}

func TestLoadBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poland.geojson")
	require.NoError(t, os.WriteFile(path, []byte(squareCollection), 0o600))

	b, err := LoadBoundary(path)
	require.NoError(t, err)
	assert.False(t, b.Empty())

	_, err = LoadBoundary(filepath.Join(t.TempDir(), "missing.geojson"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// Package geojson loads the region outline from GeoJSON.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

// LoadBoundary reads a GeoJSON file and returns its polygonal geometry.
func LoadBoundary(path string) (domain.Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Boundary{}, fmt.Errorf("load boundary: %w", err)
	}
	b, err := ParseBoundary(data)
	if err != nil {
		return domain.Boundary{}, fmt.Errorf("load boundary %s: %w", path, err)
	}
	return b, nil
}

// ParseBoundary accepts a FeatureCollection, a single Feature or a bare geometry.
// Non-polygonal geometry is ignored; input with no polygons is ErrEmptyBoundary.
func ParseBoundary(data []byte) (domain.Boundary, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return domain.Boundary{}, fmt.Errorf("parse geojson: %w", err)
	}

	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return domain.Boundary{}, fmt.Errorf("parse feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return domain.Boundary{}, fmt.Errorf("parse feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return domain.Boundary{}, fmt.Errorf("parse geometry: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}

	b := domain.NewBoundary(geoms...)
	if b.Empty() {
		return domain.Boundary{}, domain.ErrEmptyBoundary
	}
	return b, nil
}

package domain

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrEmptyBoundary is returned by loaders when the input holds no polygonal geometry.
var ErrEmptyBoundary = errors.New("boundary has no polygons")

// Boundary is the region outline in longitude/latitude. It is built once by a loader
// and only read afterwards.
type Boundary struct {
	Polygons orb.MultiPolygon
}

// NewBoundary collects the polygonal parts of the given geometries. Points and lines
// are ignored.
func NewBoundary(geoms ...orb.Geometry) Boundary {
	var mp orb.MultiPolygon
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		case orb.Ring:
			mp = append(mp, orb.Polygon{v})
		case orb.Collection:
			mp = append(mp, NewBoundary(v...).Polygons...)
		}
	}
	return Boundary{Polygons: mp}
}

// Empty reports whether the boundary has no rings.
func (b Boundary) Empty() bool {
	for _, p := range b.Polygons {
		if len(p) > 0 {
			return false
		}
	}
	return true
}

// Rings returns every ring of every polygon, outer rings before their holes.
func (b Boundary) Rings() []orb.Ring {
	var rings []orb.Ring
	for _, p := range b.Polygons {
		rings = append(rings, p...)
	}
	return rings
}

// ValidRing reports whether r can be drawn: at least three vertices, all finite.
func ValidRing(r orb.Ring) bool {
	if len(r) < 3 {
		return false
	}
	for _, p := range r {
		if !finite(p[0]) || !finite(p[1]) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

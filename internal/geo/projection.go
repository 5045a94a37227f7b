// Package geo maps geographic coordinates to the plane and models the pan/zoom
// transform applied on top of that mapping.
package geo

import "math"

// MaxMercatorLat is the latitude where the Mercator square tile ends. Latitudes past
// it are clamped so poles never project to infinity.
const MaxMercatorLat = 85.0511287798

// Default projection parameters: Poland fills an 800x600 viewport at k=1.
const (
	DefaultScale = 3000
	DefaultTX    = -600
	DefaultTY    = 3500
)

// Point is a planar coordinate, either in projected world space or screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projection maps longitude/latitude in degrees to world coordinates. ok is false when
// the input cannot be mapped to a finite point.
type Projection interface {
	Project(lon, lat float64) (p Point, ok bool)
}

// Mercator is a spherical Mercator projection with a fixed scale and origin:
//
//	x = Scale*λ + TX
//	y = TY - Scale*ln(tan(π/4 + φ/2))
//
// with λ, φ in radians. y grows downward, matching screen space.
type Mercator struct {
	Scale  float64
	TX, TY float64
}

// NewMercator returns the projection used for the Poland map.
func NewMercator() Mercator {
	return Mercator{Scale: DefaultScale, TX: DefaultTX, TY: DefaultTY}
}

func (m Mercator) Project(lon, lat float64) (Point, bool) {
	if !finite(lon) || !finite(lat) || math.Abs(lon) > 180 || math.Abs(lat) > 90 {
		return Point{}, false
	}
	lat = math.Max(-MaxMercatorLat, math.Min(MaxMercatorLat, lat))

	lambda := lon * math.Pi / 180
	phi := lat * math.Pi / 180
	x := m.Scale*lambda + m.TX
	y := m.TY - m.Scale*math.Log(math.Tan(math.Pi/4+phi/2))
	if !finite(x) || !finite(y) {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// Invert maps a world point back to longitude/latitude.
func (m Mercator) Invert(p Point) (lon, lat float64) {
	lambda := (p.X - m.TX) / m.Scale
	phi := 2*math.Atan(math.Exp((m.TY-p.Y)/m.Scale)) - math.Pi/2
	return lambda * 180 / math.Pi, phi * 180 / math.Pi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

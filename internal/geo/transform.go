package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Transform is the pan/zoom state: screen = world*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform with no pan and unit scale.
var Identity = Transform{K: 1}

// Apply maps a world point to screen space. Scaling happens before translation.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to world space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Size is a viewport size in surface pixels.
type Size struct {
	W, H float64
}

// ZoomConfig bounds the transform.
type ZoomConfig struct {
	MinScale float64
	MaxScale float64
	// Extent is the world-space box the visible window must stay inside.
	Extent   orb.Bound
	Viewport Size
}

// DefaultZoomConfig returns the bounds used by the Poland map on an 800x600 surface.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		MinScale: 0.7,
		MaxScale: 100,
		Extent:   orb.Bound{Min: orb.Point{-500, -300}, Max: orb.Point{1300, 1000}},
		Viewport: Size{W: 800, H: 600},
	}
}

var ErrInvalidZoomConfig = errors.New("invalid zoom config")

// Validate checks the scale range, extent and viewport.
func (c ZoomConfig) Validate() error {
	switch {
	case !(c.MinScale > 0) || !(c.MaxScale >= c.MinScale) || math.IsInf(c.MaxScale, 0):
		return fmt.Errorf("%w: scale range [%g, %g]", ErrInvalidZoomConfig, c.MinScale, c.MaxScale)
	case !(c.Extent.Max[0] > c.Extent.Min[0]) || !(c.Extent.Max[1] > c.Extent.Min[1]):
		return fmt.Errorf("%w: empty pan extent %v", ErrInvalidZoomConfig, c.Extent)
	case !(c.Viewport.W > 0) || !(c.Viewport.H > 0):
		return fmt.Errorf("%w: viewport %gx%g", ErrInvalidZoomConfig, c.Viewport.W, c.Viewport.H)
	}
	return nil
}

// ZoomModel owns the current transform and keeps it inside the configured bounds
// after every gesture. It is not safe for concurrent use.
type ZoomModel struct {
	cfg ZoomConfig
	t   Transform
}

// NewZoomModel starts at the identity transform, constrained to the extent.
func NewZoomModel(cfg ZoomConfig) (*ZoomModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	z := &ZoomModel{cfg: cfg}
	z.Reset()
	return z, nil
}

// Config returns the bounds the model was built with.
func (z *ZoomModel) Config() ZoomConfig { return z.cfg }

// Current returns the transform.
func (z *ZoomModel) Current() Transform { return z.t }

// Reset returns to the identity transform.
func (z *ZoomModel) Reset() Transform {
	z.t = z.constrain(z.clampScale(Identity))
	return z.t
}

// Apply updates the transform with one gesture and returns the result. Gestures with
// non-finite or non-positive parameters leave the transform unchanged.
func (z *ZoomModel) Apply(g Gesture) Transform {
	t := z.t
	switch g.Kind {
	case GesturePan:
		if !finite(g.DX) || !finite(g.DY) {
			return z.t
		}
		t.X += g.DX
		t.Y += g.DY
	case GestureZoom:
		if !(g.Factor > 0) || !finite(g.Factor) || !finite(g.Anchor.X) || !finite(g.Anchor.Y) {
			return z.t
		}
		world := t.Invert(g.Anchor)
		t.K = clamp(t.K*g.Factor, z.cfg.MinScale, z.cfg.MaxScale)
		t.X = g.Anchor.X - world.X*t.K
		t.Y = g.Anchor.Y - world.Y*t.K
	default:
		return z.t
	}
	z.t = z.constrain(t)
	return z.t
}

func (z *ZoomModel) clampScale(t Transform) Transform {
	t.K = clamp(t.K, z.cfg.MinScale, z.cfg.MaxScale)
	return t
}

// constrain shifts t so the world window seen through the viewport lies inside the
// extent. A window larger than the extent on some axis is centred on that axis.
func (z *ZoomModel) constrain(t Transform) Transform {
	topLeft := t.Invert(Point{})
	bottomRight := t.Invert(Point{X: z.cfg.Viewport.W, Y: z.cfg.Viewport.H})

	dx := constrainAxis(topLeft.X-z.cfg.Extent.Min[0], bottomRight.X-z.cfg.Extent.Max[0])
	dy := constrainAxis(topLeft.Y-z.cfg.Extent.Min[1], bottomRight.Y-z.cfg.Extent.Max[1])

	t.X += t.K * dx
	t.Y += t.K * dy
	return t
}

// constrainAxis returns the world-space shift for one axis given how far the window's
// near edge (d0) and far edge (d1) sit past the extent's edges.
func constrainAxis(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if m := math.Min(0, d0); m != 0 {
		return m
	}
	return math.Max(0, d1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

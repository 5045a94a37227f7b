package geo

import "math"

// GestureKind distinguishes translation from scaling input.
type GestureKind int

const (
	GesturePan GestureKind = iota + 1
	GestureZoom
)

func (k GestureKind) String() string {
	switch k {
	case GesturePan:
		return "pan"
	case GestureZoom:
		return "zoom"
	default:
		return "unknown"
	}
}

// Gesture is one pan or zoom step. Pan uses DX/DY in screen pixels; zoom multiplies
// the scale by Factor while keeping the world point under Anchor fixed on screen.
type Gesture struct {
	Kind   GestureKind
	DX, DY float64
	Factor float64
	Anchor Point
}

// Pan is a drag by (dx, dy) screen pixels.
func Pan(dx, dy float64) Gesture {
	return Gesture{Kind: GesturePan, DX: dx, DY: dy}
}

// Zoom scales by factor around anchor.
func Zoom(factor float64, anchor Point) Gesture {
	return Gesture{Kind: GestureZoom, Factor: factor, Anchor: anchor}
}

// WheelMode mirrors DOM WheelEvent.deltaMode.
type WheelMode int

const (
	WheelPixel WheelMode = iota
	WheelLine
	WheelPage
)

// WheelFactor converts a wheel delta to a zoom factor: 2^(-deltaY*unit), where unit is
// 0.002 per pixel, 0.05 per line and 1 per page. Holding ctrl speeds it up tenfold,
// which is how trackpads report pinches.
func WheelFactor(deltaY float64, mode WheelMode, ctrl bool) float64 {
	unit := 0.002
	switch mode {
	case WheelLine:
		unit = 0.05
	case WheelPage:
		unit = 1
	}
	if ctrl {
		unit *= 10
	}
	return math.Pow(2, -deltaY*unit)
}

// Wheel is the zoom gesture for one wheel event at the pointer.
func Wheel(deltaY float64, mode WheelMode, ctrl bool, pointer Point) Gesture {
	return Zoom(WheelFactor(deltaY, mode, ctrl), pointer)
}

// DoubleClick zooms in by 2 at the pointer, or out by 2 with shift held.
func DoubleClick(pointer Point, shift bool) Gesture {
	if shift {
		return Zoom(0.5, pointer)
	}
	return Zoom(2, pointer)
}

// Pinch zooms by the ratio of finger distances around their current midpoint. The
// midpoint's movement since the previous sample is not a pan; callers send that
// separately.
func Pinch(prevA, prevB, a, b Point) Gesture {
	d0 := math.Hypot(prevB.X-prevA.X, prevB.Y-prevA.Y)
	d1 := math.Hypot(b.X-a.X, b.Y-a.Y)
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	if d0 == 0 {
		return Zoom(1, mid)
	}
	return Zoom(d1/d0, mid)
}

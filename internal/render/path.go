package render

import (
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so four segments approximate a circle.
const kappa = 0.5522847498

// addPolygon appends a closed path through pts, shifted by -origin.
func addPolygon(z *vector.Rasterizer, pts []orb.Point, origin orb.Point) {
	if len(pts) < 3 {
		return
	}
	z.MoveTo(f32(pts[0][0]-origin[0]), f32(pts[0][1]-origin[1]))
	for _, p := range pts[1:] {
		z.LineTo(f32(p[0]-origin[0]), f32(p[1]-origin[1]))
	}
	z.ClosePath()
}

// addSegmentStroke appends a rectangle of the given width centred on segment a-b.
// Every rectangle has the same winding so overlapping strokes never cancel.
func addSegmentStroke(z *vector.Rasterizer, a, b orb.Point, width float64, origin orb.Point) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	addPolygon(z, []orb.Point{
		{a[0] + nx, a[1] + ny},
		{b[0] + nx, b[1] + ny},
		{b[0] - nx, b[1] - ny},
		{a[0] - nx, a[1] - ny},
	}, origin)
}

// addCircle appends a circle; reverse flips the winding so an inner circle can
// punch a hole in an outer one.
func addCircle(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	if r <= 0 {
		return
	}
	k := kappa * r
	x, y := f32(cx), f32(cy)
	R, K := f32(r), f32(k)

	z.MoveTo(x+R, y)
	if !reverse {
		z.CubeTo(x+R, y+K, x+K, y+R, x, y+R)
		z.CubeTo(x-K, y+R, x-R, y+K, x-R, y)
		z.CubeTo(x-R, y-K, x-K, y-R, x, y-R)
		z.CubeTo(x+K, y-R, x+R, y-K, x+R, y)
	} else {
		z.CubeTo(x+R, y-K, x+K, y-R, x, y-R)
		z.CubeTo(x-K, y-R, x-R, y-K, x-R, y)
		z.CubeTo(x-R, y+K, x-K, y+R, x, y+R)
		z.CubeTo(x+K, y+R, x+R, y+K, x+R, y)
	}
	z.ClosePath()
}

func f32(v float64) float32 { return float32(v) }

package interaction

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/couchcryptid/apartment-price-map/internal/geo"
	"github.com/couchcryptid/apartment-price-map/internal/render"
)

// HitTester finds the marker under a world-space point.
//
// Contract: when several markers' boxes contain the point, the one drawn last wins,
// because it is painted on top of the others. Implementations must return that marker
// regardless of how they store markers internally.
type HitTester interface {
	// Index replaces the indexed markers. markers are in draw order.
	Index(markers []render.Marker)
	// Pick returns the record index of the topmost marker whose box of half-size
	// radius strictly contains p.
	Pick(p geo.Point, radius float64) (int, bool)
}

// NewHitTester returns the hit tester for kind: "quadtree" or anything else for the
// linear scan.
func NewHitTester(kind string) HitTester {
	if kind == "quadtree" {
		return &QuadtreeHitTester{}
	}
	return &LinearHitTester{}
}

func contains(m render.Marker, p geo.Point, radius float64) bool {
	return p.X > m.Pos.X-radius && p.X < m.Pos.X+radius &&
		p.Y > m.Pos.Y-radius && p.Y < m.Pos.Y+radius
}

// LinearHitTester checks every marker on each pick. Fine for a few thousand markers.
type LinearHitTester struct {
	markers []render.Marker
}

func (h *LinearHitTester) Index(markers []render.Marker) {
	h.markers = markers
}

func (h *LinearHitTester) Pick(p geo.Point, radius float64) (int, bool) {
	// Walk from the last-drawn marker so the first match is the topmost one.
	for i := len(h.markers) - 1; i >= 0; i-- {
		if contains(h.markers[i], p, radius) {
			return h.markers[i].Index, true
		}
	}
	return 0, false
}

// QuadtreeHitTester answers picks from a quadtree over marker positions. Markers sit
// at fixed world positions, so the tree only changes when the visible set does.
type QuadtreeHitTester struct {
	tree *quadtree.Quadtree
	buf  []orb.Pointer
}

type quadMarker struct {
	render.Marker
}

func (m quadMarker) Point() orb.Point {
	return orb.Point{m.Pos.X, m.Pos.Y}
}

func (h *QuadtreeHitTester) Index(markers []render.Marker) {
	h.tree = nil
	if len(markers) == 0 {
		return
	}
	bound := orb.Bound{Min: quadMarker{markers[0]}.Point(), Max: quadMarker{markers[0]}.Point()}
	for _, m := range markers[1:] {
		bound = bound.Extend(quadMarker{m}.Point())
	}
	h.tree = quadtree.New(bound)
	for _, m := range markers {
		// Every point is inside bound, so Add cannot fail.
		_ = h.tree.Add(quadMarker{m})
	}
}

func (h *QuadtreeHitTester) Pick(p geo.Point, radius float64) (int, bool) {
	if h.tree == nil {
		return 0, false
	}
	window := orb.Bound{
		Min: orb.Point{p.X - radius, p.Y - radius},
		Max: orb.Point{p.X + radius, p.Y + radius},
	}
	h.buf = h.tree.InBound(h.buf[:0], window)

	best, found := 0, false
	for _, v := range h.buf {
		m := v.(quadMarker)
		if !contains(m.Marker, p, radius) {
			continue
		}
		// The tree does not keep insertion order; draw order is the record index.
		if !found || m.Index > best {
			best, found = m.Index, true
		}
	}
	return best, found
}

// Package render paints the boundary and listing markers onto a raster surface. Every
// call repaints the whole surface; nothing is retained between frames.
package render

import (
	"image"
	"image/draw"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"golang.org/x/image/vector"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
)

// Marker is a record's projected world position. Index points into the record slice
// the marker was built from.
type Marker struct {
	Index int
	Pos   geo.Point
}

// ProjectRecords projects every record in order, dropping those the projection cannot
// map. The returned markers keep draw order.
func ProjectRecords(proj geo.Projection, records []domain.Record) (markers []Marker, skipped int) {
	markers = make([]Marker, 0, len(records))
	for i, rec := range records {
		p, ok := proj.Project(rec.Lon, rec.Lat)
		if !ok {
			skipped++
			continue
		}
		markers = append(markers, Marker{Index: i, Pos: p})
	}
	return markers, skipped
}

// MarkerWorldRadius is the marker radius in world units at scale k. Multiplied back by
// k on screen it is always the nominal radius.
func (s Style) MarkerWorldRadius(k float64) float64 {
	return s.MarkerRadius / k
}

// Stats describes one frame.
type Stats struct {
	Rings          int
	SkippedRings   int
	Markers        int
	SkippedMarkers int
	Culled         int
	Duration       time.Duration
	// Skipped is set when nothing was painted: no surface or an unusable transform.
	Skipped bool
}

// Renderer owns the rasterizer buffers. It is not safe for concurrent use.
type Renderer struct {
	proj   geo.Projection
	style  Style
	logger *slog.Logger

	fill   *vector.Rasterizer
	stroke *vector.Rasterizer
	marker *vector.Rasterizer
}

// New creates a Renderer for the given projection and style.
func New(proj geo.Projection, style Style, logger *slog.Logger) *Renderer {
	return &Renderer{
		proj:   proj,
		style:  style,
		logger: logger,
		fill:   vector.NewRasterizer(0, 0),
		stroke: vector.NewRasterizer(0, 0),
		marker: vector.NewRasterizer(0, 0),
	}
}

// Style returns the paint parameters.
func (r *Renderer) Style() Style { return r.style }

// Projection returns the projection markers and rings are mapped with.
func (r *Renderer) Projection() geo.Projection { return r.proj }

// Render clears dst and paints the boundary and the records under transform t. A nil
// surface is a no-op so callers may render before the surface exists.
func (r *Renderer) Render(dst draw.Image, b domain.Boundary, records []domain.Record, t geo.Transform) Stats {
	var stats Stats
	if surfaceMissing(dst) {
		stats.Skipped = true
		return stats
	}
	start := time.Now()

	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(r.style.Background), image.Point{}, draw.Src)

	if !(t.K > 0) || math.IsInf(t.K, 0) || math.IsNaN(t.X) || math.IsNaN(t.Y) {
		r.logger.Warn("render skipped, unusable transform", "k", t.K, "x", t.X, "y", t.Y)
		stats.Skipped = true
		return stats
	}

	r.drawBoundary(dst, b, t, &stats)

	markers, skipped := ProjectRecords(r.proj, records)
	stats.SkippedMarkers = skipped
	r.drawMarkers(dst, records, markers, t, &stats)

	if stats.SkippedRings > 0 || stats.SkippedMarkers > 0 {
		r.logger.Debug("frame skipped malformed input",
			"skipped_rings", stats.SkippedRings,
			"skipped_markers", stats.SkippedMarkers,
		)
	}
	stats.Duration = time.Since(start)
	return stats
}

func (r *Renderer) drawBoundary(dst draw.Image, b domain.Boundary, t geo.Transform, stats *Stats) {
	bounds := dst.Bounds()
	origin := orb.Point{float64(bounds.Min.X), float64(bounds.Min.Y)}

	// Painting happens in screen space, where the world width w/k is always w.
	width := r.style.BoundaryWidth
	pad := width + 1
	window := orb.Bound{
		Min: orb.Point{origin[0] - pad, origin[1] - pad},
		Max: orb.Point{float64(bounds.Max.X) + pad, float64(bounds.Max.Y) + pad},
	}

	r.fill.Reset(bounds.Dx(), bounds.Dy())
	r.stroke.Reset(bounds.Dx(), bounds.Dy())

	for _, ring := range b.Rings() {
		if !domain.ValidRing(ring) {
			stats.SkippedRings++
			continue
		}
		screen, ok := r.screenRing(ring, t)
		if !ok {
			stats.SkippedRings++
			continue
		}
		stats.Rings++

		if filled := clip.Ring(window, screen); len(filled) >= 3 {
			addPolygon(r.fill, filled, origin)
		}
		for _, ls := range clip.LineString(window, closeRing(screen)) {
			for i := 1; i < len(ls); i++ {
				addSegmentStroke(r.stroke, ls[i-1], ls[i], width, origin)
			}
		}
	}

	if stats.Rings == 0 {
		return
	}
	r.fill.Draw(dst, bounds, image.NewUniform(r.style.BoundaryFill), image.Point{})
	if width > 0 {
		r.stroke.Draw(dst, bounds, image.NewUniform(r.style.BoundaryStroke), image.Point{})
	}
}

// screenRing maps a lon/lat ring to screen space. It fails if any vertex cannot be
// projected.
func (r *Renderer) screenRing(ring orb.Ring, t geo.Transform) (orb.Ring, bool) {
	out := make(orb.Ring, len(ring))
	for i, v := range ring {
		p, ok := r.proj.Project(v[0], v[1])
		if !ok {
			return nil, false
		}
		s := t.Apply(p)
		out[i] = orb.Point{s.X, s.Y}
	}
	return out, true
}

func (r *Renderer) drawMarkers(dst draw.Image, records []domain.Record, markers []Marker, t geo.Transform, stats *Stats) {
	bounds := dst.Bounds()
	// Screen-space sizes; in world units both shrink by 1/k.
	radius := r.style.MarkerRadius
	line := r.style.MarkerWidth
	outer := radius + line/2
	stroke := image.NewUniform(r.style.MarkerStroke)

	for _, m := range markers {
		c := t.Apply(m.Pos)
		if math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) || math.Abs(c.X) > math.MaxInt32 || math.Abs(c.Y) > math.MaxInt32 {
			stats.Culled++
			continue
		}
		rect := image.Rect(
			int(math.Floor(c.X-outer)), int(math.Floor(c.Y-outer)),
			int(math.Ceil(c.X+outer)), int(math.Ceil(c.Y+outer)),
		).Intersect(bounds)
		if rect.Empty() {
			stats.Culled++
			continue
		}
		cx, cy := c.X-float64(rect.Min.X), c.Y-float64(rect.Min.Y)

		r.marker.Reset(rect.Dx(), rect.Dy())
		addCircle(r.marker, cx, cy, radius, false)
		fill := PriceColor(records[m.Index].Price, r.style.PriceCeiling)
		r.marker.Draw(dst, rect, image.NewUniform(fill), image.Point{})

		if line > 0 {
			r.marker.Reset(rect.Dx(), rect.Dy())
			addCircle(r.marker, cx, cy, outer, false)
			addCircle(r.marker, cx, cy, radius-line/2, true)
			r.marker.Draw(dst, rect, stroke, image.Point{})
		}
		stats.Markers++
	}
}

func closeRing(r orb.Ring) orb.LineString {
	ls := orb.LineString(r)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		ls = append(ls[:len(ls):len(ls)], r[0])
	}
	return ls
}

// surfaceMissing reports a nil surface, including a nil pointer of any image type.
func surfaceMissing(dst draw.Image) bool {
	if dst == nil {
		return true
	}
	if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && v.IsNil() {
		return true
	}
	return dst.Bounds().Empty()
}

// Package interaction drives one map view: it turns gesture, pointer and filter input
// into transform updates, repaints, and the hovered-record value behind the tooltip.
package interaction

import (
	"errors"
	"fmt"
	"image/draw"
	"log/slog"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
	"github.com/couchcryptid/apartment-price-map/internal/observability"
	"github.com/couchcryptid/apartment-price-map/internal/render"
)

// NoHover is State.Hovered when no marker is under the pointer.
const NoHover = -1

// State is the view state for one frame. Handlers build a new State and swap it in
// whole; a State value is never modified after it is published.
type State struct {
	Transform  geo.Transform       `json:"transform"`
	Params     domain.FilterParams `json:"params"`
	ShowData   bool                `json:"showData"`
	Pointer    geo.Point           `json:"pointer"`
	HasPointer bool                `json:"hasPointer"`
	// Hovered indexes the visible set, or is NoHover.
	Hovered int `json:"hovered"`
}

// Frame is the outcome of one handled event.
type Frame struct {
	State   State
	Visible int
	Hovered *domain.Record
	Stats   render.Stats
}

// Options configures a Controller.
type Options struct {
	Boundary  domain.Boundary
	Records   []domain.Record
	Surface   draw.Image
	Zoom      geo.ZoomConfig
	Params    domain.FilterParams
	HitTester HitTester

	// SelectionCacheSize bounds the filter result cache; 0 means DefaultSelectionCacheSize.
	SelectionCacheSize int
}

// Controller owns the transform, filter snapshot and hover state of one view. All
// handlers run to completion on the caller's goroutine; it is not safe for concurrent use.
type Controller struct {
	renderer *render.Renderer
	zoom     *geo.ZoomModel
	hit      HitTester
	cache    *selectionCache
	boundary domain.Boundary
	records  []domain.Record
	surface  draw.Image
	metrics  *observability.Metrics
	logger   *slog.Logger

	state   State
	visible []domain.Record
}

// NewController builds a controller showing data with opts.Params and paints the
// first frame.
func NewController(r *render.Renderer, opts Options, metrics *observability.Metrics, logger *slog.Logger) (*Controller, error) {
	if r == nil {
		return nil, errors.New("renderer is required")
	}
	zoom, err := geo.NewZoomModel(opts.Zoom)
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	hit := opts.HitTester
	if hit == nil {
		hit = &LinearHitTester{}
	}
	c := &Controller{
		renderer: r,
		zoom:     zoom,
		hit:      hit,
		cache:    newSelectionCache(opts.SelectionCacheSize),
		boundary: opts.Boundary,
		records:  opts.Records,
		surface:  opts.Surface,
		metrics:  metrics,
		logger:   logger,
	}
	c.commit(State{
		Transform: zoom.Current(),
		Params:    opts.Params,
		ShowData:  true,
		Hovered:   NoHover,
	}, true)
	return c, nil
}

// State returns the current snapshot.
func (c *Controller) State() State { return c.state }

// Visible returns the records currently drawn, in draw order.
func (c *Controller) Visible() []domain.Record { return c.visible }

// Hovered returns the record under the pointer, if any.
func (c *Controller) Hovered() (domain.Record, bool) {
	if c.state.Hovered == NoHover {
		return domain.Record{}, false
	}
	return c.visible[c.state.Hovered], true
}

// Tooltip describes the hovered record positioned at the pointer.
func (c *Controller) Tooltip() (Tooltip, bool) {
	rec, ok := c.Hovered()
	if !ok {
		return Tooltip{}, false
	}
	return NewTooltip(rec, c.state.Pointer), true
}

// HandleGesture applies a pan or zoom and repaints.
func (c *Controller) HandleGesture(g geo.Gesture) Frame {
	c.metrics.Events.WithLabelValues("gesture").Inc()
	next := c.state
	next.Transform = c.zoom.Apply(g)
	return c.commit(next, false)
}

// HandlePointerMove records the pointer's screen position, re-runs hit testing and
// repaints.
func (c *Controller) HandlePointerMove(p geo.Point) Frame {
	c.metrics.Events.WithLabelValues("pointer").Inc()
	next := c.state
	next.Pointer = p
	next.HasPointer = true
	return c.commit(next, false)
}

// HandlePointerLeave forgets the pointer, clearing the hover.
func (c *Controller) HandlePointerLeave() Frame {
	c.metrics.Events.WithLabelValues("leave").Inc()
	next := c.state
	next.HasPointer = false
	return c.commit(next, false)
}

// SetFilter replaces the filter snapshot, recomputes the visible set and repaints.
// Parameters that can match nothing are accepted and produce an empty map.
func (c *Controller) SetFilter(p domain.FilterParams) Frame {
	c.metrics.Events.WithLabelValues("filter").Inc()
	if err := p.Validate(); err != nil {
		c.logger.Debug("filter selects nothing", "error", err)
	}
	next := c.state
	next.Params = p
	return c.commit(next, true)
}

// SetShowData shows or hides every marker without touching the filter snapshot.
func (c *Controller) SetShowData(show bool) Frame {
	c.metrics.Events.WithLabelValues("show_data").Inc()
	next := c.state
	next.ShowData = show
	return c.commit(next, true)
}

// ToggleData flips SetShowData.
func (c *Controller) ToggleData() Frame {
	return c.SetShowData(!c.state.ShowData)
}

// ResetView returns to the initial transform.
func (c *Controller) ResetView() Frame {
	c.metrics.Events.WithLabelValues("gesture").Inc()
	next := c.state
	next.Transform = c.zoom.Reset()
	return c.commit(next, false)
}

// Redraw repaints the current state.
func (c *Controller) Redraw() Frame {
	c.metrics.Events.WithLabelValues("redraw").Inc()
	return c.commit(c.state, false)
}

// commit recomputes the visible set when asked, hit tests, repaints and publishes next.
func (c *Controller) commit(next State, reselect bool) Frame {
	if reselect {
		sel := c.selectVisible(next)
		c.visible = sel.records
		c.hit.Index(sel.markers)
		c.metrics.VisibleRecords.Set(float64(len(c.visible)))
	}

	next.Hovered = c.pick(next)
	stats := c.renderer.Render(c.surface, c.boundary, c.visible, next.Transform)
	c.state = next

	if !stats.Skipped {
		c.metrics.FramesRendered.Inc()
		c.metrics.FrameDuration.Observe(stats.Duration.Seconds())
		c.metrics.SkippedRings.Add(float64(stats.SkippedRings))
		c.metrics.SkippedMarkers.Add(float64(stats.SkippedMarkers))
	}

	f := Frame{State: next, Visible: len(c.visible), Stats: stats}
	if next.Hovered != NoHover {
		rec := c.visible[next.Hovered]
		f.Hovered = &rec
	}
	return f
}

func (c *Controller) selectVisible(s State) selection {
	if !s.ShowData || s.Params.Validate() != nil {
		return selection{records: []domain.Record{}}
	}
	if sel, ok := c.cache.get(s.Params); ok {
		c.metrics.SelectionCache.WithLabelValues("hit").Inc()
		return sel
	}
	c.metrics.SelectionCache.WithLabelValues("miss").Inc()
	records := domain.SelectVisible(c.records, s.Params)
	markers, _ := render.ProjectRecords(c.renderer.Projection(), records)
	sel := selection{records: records, markers: markers}
	c.cache.put(s.Params, sel)
	return sel
}

func (c *Controller) pick(s State) int {
	if !s.HasPointer || len(c.visible) == 0 {
		return NoHover
	}
	world := s.Transform.Invert(s.Pointer)
	radius := c.renderer.Style().MarkerWorldRadius(s.Transform.K)
	i, ok := c.hit.Pick(world, radius)
	if !ok {
		c.metrics.HitTests.WithLabelValues("miss").Inc()
		return NoHover
	}
	c.metrics.HitTests.WithLabelValues("hit").Inc()
	return i
}

package interaction

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
	"github.com/couchcryptid/apartment-price-map/internal/observability"
)

// DefaultFrameInterval is one refresh at roughly 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// EventKind identifies what an Event carries.
type EventKind int

const (
	EventGesture EventKind = iota + 1
	EventPointerMove
	EventPointerLeave
	EventFilter
	EventShowData
	EventToggleData
	EventResetView
	EventRedraw
)

func (k EventKind) String() string {
	switch k {
	case EventGesture:
		return "gesture"
	case EventPointerMove:
		return "pointer"
	case EventPointerLeave:
		return "leave"
	case EventFilter:
		return "filter"
	case EventShowData:
		return "show_data"
	case EventToggleData:
		return "toggle_data"
	case EventResetView:
		return "reset_view"
	case EventRedraw:
		return "redraw"
	default:
		return "unknown"
	}
}

// Event is one input to a Session. Only the field matching Kind is read.
type Event struct {
	Kind    EventKind
	Gesture geo.Gesture
	Pointer geo.Point
	Params  domain.FilterParams
	Show    bool
}

// Session feeds a stream of events into one Controller on a single goroutine.
// Pointer moves arriving faster than the refresh interval collapse into one hit test
// and repaint per tick; a pending move is applied before any other event and when the
// stream ends, so the last position always lands.
type Session struct {
	ctrl     *Controller
	clock    clockwork.Clock
	interval time.Duration
	onFrame  func(Frame)
	metrics  *observability.Metrics
	logger   *slog.Logger
	running  atomic.Bool
	frames   atomic.Uint64
	last     atomic.Pointer[Status]
}

// Status summarises the most recent frame. It is safe to read from any goroutine
// while the session runs.
type Status struct {
	Running  bool    `json:"running"`
	Frames   uint64  `json:"frames"`
	Visible  int     `json:"visible"`
	ShowData bool    `json:"showData"`
	Zoom     float64 `json:"zoom"`
	City     string  `json:"city"`
	Bucket   string  `json:"bucket,omitempty"`
	Hovered  string  `json:"hovered,omitempty"`
}

// NewSession creates a Session. onFrame, if non-nil, receives every frame produced.
func NewSession(ctrl *Controller, clock clockwork.Clock, interval time.Duration, onFrame func(Frame), metrics *observability.Metrics, logger *slog.Logger) *Session {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}
	return &Session{
		ctrl:     ctrl,
		clock:    clock,
		interval: interval,
		onFrame:  onFrame,
		metrics:  metrics,
		logger:   logger,
	}
}

// CheckReadiness returns nil while the session is consuming events.
func (s *Session) CheckReadiness(_ context.Context) error {
	if !s.running.Load() {
		return errors.New("view session is not running")
	}
	return nil
}

// Run consumes events until the channel is closed or the context is cancelled.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	s.logger.Info("session started", "frame_interval", s.interval)
	s.running.Store(true)
	s.metrics.SessionRunning.Set(1)
	defer func() {
		s.running.Store(false)
		s.metrics.SessionRunning.Set(0)
	}()

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	var (
		pending    geo.Point
		hasPending bool
	)
	flush := func() {
		if !hasPending {
			return
		}
		hasPending = false
		s.emit(s.ctrl.HandlePointerMove(pending))
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			s.logger.Info("session stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			flush()
		case ev, ok := <-events:
			if !ok {
				flush()
				s.logger.Info("session stopping", "reason", "event stream closed")
				return nil
			}
			if ev.Kind == EventPointerMove {
				if hasPending {
					s.metrics.CoalescedPointerMoves.Inc()
				}
				pending, hasPending = ev.Pointer, true
				continue
			}
			flush()
			s.emit(s.Dispatch(ev))
		}
	}
}

// Status reports the last emitted frame. Before the first frame only Running is
// meaningful.
func (s *Session) Status() Status {
	var st Status
	if last := s.last.Load(); last != nil {
		st = *last
	}
	st.Running = s.running.Load()
	return st
}

func (s *Session) emit(f Frame) {
	st := Status{
		Frames:   s.frames.Add(1),
		Visible:  f.Visible,
		ShowData: f.State.ShowData,
		Zoom:     f.State.Transform.K,
		City:     f.State.Params.City,
	}
	if b := f.State.Params.Bucket; b >= 0 && b < len(domain.Buckets) {
		st.Bucket = domain.Buckets[b]
	}
	if f.Hovered != nil {
		st.Hovered = f.Hovered.ID
	}
	s.last.Store(&st)
	s.onFrame(f)
}

// Dispatch applies a single event to the controller immediately.
func (s *Session) Dispatch(ev Event) Frame {
	switch ev.Kind {
	case EventGesture:
		return s.ctrl.HandleGesture(ev.Gesture)
	case EventPointerMove:
		return s.ctrl.HandlePointerMove(ev.Pointer)
	case EventPointerLeave:
		return s.ctrl.HandlePointerLeave()
	case EventFilter:
		return s.ctrl.SetFilter(ev.Params)
	case EventShowData:
		return s.ctrl.SetShowData(ev.Show)
	case EventToggleData:
		return s.ctrl.ToggleData()
	case EventResetView:
		return s.ctrl.ResetView()
	default:
		if ev.Kind != EventRedraw {
			s.logger.Warn("unknown event kind, redrawing", "kind", int(ev.Kind))
		}
		return s.ctrl.Redraw()
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map view.
type Metrics struct {
	FramesRendered prometheus.Counter
	FrameDuration  prometheus.Histogram
	VisibleRecords prometheus.Gauge

	// Input that the draw pass skipped.
	SkippedRings   prometheus.Counter
	SkippedMarkers prometheus.Counter

	// Interaction metrics.
	Events                *prometheus.CounterVec // labels: kind={gesture,pointer,leave,filter,show_data,redraw}
	HitTests              *prometheus.CounterVec // labels: result={hit,miss}
	SelectionCache        *prometheus.CounterVec // labels: result={hit,miss}
	CoalescedPointerMoves prometheus.Counter
	SessionRunning        prometheus.Gauge
}

// NewMetrics creates and registers all view metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.FramesRendered,
		m.FrameDuration,
		m.VisibleRecords,
		m.SkippedRings,
		m.SkippedMarkers,
		m.Events,
		m.HitTests,
		m.SelectionCache,
		m.CoalescedPointerMoves,
		m.SessionRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can build
// as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "frames_rendered_total",
			Help:      help("Total full repaints of the map surface."),
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "price_map",
			Name:      "frame_duration_seconds",
			Help:      help("Duration of one repaint, boundary and markers."),
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
		VisibleRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "price_map",
			Name:      "visible_records",
			Help:      help("Records passing the current filter."),
		}),
		SkippedRings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "skipped_rings_total",
			Help:      help("Malformed boundary rings left out of a repaint."),
		}),
		SkippedMarkers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "skipped_markers_total",
			Help:      help("Records left out of a repaint because their position could not be projected."),
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "events_total",
			Help:      help("Input events handled by kind."),
		}, []string{"kind"}),
		HitTests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "hit_tests_total",
			Help:      help("Pointer hit tests by result."),
		}, []string{"result"}),
		SelectionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "selection_cache_total",
			Help:      help("Visible-set lookups by filter parameters, by cache result."),
		}, []string{"result"}),
		CoalescedPointerMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "price_map",
			Name:      "coalesced_pointer_moves_total",
			Help:      help("Pointer moves superseded by a later move before the next refresh."),
		}),
		SessionRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "price_map",
			Name:      "session_running",
			Help:      help("1 while a view session is consuming events, 0 otherwise."),
		}),
	}
}

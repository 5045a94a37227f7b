package geo

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestMercator_Project(t *testing.T) {
	m := NewMercator()

	t.Run("poland lands in the viewport", func(t *testing.T) {
		p, ok := m.Project(19.0, 52.0)
		require.True(t, ok)
		assert.InDelta(t, 394.8, p.X, 0.5)
		assert.InDelta(t, 301.5, p.Y, 0.5)
	})

	t.Run("deterministic and finite over the coordinate range", func(t *testing.T) {
		r := rand.New(rand.NewPCG(1, 2))
		for range 1000 {
			lon := r.Float64()*360 - 180
			lat := r.Float64()*180 - 90
			a, ok := m.Project(lon, lat)
			require.True(t, ok)
			b, _ := m.Project(lon, lat)
			assert.Equal(t, a, b)
			assert.False(t, math.IsInf(a.X, 0) || math.IsNaN(a.X))
			assert.False(t, math.IsInf(a.Y, 0) || math.IsNaN(a.Y))
		}
	})

	t.Run("poles clamp instead of overflowing", func(t *testing.T) {
		north, ok := m.Project(0, 90)
		require.True(t, ok)
		clamped, _ := m.Project(0, MaxMercatorLat)
		assert.InDelta(t, clamped.Y, north.Y, eps)
	})

	t.Run("north is up", func(t *testing.T) {
		gdansk, _ := m.Project(18.65, 54.35)
		krakow, _ := m.Project(19.94, 50.06)
		assert.Less(t, gdansk.Y, krakow.Y)
	})

	t.Run("unprojectable input", func(t *testing.T) {
		for _, c := range [][2]float64{
			{math.NaN(), 50}, {20, math.NaN()}, {math.Inf(1), 50}, {20, 91}, {181, 50},
		} {
			_, ok := m.Project(c[0], c[1])
			assert.False(t, ok, "lon=%v lat=%v", c[0], c[1])
		}
	})

	t.Run("invert", func(t *testing.T) {
		p, _ := m.Project(21.01, 52.23)
		lon, lat := m.Invert(p)
		assert.InDelta(t, 21.01, lon, 1e-9)
		assert.InDelta(t, 52.23, lat, 1e-9)
	})
}

func TestTransform_ApplyInvert(t *testing.T) {
	tr := Transform{X: 30, Y: -20, K: 4}
	s := tr.Apply(Point{X: 10, Y: 5})
	assert.Equal(t, Point{X: 70, Y: 0}, s)
	assert.Equal(t, Point{X: 10, Y: 5}, tr.Invert(s))
}

func newModel(t *testing.T) *ZoomModel {
	t.Helper()
	z, err := NewZoomModel(DefaultZoomConfig())
	require.NoError(t, err)
	return z
}

func assertWithinBounds(t *testing.T, cfg ZoomConfig, tr Transform) {
	t.Helper()
	const tol = 1e-6
	assert.GreaterOrEqual(t, tr.K, cfg.MinScale)
	assert.LessOrEqual(t, tr.K, cfg.MaxScale)

	tl := tr.Invert(Point{})
	br := tr.Invert(Point{X: cfg.Viewport.W, Y: cfg.Viewport.H})
	assert.GreaterOrEqual(t, tl.X, cfg.Extent.Min[0]-tol)
	assert.GreaterOrEqual(t, tl.Y, cfg.Extent.Min[1]-tol)
	assert.LessOrEqual(t, br.X, cfg.Extent.Max[0]+tol)
	assert.LessOrEqual(t, br.Y, cfg.Extent.Max[1]+tol)
}

func TestZoomModel_StartsAtIdentity(t *testing.T) {
	z := newModel(t)
	assert.Equal(t, Identity, z.Current())
}

func TestZoomModel_AnchorInvariance(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		anchor Point
	}{
		{"zoom in at centre", 2, Point{X: 400, Y: 300}},
		{"zoom in off centre", 3, Point{X: 100, Y: 50}},
		{"deep zoom", 40, Point{X: 612, Y: 233}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := newModel(t)
			before := z.Current().Invert(tt.anchor)
			after := z.Apply(Zoom(tt.factor, tt.anchor))
			got := after.Invert(tt.anchor)
			assert.InDelta(t, before.X, got.X, 1e-9)
			assert.InDelta(t, before.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.factor, after.K, 1e-12)
		})
	}
}

func TestZoomModel_AnchorInvarianceAfterPan(t *testing.T) {
	z := newModel(t)
	z.Apply(Zoom(4, Point{X: 400, Y: 300}))
	z.Apply(Pan(-120, 80))

	anchor := Point{X: 250, Y: 410}
	before := z.Current().Invert(anchor)
	got := z.Apply(Zoom(1.5, anchor)).Invert(anchor)
	assert.InDelta(t, before.X, got.X, 1e-9)
	assert.InDelta(t, before.Y, got.Y, 1e-9)
}

func TestZoomModel_ScaleClamped(t *testing.T) {
	z := newModel(t)
	assert.InDelta(t, 0.7, z.Apply(Zoom(0.01, Point{})).K, eps)

	z.Reset()
	for range 20 {
		z.Apply(Zoom(10, Point{X: 400, Y: 300}))
	}
	assert.InDelta(t, 100, z.Current().K, eps)
}

func TestZoomModel_ZoomAtMaxScaleDoesNotDrift(t *testing.T) {
	z := newModel(t)
	for range 5 {
		z.Apply(Zoom(10, Point{X: 400, Y: 300}))
	}
	before := z.Current()
	after := z.Apply(Zoom(2, Point{X: 10, Y: 10}))
	assert.InDelta(t, before.K, after.K, eps)
	assert.InDelta(t, before.X, after.X, 1e-6)
	assert.InDelta(t, before.Y, after.Y, 1e-6)
}

func TestZoomModel_PanClampedToExtent(t *testing.T) {
	z := newModel(t)
	assert.InDelta(t, 500, z.Apply(Pan(1000, 0)).X, eps)

	z.Reset()
	assert.InDelta(t, -500, z.Apply(Pan(-5000, 0)).X, eps)

	z.Reset()
	got := z.Apply(Pan(0, 10_000))
	assert.InDelta(t, 300, got.Y, eps)
}

func TestZoomModel_InvariantHoldsAfterEveryGesture(t *testing.T) {
	z := newModel(t)
	cfg := z.Config()
	r := rand.New(rand.NewPCG(7, 11))

	for i := range 2000 {
		var g Gesture
		if r.IntN(2) == 0 {
			g = Pan(r.Float64()*1000-500, r.Float64()*1000-500)
		} else {
			anchor := Point{X: r.Float64() * cfg.Viewport.W, Y: r.Float64() * cfg.Viewport.H}
			g = Zoom(math.Pow(2, r.Float64()*6-3), anchor)
		}
		tr := z.Apply(g)
		if !assert.Equal(t, tr, z.Current(), "step %d", i) {
			return
		}
		assertWithinBounds(t, cfg, tr)
	}
}

func TestZoomModel_OversizedWindowIsCentred(t *testing.T) {
	cfg := DefaultZoomConfig()
	cfg.Extent = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{400, 300}}
	z, err := NewZoomModel(cfg)
	require.NoError(t, err)

	tr := z.Apply(Zoom(0.5, Point{}))
	tl := tr.Invert(Point{})
	br := tr.Invert(Point{X: cfg.Viewport.W, Y: cfg.Viewport.H})
	assert.InDelta(t, 200, (tl.X+br.X)/2, 1e-9)
	assert.InDelta(t, 150, (tl.Y+br.Y)/2, 1e-9)
}

func TestZoomModel_IgnoresInvalidGestures(t *testing.T) {
	z := newModel(t)
	z.Apply(Zoom(2, Point{X: 400, Y: 300}))
	before := z.Current()

	for _, g := range []Gesture{
		Zoom(0, Point{}),
		Zoom(-1, Point{}),
		Zoom(math.NaN(), Point{}),
		Zoom(2, Point{X: math.Inf(1)}),
		Pan(math.NaN(), 0),
		{},
	} {
		assert.Equal(t, before, z.Apply(g))
	}
}

func TestZoomConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultZoomConfig().Validate())

	bad := []func(*ZoomConfig){
		func(c *ZoomConfig) { c.MinScale = 0 },
		func(c *ZoomConfig) { c.MaxScale = 0.5 },
		func(c *ZoomConfig) { c.Extent = orb.Bound{} },
		func(c *ZoomConfig) { c.Viewport = Size{W: 0, H: 600} },
	}
	for i, mutate := range bad {
		cfg := DefaultZoomConfig()
		mutate(&cfg)
		_, err := NewZoomModel(cfg)
		assert.ErrorIs(t, err, ErrInvalidZoomConfig, "case %d", i)
	}
}

func TestWheelFactor(t *testing.T) {
	assert.InDelta(t, 1, WheelFactor(0, WheelPixel, false), eps)
	assert.InDelta(t, math.Pow(2, 0.2), WheelFactor(-100, WheelPixel, false), eps)
	assert.InDelta(t, math.Pow(2, -0.15), WheelFactor(3, WheelLine, false), eps)
	assert.InDelta(t, 0.5, WheelFactor(1, WheelPage, false), eps)
	assert.InDelta(t, math.Pow(2, 2), WheelFactor(-100, WheelPixel, true), eps)
}

func TestPinchAndDoubleClick(t *testing.T) {
	g := Pinch(Point{X: 0, Y: 0}, Point{X: 100, Y: 0}, Point{X: 0, Y: 0}, Point{X: 200, Y: 0})
	assert.Equal(t, GestureZoom, g.Kind)
	assert.InDelta(t, 2, g.Factor, eps)
	assert.Equal(t, Point{X: 100, Y: 0}, g.Anchor)

	assert.InDelta(t, 1, Pinch(Point{}, Point{}, Point{}, Point{X: 1}).Factor, eps)
	assert.InDelta(t, 2, DoubleClick(Point{}, false).Factor, eps)
	assert.InDelta(t, 0.5, DoubleClick(Point{}, true).Factor, eps)
}

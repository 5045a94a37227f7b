package render

import (
	"image/color"
	"math"
)

// DefaultPriceCeiling is the price (PLN) at which marker color saturates.
const DefaultPriceCeiling = 1_000_000

var (
	// LowPrice is the marker color at price 0.
	LowPrice = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	// HighPrice is the marker color at and above the price ceiling.
	HighPrice = color.RGBA{R: 220, G: 0, B: 0, A: 255}
)

// Style holds the paint parameters. Widths and radii are nominal on-screen pixels;
// they are divided by the zoom factor in world space so they do not grow with zoom.
type Style struct {
	Background     color.RGBA
	BoundaryFill   color.RGBA
	BoundaryStroke color.RGBA
	BoundaryWidth  float64

	MarkerRadius float64
	MarkerStroke color.RGBA
	MarkerWidth  float64

	PriceCeiling float64
}

// DefaultStyle matches the map's look: grey land with a black hairline and 5px markers.
func DefaultStyle() Style {
	return Style{
		Background:     color.RGBA{},
		BoundaryFill:   color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
		BoundaryStroke: color.RGBA{A: 0xff},
		BoundaryWidth:  0.5,
		MarkerRadius:   5,
		MarkerStroke:   color.RGBA{A: 0xff},
		MarkerWidth:    1,
		PriceCeiling:   DefaultPriceCeiling,
	}
}

// PriceColor interpolates between LowPrice and HighPrice by clamp(price/ceiling, 0, 1).
// Prices above the ceiling saturate to HighPrice, as does every price when the
// ceiling is not positive.
func PriceColor(price, ceiling float64) color.RGBA {
	t := 1.0
	if ceiling > 0 {
		t = price / ceiling
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: lerp(LowPrice.R, HighPrice.R, t),
		G: lerp(LowPrice.G, HighPrice.G, t),
		B: lerp(LowPrice.B, HighPrice.B, t),
		A: 255,
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

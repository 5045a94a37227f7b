package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceColor(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		ceiling float64
		want    color.RGBA
	}{
		{"zero", 0, DefaultPriceCeiling, LowPrice},
		{"half", 500_000, DefaultPriceCeiling, color.RGBA{R: 110, G: 100, B: 0, A: 255}},
		{"at ceiling", DefaultPriceCeiling, DefaultPriceCeiling, HighPrice},
		{"above ceiling", 2_000_000, DefaultPriceCeiling, HighPrice},
		{"negative", -10, DefaultPriceCeiling, LowPrice},
		{"nan", math.NaN(), DefaultPriceCeiling, LowPrice},
		{"zero ceiling", 1, 0, HighPrice},
		{"negative ceiling", 1, -5, HighPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceColor(tt.price, tt.ceiling))
		})
	}
}

func TestPriceColor_Monotonic(t *testing.T) {
	prev := PriceColor(0, DefaultPriceCeiling)
	for p := 10_000.0; p <= 1_200_000; p += 10_000 {
		c := PriceColor(p, DefaultPriceCeiling)
		assert.GreaterOrEqual(t, c.R, prev.R, "red at %g", p)
		assert.LessOrEqual(t, c.G, prev.G, "green at %g", p)
		prev = c
	}
}

func TestPriceColor_CheapAndDearDiffer(t *testing.T) {
	cheap := PriceColor(100_000, DefaultPriceCeiling)
	dear := PriceColor(2_000_000, DefaultPriceCeiling)
	assert.NotEqual(t, cheap, dear)
	assert.Equal(t, HighPrice, dear)

	// Channels that differ between the endpoints sit strictly inside the ramp.
	assert.Greater(t, cheap.R, LowPrice.R)
	assert.Less(t, cheap.R, HighPrice.R)
	assert.Less(t, cheap.G, LowPrice.G)
	assert.Greater(t, cheap.G, HighPrice.G)
	assert.Equal(t, LowPrice.B, cheap.B)
	assert.Greater(t, cheap.G, cheap.R)
}

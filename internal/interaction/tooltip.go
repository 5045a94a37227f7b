package interaction

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
	"github.com/couchcryptid/apartment-price-map/internal/geo"
)

// PLNToUSD is the fixed conversion rate used for the USD price line.
const PLNToUSD = 0.260968

var printer = message.NewPrinter(language.English)

// Tooltip is the hover readout for one record, anchored at the pointer's screen position.
type Tooltip struct {
	Record   domain.Record `json:"record"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	PricePLN string        `json:"pricePln"`
	PriceUSD string        `json:"priceUsd"`
	// PerSquareMeter is empty when the area is unknown.
	PerSquareMeter string            `json:"perSquareMeter,omitempty"`
	Amenities      map[string]string `json:"amenities"`
}

// NewTooltip formats rec for display at the screen point p.
func NewTooltip(rec domain.Record, p geo.Point) Tooltip {
	tt := Tooltip{
		Record:   rec,
		X:        p.X,
		Y:        p.Y,
		PricePLN: FormatPLN(rec.Price),
		PriceUSD: FormatUSD(rec.Price * PLNToUSD),
		Amenities: map[string]string{
			"parkingSpace": yesNo(rec.ParkingSpace),
			"balcony":      yesNo(rec.Balcony),
			"elevator":     yesNo(rec.Elevator),
			"security":     yesNo(rec.Security),
			"storageRoom":  yesNo(rec.StorageRoom),
		},
	}
	if v, ok := rec.PricePerSquareMeter(); ok {
		tt.PerSquareMeter = FormatPLN(v) + "/m²"
	}
	return tt
}

// FormatPLN renders an amount as "1,234,567.00 zł".
func FormatPLN(v float64) string {
	return printer.Sprintf("%.2f zł", v)
}

// FormatUSD renders an amount as "$1,234.57".
func FormatUSD(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func yesNo(a domain.Amenity) string {
	if a.Present() {
		return "yes"
	}
	return "no"
}

package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

// jsonRecord mirrors domain.Record but lets the loader tell a missing price or
// position from zero.
type jsonRecord struct {
	domain.Record
	Lon   *float64 `json:"longitude"`
	Lat   *float64 `json:"latitude"`
	Price *float64 `json:"price"`
}

// ReadJSON parses a JSON array of listings using the CSV column names as keys. Every
// record gets bucket.
func ReadJSON(r io.Reader, bucket string) ([]domain.Record, int, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decode json: %w", err)
	}

	out := make([]domain.Record, 0, len(raw))
	var skipped int
	for _, jr := range raw {
		if !usable(jr.Lon) || !usable(jr.Lat) || !usable(jr.Price) {
			skipped++
			continue
		}
		rec := jr.Record
		rec.Lon, rec.Lat, rec.Price = *jr.Lon, *jr.Lat, *jr.Price
		rec.City = normalizeCity(rec.City)
		rec.Bucket = bucket
		out = append(out, rec)
	}
	return out, skipped, nil
}

func usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

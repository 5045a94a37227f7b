package domain

import (
	"errors"
	"fmt"
	"math"
)

// AllCities disables the city predicate.
const AllCities = "All"

// Buckets is the fixed, ordered set of observation months. FilterParams.Bucket indexes it.
var Buckets = []string{
	"2023-08", "2023-09", "2023-10", "2023-11", "2023-12",
	"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06",
}

// Cities lists the cities offered by the city selector, in display order.
var Cities = []string{
	"Gdynia", "Gdańsk", "Szczecin", "Białystok", "Bydgoszcz",
	"Poznań", "Warszawa", "Łódź", "Radom", "Lublin",
	"Wrocław", "Częstochowa", "Katowice", "Kraków", "Rzeszów",
}

var (
	ErrBucketOutOfRange = errors.New("bucket index out of range")
	ErrInvertedRange    = errors.New("price range is inverted")
	ErrInvalidRange     = errors.New("price range bound is NaN")
)

// FilterParams is an immutable snapshot of the selector state.
type FilterParams struct {
	City    string  `json:"city"`
	PriceLo float64 `json:"priceLo"`
	PriceHi float64 `json:"priceHi"`
	Bucket  int     `json:"bucket"`
}

// DefaultFilterParams selects every city and price in the most recent bucket.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		City:    AllCities,
		PriceLo: 0,
		PriceHi: math.Inf(1),
		Bucket:  len(Buckets) - 1,
	}
}

// BucketIndex returns the position of label in Buckets, or -1.
func BucketIndex(label string) int {
	for i, b := range Buckets {
		if b == label {
			return i
		}
	}
	return -1
}

// Validate reports why p can never match a record. A nil error does not imply a
// non-empty selection.
func (p FilterParams) Validate() error {
	if p.Bucket < 0 || p.Bucket >= len(Buckets) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrBucketOutOfRange, p.Bucket, len(Buckets)-1)
	}
	if math.IsNaN(p.PriceLo) || math.IsNaN(p.PriceHi) {
		return ErrInvalidRange
	}
	if p.PriceLo > p.PriceHi {
		return fmt.Errorf("%w: %g > %g", ErrInvertedRange, p.PriceLo, p.PriceHi)
	}
	return nil
}

// Matches applies the bucket, city and inclusive price predicates to one record.
func (p FilterParams) Matches(r Record) bool {
	if p.Bucket < 0 || p.Bucket >= len(Buckets) || r.Bucket != Buckets[p.Bucket] {
		return false
	}
	if p.City != AllCities && r.City != p.City {
		return false
	}
	return p.PriceLo <= r.Price && r.Price <= p.PriceHi
}

// SelectVisible returns the records matching p, preserving their relative order.
// Invalid parameters select nothing. The input slice is never modified.
func SelectVisible(records []Record, p FilterParams) []Record {
	if len(records) == 0 || p.Validate() != nil {
		return []Record{}
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if p.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

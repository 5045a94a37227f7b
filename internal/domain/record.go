package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Amenity is a boolean-like listing attribute that may be missing from the source data.
type Amenity int

const (
	AmenityUnknown Amenity = iota
	AmenityNo
	AmenityYes
)

// ParseAmenity maps the dataset's "yes"/"no" strings to an Amenity. Anything else,
// including the empty string, is unknown.
func ParseAmenity(s string) Amenity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return AmenityYes
	case "no":
		return AmenityNo
	default:
		return AmenityUnknown
	}
}

// Present reports whether the amenity is known to exist. Unknown is treated as absent.
func (a Amenity) Present() bool { return a == AmenityYes }

func (a Amenity) String() string {
	switch a {
	case AmenityYes:
		return "yes"
	case AmenityNo:
		return "no"
	default:
		return "unknown"
	}
}

func (a Amenity) MarshalJSON() ([]byte, error) {
	if a == AmenityUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

func (a *Amenity) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse amenity: %w", err)
	}
	if s == nil {
		*a = AmenityUnknown
		return nil
	}
	*a = ParseAmenity(*s)
	return nil
}

// Distances holds the point-of-interest distances in kilometres. Nil means not reported.
type Distances struct {
	Centre       *float64 `json:"centreDistance,omitempty"`
	School       *float64 `json:"schoolDistance,omitempty"`
	Clinic       *float64 `json:"clinicDistance,omitempty"`
	PostOffice   *float64 `json:"postOfficeDistance,omitempty"`
	Kindergarten *float64 `json:"kindergartenDistance,omitempty"`
	Restaurant   *float64 `json:"restaurantDistance,omitempty"`
	College      *float64 `json:"collegeDistance,omitempty"`
	Pharmacy     *float64 `json:"pharmacyDistance,omitempty"`
}

// Amenities groups the yes/no listing flags.
type Amenities struct {
	ParkingSpace Amenity `json:"hasParkingSpace"`
	Balcony      Amenity `json:"hasBalcony"`
	Elevator     Amenity `json:"hasElevator"`
	Security     Amenity `json:"hasSecurity"`
	StorageRoom  Amenity `json:"hasStorageRoom"`
}

// Record is one priced apartment listing. Position, price and bucket are always set;
// every other attribute may be unknown (empty string or nil pointer).
type Record struct {
	ID               string `json:"id"`
	City             string `json:"city"`
	Type             string `json:"type,omitempty"`
	Ownership        string `json:"ownership,omitempty"`
	BuildingMaterial string `json:"buildingMaterial,omitempty"`
	Condition        string `json:"condition,omitempty"`

	SquareMeters *float64 `json:"squareMeters,omitempty"`
	Rooms        *float64 `json:"rooms,omitempty"`
	Floor        *float64 `json:"floor,omitempty"`
	FloorCount   *float64 `json:"floorCount,omitempty"`
	BuildYear    *float64 `json:"buildYear,omitempty"`
	POICount     *float64 `json:"poiCount,omitempty"`

	Distances
	Amenities

	Lon   float64 `json:"longitude"`
	Lat   float64 `json:"latitude"`
	Price float64 `json:"price"`

	// Bucket is the observation month label, one of Buckets.
	Bucket string `json:"bucket"`
}

// PricePerSquareMeter returns the unit price, or false when the area is unknown or zero.
func (r Record) PricePerSquareMeter() (float64, bool) {
	if r.SquareMeters == nil || *r.SquareMeters <= 0 {
		return 0, false
	}
	return r.Price / *r.SquareMeters, true
}

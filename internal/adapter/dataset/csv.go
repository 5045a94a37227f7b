package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

var requiredColumns = []string{"id", "city", "latitude", "longitude", "price"}

// ReadCSV parses a snapshot with a header row. Every record gets bucket. Rows missing a
// usable position or price are skipped.
func ReadCSV(r io.Reader, bucket string) ([]domain.Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("csv: missing header")
		}
		return nil, 0, fmt.Errorf("csv header: %w", err)
	}
	idx := makeIndex(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, 0, fmt.Errorf("csv: missing column %q", col)
		}
	}

	var (
		out     []domain.Record
		skipped int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("csv row: %w", err)
		}
		rec, ok := parseRow(row, idx, bucket)
		if !ok {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func getField(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optFloat(row []string, idx map[string]int, name string) *float64 {
	s := getField(row, idx, name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseRow(row []string, idx map[string]int, bucket string) (domain.Record, bool) {
	lat := optFloat(row, idx, "latitude")
	lon := optFloat(row, idx, "longitude")
	price := optFloat(row, idx, "price")
	if lat == nil || lon == nil || price == nil {
		return domain.Record{}, false
	}

	return domain.Record{
		ID:               getField(row, idx, "id"),
		City:             normalizeCity(getField(row, idx, "city")),
		Type:             getField(row, idx, "type"),
		Ownership:        getField(row, idx, "ownership"),
		BuildingMaterial: getField(row, idx, "buildingMaterial"),
		Condition:        getField(row, idx, "condition"),

		SquareMeters: optFloat(row, idx, "squareMeters"),
		Rooms:        optFloat(row, idx, "rooms"),
		Floor:        optFloat(row, idx, "floor"),
		FloorCount:   optFloat(row, idx, "floorCount"),
		BuildYear:    optFloat(row, idx, "buildYear"),
		POICount:     optFloat(row, idx, "poiCount"),

		Distances: domain.Distances{
			Centre:       optFloat(row, idx, "centreDistance"),
			School:       optFloat(row, idx, "schoolDistance"),
			Clinic:       optFloat(row, idx, "clinicDistance"),
			PostOffice:   optFloat(row, idx, "postOfficeDistance"),
			Kindergarten: optFloat(row, idx, "kindergartenDistance"),
			Restaurant:   optFloat(row, idx, "restaurantDistance"),
			College:      optFloat(row, idx, "collegeDistance"),
			Pharmacy:     optFloat(row, idx, "pharmacyDistance"),
		},
		Amenities: domain.Amenities{
			ParkingSpace: domain.ParseAmenity(getField(row, idx, "hasParkingSpace")),
			Balcony:      domain.ParseAmenity(getField(row, idx, "hasBalcony")),
			Elevator:     domain.ParseAmenity(getField(row, idx, "hasElevator")),
			Security:     domain.ParseAmenity(getField(row, idx, "hasSecurity")),
			StorageRoom:  domain.ParseAmenity(getField(row, idx, "hasStorageRoom")),
		},

		Lon:    *lon,
		Lat:    *lat,
		Price:  *price,
		Bucket: bucket,
	}, true
}

package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/apartment-price-map/internal/domain"
)

const csvHeader = "id,city,type,squareMeters,rooms,floor,floorCount,buildYear,latitude,longitude," +
	"centreDistance,poiCount,schoolDistance,clinicDistance,postOfficeDistance,kindergartenDistance," +
	"restaurantDistance,collegeDistance,pharmacyDistance,ownership,buildingMaterial,condition," +
	"hasParkingSpace,hasBalcony,hasElevator,hasSecurity,hasStorageRoom,price\n"

const csvRows = "f8524536,szczecin,blockOfFlats,63.0,3.0,4.0,10.0,1980.0,53.3789332,14.6252957," +
	"6.53,9.0,0.118,1.389,0.628,0.105,1.652,,0.413,condominium,concreteSlab,," +
	"yes,yes,yes,no,yes,415000\n" +
	"no-position,lodz,,,,,,,,19.45,,,,,,,,,,,,,,,,,,300000\n" +
	"0a5e4b2c,Łódź,tenement,40,,,,,51.77,19.46,,,,,,,,,,,,,no,,,,,not-a-price\n" +
	"7cd1,krakow,,48.5,2,,,,50.06,19.94,,,,,,,,,,,,premium,,,,,,899000\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(v float64) *float64 { return &v }

func TestReadCSV(t *testing.T) {
	recs, skipped, err := ReadCSV(strings.NewReader(csvHeader+csvRows), "2024-06")
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, recs, 2)

	want := domain.Record{
		ID:               "f8524536",
		City:             "Szczecin",
		Type:             "blockOfFlats",
		Ownership:        "condominium",
		BuildingMaterial: "concreteSlab",
		SquareMeters:     ptr(63),
		Rooms:            ptr(3),
		Floor:            ptr(4),
		FloorCount:       ptr(10),
		BuildYear:        ptr(1980),
		POICount:         ptr(9),
		Distances: domain.Distances{
			Centre:       ptr(6.53),
			School:       ptr(0.118),
			Clinic:       ptr(1.389),
			PostOffice:   ptr(0.628),
			Kindergarten: ptr(0.105),
			Restaurant:   ptr(1.652),
			Pharmacy:     ptr(0.413),
		},
		Amenities: domain.Amenities{
			ParkingSpace: domain.AmenityYes,
			Balcony:      domain.AmenityYes,
			Elevator:     domain.AmenityYes,
			Security:     domain.AmenityNo,
			StorageRoom:  domain.AmenityYes,
		},
		Lon:    14.6252957,
		Lat:    53.3789332,
		Price:  415000,
		Bucket: "2024-06",
	}
	if diff := cmp.Diff(want, recs[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Kraków", recs[1].City)
	assert.Nil(t, recs[1].College)
	assert.Equal(t, domain.AmenityUnknown, recs[1].Elevator)
	assert.Equal(t, "premium", recs[1].Condition)
}

func TestReadCSV_HeaderErrors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), "2024-06")
	require.Error(t, err)

	_, _, err = ReadCSV(strings.NewReader("id,city,latitude,longitude\n1,radom,51.4,21.15\n"), "2024-06")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	recs, _, err := ReadCSV(strings.NewReader("\ufeffid,city,latitude,longitude,price\n1,radom,51.4,21.15,250000\n"), "2024-01")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].ID)
	assert.Equal(t, "Radom", recs[0].City)
}

func TestReadJSON(t *testing.T) {
	in := `[
	  {"id":"a","city":"Szczecin","latitude":53.37,"longitude":14.62,"price":415000,
	   "buildYear":null,"hasParkingSpace":"yes","hasBalcony":null,"bucket":"ignored"},
	  {"id":"no-price","city":"gdansk","latitude":54.35,"longitude":18.64},
	  {"id":"b","city":"gdansk","latitude":54.35,"longitude":18.64,"price":0}
	]`
	recs, skipped, err := ReadJSON(strings.NewReader(in), "2023-08")
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, recs, 2)

	assert.Equal(t, "a", recs[0].ID)
	assert.InDelta(t, 415000, recs[0].Price, 0)
	assert.InDelta(t, 14.62, recs[0].Lon, 0)
	assert.Nil(t, recs[0].BuildYear)
	assert.Equal(t, domain.AmenityYes, recs[0].ParkingSpace)
	assert.Equal(t, domain.AmenityUnknown, recs[0].Balcony)
	assert.Equal(t, "2023-08", recs[0].Bucket)

	assert.Equal(t, "Gdańsk", recs[1].City)
	assert.InDelta(t, 0, recs[1].Price, 0)

	_, _, err = ReadJSON(strings.NewReader(`{"id":"x"}`), "2023-08")
	require.Error(t, err)
}

func TestBucketFromPath(t *testing.T) {
	got, err := BucketFromPath("/data/apartments_pl_2024_03.csv")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", got)

	_, err = BucketFromPath("apartments_pl_2022_01.csv")
	require.ErrorIs(t, err, ErrUnknownBucket)

	_, err = BucketFromPath("apartments.csv")
	require.ErrorIs(t, err, ErrUnknownBucket)
}

func TestNormalizeCity(t *testing.T) {
	for _, c := range domain.Cities {
		assert.Equal(t, c, normalizeCity(strings.ToLower(c)), c)
		assert.Equal(t, c, normalizeCity(foldCity(c)), c)
	}
	assert.Equal(t, "Łódź", normalizeCity("lodz"))
	assert.Equal(t, "Częstochowa", normalizeCity(" czestochowa "))
	assert.Equal(t, "Sopot", normalizeCity("Sopot"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()
	june := writeFile(t, dir, "apartments_pl_2024_06.csv", csvHeader+csvRows)
	may := writeFile(t, dir, "apartments_pl_2024_05.json",
		`[{"id":"m","city":"warszawa","latitude":52.2,"longitude":21.0,"price":700000}]`)

	l := NewLoader(discardLogger())
	recs, err := l.LoadAll(context.Background(), []string{june, may})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"f8524536", "7cd1", "m"}, ids)
	assert.Equal(t, "2024-05", recs[2].Bucket)
	assert.Equal(t, "Warszawa", recs[2].City)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(discardLogger())

	_, err := l.LoadAll(context.Background(), []string{filepath.Join(dir, "apartments_pl_2024_06.csv")})
	require.ErrorIs(t, err, os.ErrNotExist)

	txt := writeFile(t, dir, "apartments_pl_2024_06.txt", "")
	_, err = l.LoadFile(txt)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	old := writeFile(t, dir, "apartments_pl_2020_01.csv", csvHeader)
	_, err = l.LoadFile(old)
	require.ErrorIs(t, err, ErrUnknownBucket)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	good := writeFile(t, dir, "apartments_pl_2024_01.csv", csvHeader)
	_, err = l.LoadAll(ctx, []string{good})
	require.ErrorIs(t, err, context.Canceled)
}

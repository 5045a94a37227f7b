// Package domain models the apartment listing data shown on the price map and the
// filter that decides which listings are drawn.
//
// # Data Source
//
// Listings come from monthly snapshots of Polish apartment sale offers, one CSV per
// month named apartments_pl_YYYY_MM.csv. Each row becomes one [Record]; the month in
// the filename becomes the record's bucket label ("2024-03"). The region outline is a
// GeoJSON FeatureCollection of Poland's border, loaded into a [Boundary].
//
// # Data Conventions
//
// Coordinates are WGS-84 longitude/latitude in degrees. Prices are in PLN.
//
// Missing values:
//
//	Numeric columns (squareMeters, buildYear, distances, ...) may be empty; they are
//	stored as nil pointers. Categorical columns (ownership, condition, ...) may be
//	empty; they are stored as "". Amenity flags take "yes", "no" or empty, mapped to
//	AmenityYes, AmenityNo and AmenityUnknown.
//
// Unknown amenities are presented the same as "no" (see [Amenity.Present]). The data
// keeps the distinction so the presentation rule can change without reloading.
//
// # Filtering
//
// [SelectVisible] keeps a record when all of these hold:
//
//	bucket:  record.Bucket == Buckets[params.Bucket]     (always active)
//	city:    params.City == AllCities || record.City == params.City
//	price:   params.PriceLo <= record.Price <= params.PriceHi   (inclusive)
//
// Out-of-range bucket indexes and inverted or NaN price ranges select nothing rather
// than failing, so the map stays interactive while controls are mid-edit.
package domain

package entity

import "time"

// Listing is a raw listing that survived normalization: price, area and
// coordinate are present and the description is long enough.
type Listing struct {
	ID        string
	URL       string
	Title     string
	Price     int
	Area      int
	Bedrooms  *int
	Bathrooms *float64

	Coordinate Coordinate
	// CacheCoordinate is Coordinate rounded for travel cache lookups.
	CacheCoordinate Coordinate

	PricePerArea float64

	PostedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrichedListing carries travel data for every (destination, mode) pair.
// A missing key or a nil field means the lookup failed.
type EnrichedListing struct {
	Listing
	Travel map[TravelKey]TravelInfo
}

type NormalizeReport struct {
	Input            int
	SmallDescription int
	ZeroArea         int
	ZeroPrice        int
	Incomplete       int
	// Duplicate — повтор ID, который уже прошёл нормализацию.
	Duplicate int
	Output    int
}

type EnrichReport struct {
	Lookups       int
	CacheHits     int
	ProviderCalls int
	Failures      int
	CellsNulled   int
}

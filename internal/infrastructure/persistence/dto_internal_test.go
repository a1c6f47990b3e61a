package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rent_radar/internal/domain/entity"
)

func ptr(v float64) *float64 {
	return &v
}

func TestScoredListingSchema(t *testing.T) {
	rq := require.New(t)

	walkOffice := entity.TravelKey{Destination: "main_office", Mode: entity.ModeWalking}
	transitOffice := entity.TravelKey{Destination: "main_office", Mode: entity.ModeTransit}
	beds := 2

	listing := entity.ScoredListing{
		EnrichedListing: entity.EnrichedListing{
			Listing: entity.Listing{
				ID:           "7712",
				URL:          "https://sfbay.example.org/apa/7712.html",
				Title:        "Sunny 2br",
				Price:        3400,
				Area:         850,
				Bedrooms:     &beds,
				Coordinate:   entity.Coordinate{Lat: 37.7612, Lng: -122.4231},
				PricePerArea: 4,
				PostedAt:     time.Date(2024, 3, 4, 9, 12, 0, 0, time.UTC),
			},
			Travel: map[entity.TravelKey]entity.TravelInfo{
				walkOffice:    {DistanceKm: ptr(3.1), DurationMin: ptr(38)},
				transitOffice: {DurationMin: ptr(17)},
			},
		},
		PricePerAreaScore: 0.6,
		ModeScores:        map[entity.TravelKey]float64{walkOffice: 0, transitOffice: 0.59},
		TravelScores:      map[string]float64{"main_office": 0.59},
		Score:             0.595,
	}

	batch := entity.ScoredBatch{
		RunID:     "run-1",
		Profile:   "two-br",
		CreatedAt: time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC),
	}

	schema, err := fromScored(batch, 0, listing, true)
	rq.NoError(err)
	rq.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), schema.Datestr)
	rq.True(schema.Considered)
	rq.True(schema.InTop)
	rq.JSONEq(`{
		"distance_main_office_walking": 3.1,
		"duration_main_office_walking": 38,
		"distance_main_office_transit": null,
		"duration_main_office_transit": 17
	}`, string(schema.Travel))

	got, err := schema.toDomain()
	rq.NoError(err)
	rq.Equal(listing.Travel, got.Travel)
	rq.Equal(listing.ModeScores, got.ModeScores)
	rq.Equal(listing.TravelScores, got.TravelScores)
	rq.InDelta(0.6, got.PricePerAreaScore, 1e-12)
	rq.InDelta(0.595, got.Score, 1e-12)
	rq.Equal(2, *got.Bedrooms)
	rq.Nil(got.Bathrooms)
	rq.Equal(entity.Coordinate{Lat: 37.7612, Lng: -122.4231}, got.CacheCoordinate)
}

func TestParseTravelColumn(t *testing.T) {
	rq := require.New(t)

	key, isDistance, ok := parseTravelColumn("duration_ferry_building_bicycling")
	rq.True(ok)
	rq.False(isDistance)
	rq.Equal(entity.TravelKey{Destination: "ferry_building", Mode: entity.ModeBicycling}, key)

	_, _, ok = parseTravelColumn("duration_office_teleport")
	rq.False(ok)

	_, _, ok = parseTravelColumn("price")
	rq.False(ok)
}

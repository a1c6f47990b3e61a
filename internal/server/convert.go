package server

import (
	"sort"

	"github.com/samber/lo"

	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/rest"
)

func newRESTProfile(p entity.Profile) rest.Profile {
	return rest.Profile{
		Name:  p.Name,
		Title: p.Title,
		Filters: rest.Filters{
			PriceMin:    p.Filters.PriceMin,
			PriceMax:    p.Filters.PriceMax,
			MinBedrooms: p.Filters.MinBedrooms,
			MaxBedrooms: p.Filters.MaxBedrooms,
			MinArea:     p.Filters.MinArea,
			PostedToday: p.Filters.PostedToday,
		},
	}
}

func newRESTListing(l entity.ScoredListing, rank int) rest.Listing {
	travel := lo.MapToSlice(l.Travel, func(k entity.TravelKey, info entity.TravelInfo) rest.Travel {
		return rest.Travel{
			Destination: k.Destination,
			Mode:        k.Mode.String(),
			DistanceKm:  info.DistanceKm,
			DurationMin: info.DurationMin,
			Score:       l.ModeScores[k],
		}
	})

	sort.Slice(travel, func(i, j int) bool {
		if travel[i].Destination != travel[j].Destination {
			return travel[i].Destination < travel[j].Destination
		}
		return travel[i].Mode < travel[j].Mode
	})

	return rest.Listing{
		ID:           l.ID,
		URL:          l.URL,
		Title:        l.Title,
		Price:        l.Price,
		Area:         l.Area,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Lat:          l.Coordinate.Lat,
		Lng:          l.Coordinate.Lng,
		PricePerArea: l.PricePerArea,
		PostedAt:     l.PostedAt,
		Travel:       travel,
		Score:        l.Score,
		Rank:         rank,
	}
}

// newRESTBatch keeps the ranked order; rank is 1-based.
func newRESTBatch(b entity.ScoredBatch) rest.Batch {
	listings := make([]rest.Listing, len(b.Listings))
	byURL := make(map[string]rest.Listing, len(b.Listings))

	for i, l := range b.Listings {
		listings[i] = newRESTListing(l, i+1)
		byURL[l.URL] = listings[i]
	}

	top := lo.FilterMap(b.Top, func(u string, _ int) (rest.Listing, bool) {
		l, ok := byURL[u]
		return l, ok
	})

	return rest.Batch{
		RunID:      b.RunID,
		Profile:    b.Profile,
		CreatedAt:  b.CreatedAt,
		Total:      len(b.Listings),
		Considered: len(b.Considered),
		Top:        top,
		Listings:   listings,
	}
}

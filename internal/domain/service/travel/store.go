package travel

import (
	"context"
	"time"

	"rent_radar/internal/domain/entity"
)

const DefaultMaxAge = 30 * 24 * time.Hour

// CacheKey identifies one provider call. Origin is always the rounded
// listing coordinate.
type CacheKey struct {
	Origin      entity.Coordinate
	Destination entity.Coordinate
	Mode        entity.Mode
}

func (k CacheKey) String() string {
	return k.Origin.String() + "|" + k.Destination.String() + "|" + k.Mode.String()
}

type Entry struct {
	Info      entity.TravelInfo `json:"info"`
	FetchedAt time.Time         `json:"fetched_at"`
}

type Store interface {
	// Get returns false when there is no entry. Freshness is not checked.
	Get(ctx context.Context, key CacheKey) (Entry, bool, error)
	Set(ctx context.Context, key CacheKey, entry Entry) error
}

type FreshnessPolicy struct {
	MaxAge time.Duration
	Now    func() time.Time
}

func DefaultFreshnessPolicy() FreshnessPolicy {
	return FreshnessPolicy{MaxAge: DefaultMaxAge, Now: time.Now}
}

func (p FreshnessPolicy) Fresh(e Entry) bool {
	return p.Now().Sub(e.FetchedAt) < p.MaxAge
}

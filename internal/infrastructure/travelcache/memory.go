package travelcache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"rent_radar/internal/domain/service/travel"
)

// Memory keeps entries in process. Expiry is a memory bound only, the
// freshness decision stays with the enricher's policy.
type Memory struct {
	items *cache.Cache
	ttl   time.Duration
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: cache.New(ttl, time.Hour),
		ttl:   ttl,
	}
}

func (m *Memory) Get(_ context.Context, key travel.CacheKey) (travel.Entry, bool, error) {
	v, ok := m.items.Get(key.String())
	if !ok {
		return travel.Entry{}, false, nil
	}

	return v.(travel.Entry), true, nil //nolint:forcetypeassert // only entries are stored
}

func (m *Memory) Set(_ context.Context, key travel.CacheKey, entry travel.Entry) error {
	m.items.Set(key.String(), entry, m.ttl)
	return nil
}

func (m *Memory) Len() int {
	return m.items.ItemCount()
}

package travelcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"rent_radar/internal/domain/service/travel"
)

const keyPrefix = "rent_radar:travel:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Redis shares the travel cache between processes.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key travel.CacheKey) (travel.Entry, bool, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return travel.Entry{}, false, nil
	}
	if err != nil {
		return travel.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var entry travel.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return travel.Entry{}, false, fmt.Errorf("decode travel entry: %w", err)
	}

	return entry, true, nil
}

func (r *Redis) Set(ctx context.Context, key travel.CacheKey, entry travel.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode travel entry: %w", err)
	}

	if err := r.rdb.Set(ctx, keyPrefix+key.String(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

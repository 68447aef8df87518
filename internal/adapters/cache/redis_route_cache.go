package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hos-logbook-service/internal/domain"
	"hos-logbook-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "logbook:"

// RedisRouteCache stores geocoding and segment results as JSON values with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRouteCache connects to redisURL, in the format
// redis://[:password@]host[:port][/database].
func NewRedisRouteCache(redisURL string, ttl time.Duration) (*RedisRouteCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisRouteCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (r *RedisRouteCache) getJSON(ctx context.Context, key string, out any) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("failed to decode key %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisRouteCache) setJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode key %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (r *RedisRouteCache) GetLocation(ctx context.Context, query string) (c domain.Coordinates, ok bool, err error) {
	defer obs.Time(ctx, "cache.redis.GetLocation")(&err)

	ok, err = r.getJSON(ctx, keyPrefix+"geocode:"+query, &c)
	return c, ok, err
}

func (r *RedisRouteCache) PutLocation(ctx context.Context, query string, c domain.Coordinates) error {
	return r.setJSON(ctx, keyPrefix+"geocode:"+query, c)
}

func (r *RedisRouteCache) GetSegment(ctx context.Context, start, end domain.Coordinates) (_ domain.SegmentRoute, ok bool, err error) {
	defer obs.Time(ctx, "cache.redis.GetSegment")(&err)

	var cs cachedSegment
	ok, err = r.getJSON(ctx, keyPrefix+"segment:"+segmentKey(start, end), &cs)
	if !ok || err != nil {
		return domain.SegmentRoute{}, ok, err
	}

	return domain.SegmentRoute{
		DistanceMiles: cs.DistanceMiles,
		DurationHours: cs.DurationHours,
		Geometry:      cs.Geometry,
	}, true, nil
}

func (r *RedisRouteCache) PutSegment(ctx context.Context, start, end domain.Coordinates, seg domain.SegmentRoute) error {
	return r.setJSON(ctx, keyPrefix+"segment:"+segmentKey(start, end), cachedSegment{
		DistanceMiles: seg.DistanceMiles,
		DurationHours: seg.DurationHours,
		Geometry:      seg.Geometry,
	})
}

// Ping checks if Redis is reachable.
func (r *RedisRouteCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisRouteCache) Close() error {
	return r.client.Close()
}

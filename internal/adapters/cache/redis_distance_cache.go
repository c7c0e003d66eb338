package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-optimizer-service/internal/platform/obs"
	"itinerary-optimizer-service/internal/ports"
)

const redisKeyPrefix = "distance:"

// RedisDistanceCache shares road-distance results between service instances.
// Every entry expires after ttl, so the cache never outlives its data source.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) (*RedisDistanceCache, error) {
	if client == nil {
		return nil, errors.New("redis distance cache: client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("redis distance cache: ttl must be positive, got %s", ttl)
	}
	return &RedisDistanceCache{client: client, ttl: ttl}, nil
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func (r *RedisDistanceCache) Get(ctx context.Context, key string) (_ ports.DistanceResult, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.redis.Get")(&err)

	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache key=%q: %w", key, err)
	}

	res, err := decodeResult(raw)
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get distance cache key=%q: %w", key, err)
	}
	return res, true, nil
}

func (r *RedisDistanceCache) Put(ctx context.Context, key string, result ports.DistanceResult) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("insert distance cache: empty key")
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, encodeResult(result), r.ttl).Err(); err != nil {
		return fmt.Errorf("insert distance cache key=%q: %w", key, err)
	}
	return nil
}

func encodeResult(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + ":" + strconv.Itoa(r.DurationSeconds)
}

func decodeResult(raw string) (ports.DistanceResult, error) {
	meters, seconds, ok := strings.Cut(raw, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed cache value %q", raw)
	}

	m, err := strconv.Atoi(meters)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed cache meters %q: %w", meters, err)
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed cache seconds %q: %w", seconds, err)
	}

	return ports.DistanceResult{DistanceMeters: m, DurationSeconds: s}, nil
}

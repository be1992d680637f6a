package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

// PayloadKeyFormat namespaces cached payloads in Redis.
const PayloadKeyFormat = "agriweather:payload:v1:%s"

// RedisClient is the subset of *redis.Client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore caches payloads in Redis so several dashboard instances share them.
type RedisStore struct {
	client RedisClient
	clock  clockwork.Clock
	maxAge time.Duration
}

// NewRedisClient connects to Redis at addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisStore creates a RedisStore. maxAge becomes the key TTL (0 = no expiry).
func NewRedisStore(client RedisClient, maxAge time.Duration, clock clockwork.Clock) *RedisStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RedisStore{client: client, clock: clock, maxAge: maxAge}
}

// SavePayload stores payload as JSON under key.
func (s *RedisStore) SavePayload(ctx context.Context, key string, payload weather.AdvisoryPayload) error {
	data, err := json.Marshal(weather.CachedPayload{Payload: payload, FetchedAt: s.clock.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", key, err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(PayloadKeyFormat, key), data, s.maxAge).Err(); err != nil {
		return fmt.Errorf("failed to set payload in redis: %w", err)
	}
	return nil
}

// GetPayload loads the payload stored under key.
func (s *RedisStore) GetPayload(ctx context.Context, key string) (weather.CachedPayload, error) {
	str, err := s.client.Get(ctx, fmt.Sprintf(PayloadKeyFormat, key)).Result()
	if errors.Is(err, redis.Nil) {
		return weather.CachedPayload{}, ErrNotFound
	}
	if err != nil {
		return weather.CachedPayload{}, fmt.Errorf("failed to get payload from redis: %w", err)
	}

	var cp weather.CachedPayload
	if err := json.Unmarshal([]byte(str), &cp); err != nil {
		return weather.CachedPayload{}, fmt.Errorf("failed to unmarshal cached payload: %w", err)
	}
	return cp, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

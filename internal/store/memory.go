package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no payload is cached for a key.
	ErrNotFound = errors.New("no advisory payload cached for key")
)

// MemoryStore is a concurrency-safe in-memory payload cache.
type MemoryStore struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	// key: request key, value: last good payload
	data map[string]weather.CachedPayload

	// retention configuration
	maxEntries int           // max number of cached payloads (0 = unlimited)
	maxAge     time.Duration // max age of a payload (0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited. A nil clock means real time.
func NewMemoryStore(maxEntries int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		clock:      clock,
		data:       make(map[string]weather.CachedPayload),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// SavePayload stores payload under key and enforces retention.
func (s *MemoryStore) SavePayload(_ context.Context, key string, payload weather.AdvisoryPayload) error {
	now := s.clock.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = weather.CachedPayload{Payload: payload, FetchedAt: now}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		for k, cp := range s.data {
			if cp.FetchedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, evicting the oldest entries first.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, cp := range s.data {
			if oldestKey == "" || cp.FetchedAt.Before(oldest) {
				oldestKey, oldest = k, cp.FetchedAt
			}
		}
		delete(s.data, oldestKey)
	}
	return nil
}

// GetPayload returns the payload cached under key if it is within retention.
func (s *MemoryStore) GetPayload(_ context.Context, key string) (weather.CachedPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.data[key]
	if !ok {
		return weather.CachedPayload{}, ErrNotFound
	}
	if s.maxAge > 0 && s.clock.Since(cp.FetchedAt) > s.maxAge {
		return weather.CachedPayload{}, ErrNotFound
	}
	return cp, nil
}

// Len reports the number of cached payloads.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

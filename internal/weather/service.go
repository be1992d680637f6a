package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// LatestKey is the store key of the default-location advisory.
const LatestKey = "latest"

// ErrNoAdvisory is returned when the backend failed and no cached payload exists.
var ErrNoAdvisory = errors.New("no advisory available")

// CacheObserver receives cache lookup outcomes ("hit", "miss", "stale").
type CacheObserver func(result string)

// Result is a payload together with how it was obtained.
type Result struct {
	Payload   AdvisoryPayload
	FetchedAt time.Time
	// Stale is set when the backend failed and a previously cached payload was served.
	Stale bool
}

// Service orchestrates the advisory backend and the payload cache.
type Service struct {
	source   Source
	store    Store
	clock    clockwork.Clock
	freshFor time.Duration
	observe  CacheObserver
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock sets the time source used for freshness checks.
func WithClock(c clockwork.Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

// WithFreshness sets how long the cached default-location advisory is served without
// contacting the backend.
func WithFreshness(d time.Duration) ServiceOption {
	return func(s *Service) { s.freshFor = d }
}

// WithCacheObserver registers a callback for cache lookup outcomes.
func WithCacheObserver(o CacheObserver) ServiceOption {
	return func(s *Service) { s.observe = o }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new Service.
func NewService(source Source, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		source:   source,
		store:    store,
		clock:    clockwork.NewRealClock(),
		freshFor: 15 * time.Minute,
		observe:  func(string) {},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary fetches the advisory for a location and crop. When the backend fails the
// last good payload for the same request is served and marked stale.
func (s *Service) Summary(ctx context.Context, req SummaryRequest) (Result, error) {
	payload, err := s.source.FetchSummary(ctx, req)
	if err != nil {
		return s.fallback(ctx, req.Key(), err)
	}
	return s.save(ctx, req.Key(), payload), nil
}

// Latest returns the default-location advisory, from cache while it is fresh.
func (s *Service) Latest(ctx context.Context) (Result, error) {
	cp, err := s.store.GetPayload(ctx, LatestKey)
	if err == nil && s.clock.Since(cp.FetchedAt) < s.freshFor {
		s.observe("hit")
		return Result{Payload: cp.Payload, FetchedAt: cp.FetchedAt}, nil
	}

	payload, err := s.source.FetchLatest(ctx)
	if err != nil {
		return s.fallback(ctx, LatestKey, err)
	}
	return s.save(ctx, LatestKey, payload), nil
}

// RefreshLatest fetches the default-location advisory and caches it.
func (s *Service) RefreshLatest(ctx context.Context) error {
	payload, err := s.source.FetchLatest(ctx)
	if err != nil {
		// Keep the last good payload in place.
		return fmt.Errorf("refresh latest advisory: %w", err)
	}
	s.save(ctx, LatestKey, payload)
	return nil
}

// CheckReadiness reports whether an advisory can be served.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if _, err := s.store.GetPayload(ctx, LatestKey); err == nil {
		return nil
	}
	return s.RefreshLatest(ctx)
}

func (s *Service) save(ctx context.Context, key string, payload AdvisoryPayload) Result {
	s.observe("miss")
	if err := s.store.SavePayload(ctx, key, payload); err != nil {
		s.logger.Warn("failed to cache advisory payload", "key", key, "error", err)
	}
	return Result{Payload: payload, FetchedAt: s.clock.Now().UTC()}
}

func (s *Service) fallback(ctx context.Context, key string, cause error) (Result, error) {
	cp, err := s.store.GetPayload(ctx, key)
	if err != nil {
		s.logger.Error("advisory unavailable and nothing cached", "source", s.source.Name(), "key", key, "error", cause)
		return Result{}, fmt.Errorf("%w: %w", ErrNoAdvisory, cause)
	}
	s.observe("stale")
	s.logger.Warn("serving cached advisory after backend failure", "source", s.source.Name(), "key", key, "fetched_at", cp.FetchedAt, "error", cause)
	return Result{Payload: cp.Payload, FetchedAt: cp.FetchedAt, Stale: true}, nil
}

// Package geocode resolves place names to coordinates for advisory requests.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

var (
	// ErrDisabled is returned when no geocoding API key is configured.
	ErrDisabled = errors.New("geocoding is not configured")
	// ErrNoMatch is returned when a place cannot be resolved.
	ErrNoMatch = errors.New("place could not be resolved")
)

// Resolver turns a city and country into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, city, country string) (weather.Location, error)
}

// GoogleResolver resolves places through the Google Geocoding API.
type GoogleResolver struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

var setKey sync.Once

// NewGoogleResolver returns a resolver using apiKey, or a disabled resolver when apiKey is empty.
func NewGoogleResolver(apiKey string) Resolver {
	if apiKey == "" {
		return disabled{}
	}
	// The geocoder package keeps the key in a package variable.
	setKey.Do(func() { geocoder.ApiKey = apiKey })
	return &GoogleResolver{lookup: geocoder.Geocoding}
}

func (r *GoogleResolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	if err := ctx.Err(); err != nil {
		return weather.Location{}, err
	}
	loc, err := r.lookup(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.Location{}, fmt.Errorf("%w: %s, %s: %v", ErrNoMatch, city, country, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s, %s", ErrNoMatch, city, country)
	}
	return weather.Location{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

type disabled struct{}

func (disabled) Resolve(context.Context, string, string) (weather.Location, error) {
	return weather.Location{}, ErrDisabled
}

// CachedResolver wraps a Resolver with an unbounded in-memory cache of successful lookups.
type CachedResolver struct {
	inner Resolver
	mu    sync.RWMutex
	cache map[string]weather.Location
}

// NewCachedResolver creates a cache decorator around a resolver.
func NewCachedResolver(inner Resolver) *CachedResolver {
	return &CachedResolver{inner: inner, cache: make(map[string]weather.Location)}
}

func (c *CachedResolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(country))

	c.mu.RLock()
	loc, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := c.inner.Resolve(ctx, city, country)
	if err != nil {
		return loc, err
	}

	c.mu.Lock()
	c.cache[key] = loc
	c.mu.Unlock()
	return loc, nil
}

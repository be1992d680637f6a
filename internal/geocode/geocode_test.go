package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

type countingResolver struct {
	calls int
	loc   weather.Location
	err   error
}

func (c *countingResolver) Resolve(context.Context, string, string) (weather.Location, error) {
	c.calls++
	return c.loc, c.err
}

func TestNewGoogleResolver_DisabledWithoutKey(t *testing.T) {
	_, err := NewGoogleResolver("").Resolve(context.Background(), "Nanyuki", "Kenya")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestGoogleResolver_Resolve(t *testing.T) {
	var got geocoder.Address
	r := &GoogleResolver{lookup: func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 0.017, Longitude: 37.074}, nil
	}}

	loc, err := r.Resolve(context.Background(), "Nanyuki", "Kenya")
	require.NoError(t, err)
	assert.Equal(t, weather.Location{Latitude: 0.017, Longitude: 37.074}, loc)
	assert.Equal(t, "Nanyuki", got.City)
	assert.Equal(t, "Kenya", got.Country)
}

func TestGoogleResolver_NoMatch(t *testing.T) {
	r := &GoogleResolver{lookup: func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}}
	_, err := r.Resolve(context.Background(), "Atlantis", "")
	assert.ErrorIs(t, err, ErrNoMatch)

	r.lookup = func(geocoder.Address) (geocoder.Location, error) { return geocoder.Location{}, nil }
	_, err = r.Resolve(context.Background(), "Atlantis", "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestCachedResolver(t *testing.T) {
	inner := &countingResolver{loc: weather.Location{Latitude: 1, Longitude: 2}}
	c := NewCachedResolver(inner)

	for _, city := range []string{"Nanyuki", " nanyuki", "NANYUKI "} {
		loc, err := c.Resolve(context.Background(), city, "Kenya")
		require.NoError(t, err)
		assert.Equal(t, 1.0, loc.Latitude)
	}
	assert.Equal(t, 1, inner.calls)

	// Failures are not cached.
	failing := &countingResolver{err: ErrNoMatch}
	c = NewCachedResolver(failing)
	_, _ = c.Resolve(context.Background(), "Atlantis", "")
	_, _ = c.Resolve(context.Background(), "Atlantis", "")
	assert.Equal(t, 2, failing.calls)
}

package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/agriweather-dashboard/internal/store"
	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

var errBackendDown = errors.New("backend down")

type fakeSource struct {
	summaryCalls int
	latestCalls  int
	err          error
	crop         string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchSummary(_ context.Context, req weather.SummaryRequest) (weather.AdvisoryPayload, error) {
	f.summaryCalls++
	if f.err != nil {
		return weather.AdvisoryPayload{}, f.err
	}
	return weather.AdvisoryPayload{
		Crop:        req.Crop,
		SummaryDate: "2025-05-20",
		Weather:     weather.WeatherSummary{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude},
	}, nil
}

func (f *fakeSource) FetchLatest(context.Context) (weather.AdvisoryPayload, error) {
	f.latestCalls++
	if f.err != nil {
		return weather.AdvisoryPayload{}, f.err
	}
	return weather.AdvisoryPayload{Crop: f.crop, SummaryDate: "2025-05-20"}, nil
}

func newService(t *testing.T, src *fakeSource) (*weather.Service, *clockwork.FakeClock, map[string]int) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 20, 6, 0, 0, 0, time.UTC))
	lookups := map[string]int{}
	svc := weather.NewService(src, store.NewMemoryStore(10, 24*time.Hour, clock),
		weather.WithClock(clock),
		weather.WithFreshness(15*time.Minute),
		weather.WithCacheObserver(func(r string) { lookups[r]++ }),
	)
	return svc, clock, lookups
}

func TestService_SummaryFallsBackToCache(t *testing.T) {
	src := &fakeSource{}
	svc, _, lookups := newService(t, src)
	req := weather.SummaryRequest{Location: weather.Location{Latitude: 0.021, Longitude: 37.906}, Crop: "maize"}

	res, err := svc.Summary(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, "maize", res.Payload.Crop)

	src.err = errBackendDown
	res, err = svc.Summary(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, "maize", res.Payload.Crop)
	assert.Equal(t, 1, lookups["stale"])

	// A different crop has nothing cached.
	_, err = svc.Summary(context.Background(), weather.SummaryRequest{Location: req.Location, Crop: "beans"})
	assert.ErrorIs(t, err, weather.ErrNoAdvisory)
	assert.ErrorIs(t, err, errBackendDown)
}

func TestService_LatestServedFromCacheWhileFresh(t *testing.T) {
	src := &fakeSource{crop: "maize"}
	svc, clock, lookups := newService(t, src)
	ctx := context.Background()

	_, err := svc.Latest(ctx)
	require.NoError(t, err)
	_, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.latestCalls)
	assert.Equal(t, 1, lookups["hit"])

	clock.Advance(16 * time.Minute)
	src.crop = "sorghum"
	res, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.latestCalls)
	assert.Equal(t, "sorghum", res.Payload.Crop)
}

func TestService_LatestStaleOnFailure(t *testing.T) {
	src := &fakeSource{crop: "maize"}
	svc, clock, _ := newService(t, src)
	ctx := context.Background()

	require.NoError(t, svc.RefreshLatest(ctx))
	clock.Advance(time.Hour)
	src.err = errBackendDown

	res, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, "maize", res.Payload.Crop)

	assert.ErrorIs(t, svc.RefreshLatest(ctx), errBackendDown)
}

func TestService_CheckReadiness(t *testing.T) {
	src := &fakeSource{err: errBackendDown}
	svc, _, _ := newService(t, src)
	ctx := context.Background()

	assert.Error(t, svc.CheckReadiness(ctx))

	src.err = nil
	assert.NoError(t, svc.CheckReadiness(ctx))

	// Once cached, readiness no longer depends on the backend.
	src.err = errBackendDown
	assert.NoError(t, svc.CheckReadiness(ctx))
}

func TestSummaryRequest_Key(t *testing.T) {
	a := weather.SummaryRequest{Location: weather.Location{Latitude: 0.0211, Longitude: 37.9059}, Crop: " Maize "}
	b := weather.SummaryRequest{Location: weather.Location{Latitude: 0.021, Longitude: 37.906}, Crop: "maize"}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "0.021:37.906:maize", b.Key())
}

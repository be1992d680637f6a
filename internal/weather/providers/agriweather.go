package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/agriweather-dashboard/internal/observability"
	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

const (
	summaryPath = "/weather/summary"
	latestPath  = "/advisories/latest"
)

// AgriWeatherProvider implements weather.Source against the AgriWeather advisory backend.
type AgriWeatherProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	logger  *slog.Logger

	// defaults, when set, pins "latest" to a configured location and crop.
	defaults *weather.SummaryRequest
}

// NewAgriWeatherProvider creates a provider for the backend rooted at baseURL
// (for example http://127.0.0.1:8000/api/v1). metrics may be nil.
func NewAgriWeatherProvider(client *http.Client, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *AgriWeatherProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgriWeatherProvider{
		name:    "agriweather",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("agriweather"),
		metrics: metrics,
		logger:  logger,
	}
}

// WithBackoff overrides the retry policy.
func (p *AgriWeatherProvider) WithBackoff(b BackoffConfig) *AgriWeatherProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *AgriWeatherProvider) Name() string {
	return p.name
}

// WithDefaultRequest makes FetchLatest request the summary for req instead of
// relying on the backend's own default location.
func (p *AgriWeatherProvider) WithDefaultRequest(req weather.SummaryRequest) *AgriWeatherProvider {
	p.defaults = &req
	return p
}

// FetchSummary requests the advisory for a location and crop.
func (p *AgriWeatherProvider) FetchSummary(ctx context.Context, req weather.SummaryRequest) (weather.AdvisoryPayload, error) {
	return p.fetch(ctx, "summary", p.summaryURL(req))
}

// FetchLatest requests the advisory for the default location and crop.
func (p *AgriWeatherProvider) FetchLatest(ctx context.Context) (weather.AdvisoryPayload, error) {
	if p.defaults != nil {
		return p.fetch(ctx, "latest", p.summaryURL(*p.defaults))
	}
	return p.fetch(ctx, "latest", p.baseURL+latestPath)
}

func (p *AgriWeatherProvider) summaryURL(req weather.SummaryRequest) string {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(req.Location.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(req.Location.Longitude, 'f', -1, 64))
	if crop := strings.TrimSpace(req.Crop); crop != "" {
		values.Set("crop", crop)
	}
	return p.baseURL + summaryPath + "?" + values.Encode()
}

func (p *AgriWeatherProvider) fetch(ctx context.Context, endpoint, u string) (weather.AdvisoryPayload, error) {
	start := time.Now()
	payload, err := p.doFetch(ctx, u)
	p.observe(endpoint, start, err)
	if err != nil {
		p.logger.Error("advisory backend request failed", "endpoint", endpoint, "error", err)
		return weather.AdvisoryPayload{}, fmt.Errorf("%w: %s: %w", ErrUnavailable, endpoint, err)
	}
	return payload, nil
}

func (p *AgriWeatherProvider) doFetch(ctx context.Context, u string) (weather.AdvisoryPayload, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.AdvisoryPayload{}, err
	}
	defer resp.Body.Close()

	var payload weather.AdvisoryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.AdvisoryPayload{}, fmt.Errorf("decode advisory payload: %w", err)
	}
	if payload.Crop == "" || payload.SummaryDate == "" {
		return weather.AdvisoryPayload{}, errors.New("advisory payload is missing crop or summary_date")
	}
	if payload.Indicators == nil {
		payload.Indicators = []weather.AgronomicIndicator{}
	}
	return payload, nil
}

func (p *AgriWeatherProvider) observe(endpoint string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case errors.Is(err, ErrCircuitOpen):
		outcome = "circuit_open"
	case err != nil:
		outcome = "error"
	}
	p.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	p.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

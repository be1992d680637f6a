package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpapi "github.com/i474232898/agriweather-dashboard/internal/api/http"
	"github.com/i474232898/agriweather-dashboard/internal/config"
	"github.com/i474232898/agriweather-dashboard/internal/geocode"
	"github.com/i474232898/agriweather-dashboard/internal/insight"
	"github.com/i474232898/agriweather-dashboard/internal/observability"
	"github.com/i474232898/agriweather-dashboard/internal/scheduler"
	"github.com/i474232898/agriweather-dashboard/internal/store"
	"github.com/i474232898/agriweather-dashboard/internal/view"
	"github.com/i474232898/agriweather-dashboard/internal/visual"
	"github.com/i474232898/agriweather-dashboard/internal/weather"
	"github.com/i474232898/agriweather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Shared HTTP client for outbound backend calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Advisory backend with resilience (backoff + circuit breaker).
	source := providers.NewAgriWeatherProvider(httpClient, cfg.UpstreamBaseURL, metrics, logger).
		WithDefaultRequest(weather.SummaryRequest{Location: cfg.DefaultLocation, Crop: cfg.DefaultCrop})

	payloads := newStore(cfg, clock, logger)

	// Core service orchestrating the backend and the payload cache.
	service := weather.NewService(source, payloads,
		weather.WithClock(clock),
		weather.WithFreshness(cfg.RefreshInterval),
		weather.WithCacheObserver(func(result string) {
			metrics.CacheLookups.WithLabelValues(result).Inc()
		}),
		weather.WithLogger(logger),
	)

	// Scheduler that keeps the latest advisory warm.
	sched := scheduler.New(service, cfg.RefreshInterval, cfg.HTTPTimeout, func(err error) {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.RefreshRuns.WithLabelValues(outcome).Inc()
	}, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, logger)

	// API routes.
	httpapi.RegisterRoutes(app, &httpapi.Handlers{
		Service:     service,
		Builder:     view.NewBuilder(visual.NewNormalizer(cfg.PrecipitationTargetMM), insight.NewExtractor()),
		Resolver:    geocode.NewCachedResolver(geocode.NewGoogleResolver(cfg.GeocoderAPIKey)),
		DefaultCrop: cfg.DefaultCrop,
		Metrics:     metrics,
	})

	// Start server with graceful shutdown
	go func() {
		logger.Info("listening", "port", cfg.Port, "upstream", cfg.UpstreamBaseURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}

// newStore picks Redis when an address is configured and the in-memory cache otherwise.
func newStore(cfg *config.AppConfig, clock clockwork.Clock, logger *slog.Logger) weather.Store {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheMaxAge, clock)
	}

	rs := store.NewRedisStore(store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.CacheMaxAge, clock)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("redis not reachable yet; payload cache will retry per request", "addr", cfg.RedisAddr, "error", err)
	}
	return rs
}

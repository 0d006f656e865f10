// Package app assembles a translation service from configuration. It is
// shared by the teamtl CLI and the Lambda entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/cache"
	"github.com/ZaguanLabs/teamtl/config"
	"github.com/ZaguanLabs/teamtl/metrics"
	"github.com/ZaguanLabs/teamtl/provider"
	"github.com/ZaguanLabs/teamtl/store"
)

// App holds the assembled components.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Service  *teamtl.Service
	Teams    *store.SQLiteStore
	Records  teamtl.RecordStore
	Registry *prometheus.Registry

	closers []io.Closer
}

// NewLogger returns a JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// New validates cfg, opens the stores it names and builds the service. Close
// releases them.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	teams, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.DBPath})
	if err != nil {
		return nil, fmt.Errorf("opening team store: %w", err)
	}
	a.Teams = teams
	a.closers = append(a.closers, teams)

	records, err := a.openRecords(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening %s cache: %w", cfg.CacheBackend, err)
	}
	a.Records = records

	opts := []teamtl.ServiceOption{
		teamtl.WithSourceLang(cfg.SourceLang),
		teamtl.WithContext("History of a football club"),
		teamtl.WithLogger(logger),
		teamtl.WithMetrics(metrics.New(a.Registry)),
	}
	if cfg.SingleFlight {
		opts = append(opts, teamtl.WithSingleFlight())
	}
	if cfg.StrictCacheWrites {
		opts = append(opts, teamtl.WithStrictCacheWrites())
	}

	a.Service = teamtl.NewService(teams, records, a.provider(), opts...)

	logger.Info("service ready",
		"db", cfg.DBPath,
		"cache", cfg.CacheBackend,
		"source_lang", cfg.SourceLang,
		"mock_provider", cfg.MockProvider,
	)
	return a, nil
}

func (a *App) openRecords(ctx context.Context) (teamtl.RecordStore, error) {
	cfg := a.Config

	switch cfg.CacheBackend {
	case config.CacheMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheLRU:
		s, err := cache.NewLRUStore(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CacheBadger:
		s, err := cache.NewBadgerStore(cache.BadgerConfig{DataDir: cfg.BadgerDir})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case config.CacheRedis:
		s, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			URL:       cfg.RedisURL,
			Retention: cfg.RedisRetention,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return nil, &config.Error{Field: "CacheBackend", Message: "unknown backend " + cfg.CacheBackend}
	}
}

// provider builds the OpenAI (or mock) provider wrapped with retries and a
// rate limit. Each retry waits for its own token.
func (a *App) provider() teamtl.Provider {
	cfg := a.Config

	var p teamtl.Provider
	if cfg.MockProvider {
		p = provider.NewMockProvider()
	} else {
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:      cfg.OpenAIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.OpenAIBaseURL,
			Timeout:     cfg.ProviderTimeout,
		})
	}

	p = teamtl.NewRateLimitedProvider(p, teamtl.RateLimitConfig{RequestsPerMinute: cfg.RequestsPerMinute})

	retry := teamtl.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	return teamtl.NewRetryableProvider(p, retry)
}

// Close releases every opened store, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

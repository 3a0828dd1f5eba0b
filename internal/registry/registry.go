// Package registry builds the adapter set at process start. Each adapter
// gets its own cache and rate limiter instance, shared across all concurrent
// callers of that adapter, with no hidden package-level state.
package registry

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/secrets"
	"github.com/jobscout/jobscout/internal/source"
	"github.com/jobscout/jobscout/internal/source/adzuna"
	"github.com/jobscout/jobscout/internal/source/remotive"
	"github.com/jobscout/jobscout/internal/source/wwr"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 2 * time.Second

	// CacheBackendMemory keeps responses in-process; CacheBackendRedis
	// shares them across instances.
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config selects the cache backend and carries per-provider settings.
type Config struct {
	CacheBackend string              `mapstructure:"cache-backend"`
	Redis        source.RedisOptions `mapstructure:"redis"`

	RetryAttempts  int           `mapstructure:"retry-attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry-base-delay"`

	Adzuna *AdzunaConfig `mapstructure:"adzuna"`
}

// AdzunaConfig carries Adzuna credentials, loaded from files so they stay
// out of the main configuration.
type AdzunaConfig struct {
	Country    string `mapstructure:"country"`
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

// Registry owns the constructed adapters and their background sweeper.
type Registry struct {
	adapters []source.Adapter
	sweeper  *source.Sweeper
	logger   *zap.Logger
}

// New wires every available adapter. Adzuna is skipped with a warning when
// its credentials are not configured; the scraping and open-API sources need
// none.
func New(cfg Config, logger *zap.Logger) (*Registry, error) {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = defaultRetryBaseDelay
	}

	retry := source.NewRetryExecutor(cfg.RetryAttempts, cfg.RetryBaseDelay, logger)
	sweeper := source.NewSweeper(logger)

	r := &Registry{sweeper: sweeper, logger: logger}

	newCache := func(src string, ttl time.Duration) (source.Cache, error) {
		var cache source.Cache
		switch cfg.CacheBackend {
		case "", CacheBackendMemory:
			cache = source.NewMemoryCache(ttl)
		case CacheBackendRedis:
			cache = source.NewRedisCache(source.NewRedisClient(cfg.Redis), src, ttl, logger)
		default:
			return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
		}
		if err := sweeper.Register(src, cache); err != nil {
			return nil, fmt.Errorf("registering %s cache sweep: %w", src, err)
		}
		return cache, nil
	}

	if adz := cfg.Adzuna; adz != nil {
		appID, idErr := secrets.Load(secrets.Source{Name: "adzuna app id", File: adz.AppIDFile})
		appKey, keyErr := secrets.Load(secrets.Source{Name: "adzuna app key", File: adz.AppKeyFile})
		if idErr != nil || keyErr != nil {
			logger.Warn("skipping adzuna source: credentials not configured",
				zap.NamedError("app_id", idErr),
				zap.NamedError("app_key", keyErr),
			)
		} else {
			cache, err := newCache(adzuna.Name, adzuna.CacheTTL)
			if err != nil {
				return nil, err
			}
			r.adapters = append(r.adapters, adzuna.New(
				adzuna.Config{AppID: appID, AppKey: appKey, Country: adz.Country},
				adzuna.Deps{
					Logger:  logger,
					Cache:   cache,
					Limiter: source.NewSlidingWindow(adzuna.RequestCeiling, adzuna.RateWindow),
					Retry:   retry,
				},
			))
		}
	}

	remotiveCache, err := newCache(remotive.Name, remotive.CacheTTL)
	if err != nil {
		return nil, err
	}
	r.adapters = append(r.adapters, remotive.New(remotive.Config{}, remotive.Deps{
		Logger:  logger,
		Cache:   remotiveCache,
		Limiter: source.NewSlidingWindow(remotive.RequestCeiling, remotive.RateWindow),
		Retry:   retry,
	}))

	wwrCache, err := newCache(wwr.Name, wwr.CacheTTL)
	if err != nil {
		return nil, err
	}
	r.adapters = append(r.adapters, wwr.New(wwr.Config{}, wwr.Deps{
		Logger: logger,
		Cache:  wwrCache,
		Retry:  retry,
	}))

	return r, nil
}

// Adapters returns the constructed adapters in registration order.
func (r *Registry) Adapters() []source.Adapter {
	return r.adapters
}

// Aggregator builds the fan-out aggregator over the registered adapters.
func (r *Registry) Aggregator() *source.Aggregator {
	return source.NewAggregator(r.adapters, r.logger)
}

// StartSweeper launches the hourly cache sweeps.
func (r *Registry) StartSweeper() {
	r.sweeper.Start()
}

// StopSweeper halts the sweeps, waiting for a running sweep to finish.
func (r *Registry) StopSweeper() {
	r.sweeper.Stop()
}

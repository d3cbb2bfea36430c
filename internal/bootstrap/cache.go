package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/hvgate/internal/cache"
	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/metrics"

	"go.uber.org/zap"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config, logger *zap.Logger) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		logger.Info("prometheus metrics initialized")
	} else {
		logger.Info("metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeMetricsCache initializes the gauge cache. It is only needed when
// metrics are enabled; CACHE_TYPE=none still gets a memory cache because the
// gauge updater always reads through one.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || cfg.MetricsGaugeUpdateInterval <= 0 {
		return nil, nil, nil
	}

	cacheType := cfg.CacheType
	if cacheType == config.CacheTypeNone {
		cacheType = config.CacheTypeMemory
	}
	c, err := newCache[int64](ctx, cfg, cacheType, "hvgate:metrics:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize metrics cache: %w", err)
	}
	logger.Info("metrics cache initialized", zap.String("type", cacheType))
	return c, c.Close, nil
}

// initializeIntegrationCache initializes the per-user integration status
// cache. CACHE_TYPE=none returns a nil cache, which disables caching.
func initializeIntegrationCache(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (core.Cache[bool], func() error, error) {
	if cfg.CacheType == config.CacheTypeNone {
		logger.Info("integration status cache disabled")
		return nil, nil, nil
	}

	c, err := newCache[bool](ctx, cfg, cfg.CacheType, "hvgate:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize integration cache: %w", err)
	}
	logger.Info("integration status cache initialized",
		zap.String("type", cfg.CacheType),
		zap.Duration("ttl", cfg.CacheTTL))
	return c, c.Close, nil
}

func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	cacheType, keyPrefix string,
) (core.Cache[T], error) {
	switch cacheType {
	case config.CacheTypeRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
		defer cancel()
		c, err := cache.NewRueidisCache[T](ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, keyPrefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	default: // memory
		return cache.NewMemoryCache[T](), nil
	}
}

package bootstrap

import (
	"fmt"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	login       gin.HandlerFunc
	healthVault gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noOpMiddleware := func(c *gin.Context) { c.Next() }
		return rateLimitMiddlewares{
			login:       noOpMiddleware,
			healthVault: noOpMiddleware,
		}, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	logger.Info("rate limiting enabled", zap.String("store", cfg.RateLimitStore))

	createLimiter := func(requestsPerMinute int, name string) (gin.HandlerFunc, error) {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient,
			KeyPrefix:         "hvgate:ratelimit:" + name,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter for %s: %w", name, err)
		}
		return limiter, nil
	}

	login, err := createLimiter(cfg.LoginRateLimit, "login")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	healthVault, err := createLimiter(cfg.HealthVaultRateLimit, "healthvault")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	return rateLimitMiddlewares{login: login, healthVault: healthVault}, nil
}

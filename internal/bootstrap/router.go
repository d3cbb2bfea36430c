package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/healthvault"
	"github.com/go-authgate/hvgate/internal/metrics"
	"github.com/go-authgate/hvgate/internal/middleware"
	"github.com/go-authgate/hvgate/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionCookieName = "hvgate_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	hvFactory *healthvault.Factory,
	h handlerSet,
	prometheusMetrics core.Recorder,
	rateLimitRedisClient *redis.Client,
	logger *zap.Logger,
) (*gin.Engine, error) {
	setupGinMode(cfg, logger)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(middleware.RequestLogger(logger.Named("http")), gin.Recovery())
	r.Use(middleware.IPMiddleware())

	setupSessionMiddleware(r, cfg)

	r.GET("/health", createHealthCheckHandler(db, hvFactory))
	setupMetricsEndpoint(r, cfg, logger)

	rateLimiters, err := setupRateLimiting(cfg, rateLimitRedisClient, logger)
	if err != nil {
		return nil, err
	}

	setupAllRoutes(r, h, rateLimiters)
	logServerStartup(cfg, logger)

	return r, nil
}

// setupSessionMiddleware configures session handling middleware
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	switch {
	case !cfg.MetricsEnabled:
		logger.Info("prometheus metrics disabled")
	case cfg.MetricsToken != "":
		logger.Info("prometheus metrics enabled at /metrics with bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		logger.Warn("prometheus metrics enabled at /metrics without authentication")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet, rateLimiters rateLimitMiddlewares) {
	requireAuth := middleware.RequireAuth(h.userService)
	csrf := middleware.CSRFMiddleware()

	// Login routes
	r.GET("/login", csrf, h.auth.LoginPage)
	r.POST("/login", rateLimiters.login, csrf, h.auth.Login)
	r.GET("/logout", h.auth.Logout)

	// Protected routes (require login)
	r.GET("/", requireAuth, csrf, h.home.Home)

	// HealthVault handshake. The shell returns with a plain GET, so these
	// routes carry no CSRF check.
	hv := r.Group("")
	hv.Use(rateLimiters.healthVault, requireAuth)
	{
		hv.GET(handshake.AuthorizePath, h.healthVault.Authorize)
		hv.GET(handshake.DeauthorizePath, h.healthVault.Deauthorize)
		hv.GET(handshake.CompletePath, h.healthVault.Complete)
		hv.GET(handshake.ErrorPath, h.healthVault.Error)
		hv.GET(handshake.StatusPath, h.healthVault.Status)
	}
}

// createHealthCheckHandler reports database connectivity and the state of
// the HealthVault platform circuit breaker. An open breaker does not make the
// service unhealthy.
func createHealthCheckHandler(db *store.Store, hvFactory *healthvault.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		breaker := hvFactory.BreakerState()
		switch err := db.Health(ctx); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":      "healthy",
				"database":    "connected",
				"healthvault": breaker,
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "unhealthy",
				"database":    "disconnected",
				"healthvault": breaker,
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config, logger *zap.Logger) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	logger.Info("gin mode", zap.String("mode", mode))
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config, logger *zap.Logger) {
	logger.Info("HealthVault gateway starting",
		zap.String("addr", cfg.ServerAddr),
		zap.String("base_url", cfg.BaseURL))
	logger.Info("HealthVault callback",
		zap.String("url", cfg.BaseURL+handshake.CompletePath),
		zap.Bool("sent_to_shell", cfg.HealthVault.InDevelopment))
	logger.Info("default user: admin (check logs for password if first run)")
}

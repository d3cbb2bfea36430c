package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/healthvault"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	DB                     *store.Store
	MetricsRecorder        core.Recorder
	MetricsCache           core.Cache[int64]
	MetricsCacheCloser     func() error
	IntegrationCache       core.Cache[bool]
	IntegrationCacheCloser func() error
	RateLimitRedisClient   *redis.Client
	HealthVaultFactory     *healthvault.Factory
	closeLogger            func() error

	// Services
	AuditService       *services.AuditService
	UserService        *services.UserService
	AssociationService *services.AssociationService
	Machine            *handshake.Machine

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}
	defer func() { _ = app.closeLogger() }()

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up logging, database, metrics, caches and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.Logger, app.closeLogger, err = newLogger(app.Config)
	if err != nil {
		return err
	}

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config, app.Logger)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	// Integration status cache
	app.IntegrationCache, app.IntegrationCacheCloser, err = initializeIntegrationCache(
		ctx,
		app.Config,
		app.Logger,
	)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	// HealthVault platform client
	app.HealthVaultFactory = initializeHealthVaultFactory(app.Config, app.Logger)

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
		app.Logger.Named("audit"),
	)

	app.UserService, app.AssociationService, app.Machine = initializeServices(
		app.Config,
		app.DB,
		app.IntegrationCache,
		app.HealthVaultFactory,
		app.AuditService,
		app.MetricsRecorder,
		app.Logger,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.UserService,
		app.AssociationService,
		app.AuditService,
		app.Machine,
		app.MetricsRecorder,
		app.Logger,
	)

	router, err := setupRouter(
		app.Config,
		app.DB,
		app.HealthVaultFactory,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RateLimitRedisClient,
		app.Logger,
	)
	if err != nil {
		return err
	}
	app.Router = router

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server, app.Logger)
	addServerShutdownJob(m, app.Server, app.Logger)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient, app.Logger)
	addAuditServiceShutdownJob(m, app.AuditService, app.Logger)
	addAuditLogCleanupJob(m, app.Config, app.AuditService, app.Logger)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache, app.Logger)
	addCacheCleanupJob(m, "metrics", app.MetricsCacheCloser, app.Logger)
	addCacheCleanupJob(m, "integration", app.IntegrationCacheCloser, app.Logger)
	addDatabaseShutdownJob(m, app.DB, app.Logger)

	<-m.Done()
}

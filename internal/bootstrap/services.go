package bootstrap

import (
	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/healthvault"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/store"

	"go.uber.org/zap"
)

// initializeHealthVaultFactory builds the connection factory for the
// HealthVault platform. Credentials are checked per connection.
func initializeHealthVaultFactory(cfg *config.Config, logger *zap.Logger) *healthvault.Factory {
	factory := healthvault.NewFactory(cfg.HealthVault, healthvault.WithLogger(logger.Named("healthvault")))
	logger.Info("healthvault client configured",
		zap.String("server", cfg.HealthVault.Server),
		zap.String("shell_server", cfg.HealthVault.ShellServer),
		zap.Bool("in_development", cfg.HealthVault.InDevelopment))
	return factory
}

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	integrationCache core.Cache[bool],
	factory core.ConnectionFactory,
	auditService *services.AuditService,
	prometheusMetrics core.Recorder,
	logger *zap.Logger,
) (*services.UserService, *services.AssociationService, *handshake.Machine) {
	userService := services.NewUserService(db, prometheusMetrics, logger.Named("users"))
	associationService := services.NewAssociationService(
		db,
		integrationCache,
		cfg.CacheTTL,
		prometheusMetrics,
	)
	machine := handshake.NewMachine(
		cfg.HealthVault,
		cfg.BaseURL,
		factory,
		associationService,
		handshake.WithMetrics(prometheusMetrics),
		handshake.WithAuditLogger(auditService),
		handshake.WithLogger(logger.Named("handshake")),
	)
	return userService, associationService, machine
}

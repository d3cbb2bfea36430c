package bootstrap

import (
	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/handlers"
	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/templates"

	"go.uber.org/zap"
)

// handlerSet holds all HTTP handlers and required services
type handlerSet struct {
	auth        *handlers.AuthHandler
	home        *handlers.HomeHandler
	healthVault *handlers.HealthVaultHandler
	userService *services.UserService
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	userService *services.UserService,
	associationService *services.AssociationService,
	auditService *services.AuditService,
	machine *handshake.Machine,
	prometheusMetrics core.Recorder,
	logger *zap.Logger,
) handlerSet {
	httpLogger := logger.Named("http")
	return handlerSet{
		auth: handlers.NewAuthHandler(
			userService,
			auditService,
			prometheusMetrics,
			cfg.BaseURL,
			httpLogger,
		),
		home: handlers.NewHomeHandler(associationService, auditService, httpLogger),
		healthVault: handlers.NewHealthVaultHandler(
			machine,
			associationService,
			templates.NewFileCache(),
			cfg.BaseURL,
			httpLogger,
		),
		userService: userService,
	}
}

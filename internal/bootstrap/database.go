package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/store"

	"go.uber.org/zap"
)

// initializeDatabase creates and initializes the database connection
func initializeDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (*store.Store, error) {
	// Create timeout context for this specific operation
	ctx, cancel := context.WithTimeout(ctx, cfg.DBInitTimeout)
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg, logger.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database initialized", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

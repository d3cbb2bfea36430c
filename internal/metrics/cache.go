package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/hvgate/internal/core"
)

const integratedUsersCacheKey = "metrics:integrated_users"

// CacheWrapper provides a read-through cache for gauge data so that several
// replicas updating gauges do not all hit the database on every tick.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetIntegratedUsersCount returns the number of linked users.
func (m *CacheWrapper) GetIntegratedUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		integratedUsersCacheKey,
		ttl,
		func(context.Context, string) (int64, error) {
			return m.store.CountHealthVaultUsers()
		},
	)
}

// UpdateGauges refreshes the gauge metrics from the (cached) store.
func UpdateGauges(ctx context.Context, wrapper *CacheWrapper, m core.Recorder, ttl time.Duration) error {
	count, err := wrapper.GetIntegratedUsersCount(ctx, ttl)
	if err != nil {
		m.RecordDatabaseQueryError("count_healthvault_users")
		return err
	}
	m.SetIntegratedUsersCount(int(count))
	return nil
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/store"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := &config.Config{DefaultAdminPassword: "admin-password"}
	s, err := store.New(context.Background(), "sqlite", ":memory:", cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// callFetchFn is a DoAndReturn helper that runs the fetch function a
// cache-aside mock was handed.
func callFetchFn[T any](
	ctx context.Context,
	key string,
	_ time.Duration,
	fetchFn func(context.Context, string) (T, error),
) (T, error) {
	return fetchFn(ctx, key)
}

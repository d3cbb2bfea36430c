package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/store"
)

const integratedCacheKeyPrefix = "hv:integrated:"

// AssociationService manages the link between a local user and a
// HealthVault record, and caches the per-user integration status.
type AssociationService struct {
	store   *store.Store
	cache   core.Cache[bool]
	ttl     time.Duration
	metrics core.Recorder
}

// NewAssociationService creates an AssociationService. A nil cache disables
// integration-status caching.
func NewAssociationService(
	s *store.Store,
	c core.Cache[bool],
	ttl time.Duration,
	m core.Recorder,
) *AssociationService {
	return &AssociationService{store: s, cache: c, ttl: ttl, metrics: m}
}

func integratedCacheKey(userID string) string {
	return integratedCacheKeyPrefix + userID
}

// IsIntegrated reports whether userID has a stored association. Anonymous
// users (empty id) are never integrated.
func (s *AssociationService) IsIntegrated(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	fetch := func(ctx context.Context, _ string) (bool, error) {
		_, err := s.store.GetHealthVaultUser(ctx, userID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			s.metrics.RecordDatabaseQueryError("get_healthvault_user")
			return false, err
		}
		return true, nil
	}

	if s.cache == nil {
		return fetch(ctx, userID)
	}
	return s.cache.GetWithFetch(ctx, integratedCacheKey(userID), s.ttl, fetch)
}

// Get returns the association for userID or store.ErrRecordNotFound.
func (s *AssociationService) Get(ctx context.Context, userID string) (*models.HealthVaultUser, error) {
	link, err := s.store.GetHealthVaultUser(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		s.metrics.RecordDatabaseQueryError("get_healthvault_user")
	}
	return link, err
}

// Save creates or replaces the association for userID. Validation failures
// wrap store.ErrValidation and leave any previous association untouched.
func (s *AssociationService) Save(
	ctx context.Context,
	userID, recordID, accessToken string,
) (*models.HealthVaultUser, error) {
	link, err := s.store.SaveHealthVaultUser(ctx, userID, recordID, accessToken)
	s.invalidate(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrValidation) {
			s.metrics.RecordDatabaseQueryError("save_healthvault_user")
		}
		return nil, err
	}
	s.metrics.RecordAssociationChange("linked")
	return link, nil
}

// Delete removes the association for userID. Removing a missing association
// is not an error.
func (s *AssociationService) Delete(ctx context.Context, userID string) error {
	removed, err := s.store.DeleteHealthVaultUser(ctx, userID)
	s.invalidate(ctx, userID)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("delete_healthvault_user")
		return err
	}
	if removed {
		s.metrics.RecordAssociationChange("unlinked")
	}
	return nil
}

func (s *AssociationService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil || userID == "" {
		return
	}
	_ = s.cache.Delete(ctx, integratedCacheKey(userID))
}

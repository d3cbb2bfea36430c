package store

import (
	"context"
	"time"

	"github.com/go-authgate/hvgate/internal/models"
)

// CreateAuditLogBatch inserts logs in a single statement.
func (s *Store) CreateAuditLogBatch(ctx context.Context, logs []*models.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&logs).Error
}

// ListAuditLogs returns the newest logs matching filters, at most limit rows.
func (s *Store) ListAuditLogs(
	ctx context.Context,
	filters AuditLogFilters,
	limit int,
) ([]models.AuditLog, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filters.EventType != "" {
		query = query.Where("event_type = ?", filters.EventType)
	}
	if filters.ActorUserID != "" {
		query = query.Where("actor_user_id = ?", filters.ActorUserID)
	}
	if filters.Success != nil {
		query = query.Where("success = ?", *filters.Success)
	}
	if !filters.Since.IsZero() {
		query = query.Where("event_time >= ?", filters.Since)
	}
	if limit <= 0 {
		limit = 20
	}

	var logs []models.AuditLog
	err := query.Order("event_time DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOldAuditLogs removes logs older than before and returns the count.
func (s *Store) DeleteOldAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}

package store

import (
	"time"
)

// AuditLogFilters contains filter criteria for querying audit logs
type AuditLogFilters struct {
	EventType   string    `json:"event_type,omitempty"`
	ActorUserID string    `json:"actor_user_id,omitempty"`
	Success     *bool     `json:"success,omitempty"`
	Since       time.Time `json:"since,omitzero"`
}

package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Handshake
	RecordHandshake(operation, result string)
	RecordTokenExchange(success bool, duration time.Duration)
	RecordAssociationChange(action string)

	// Authentication
	RecordLogin(success bool)
	RecordLogout()

	// Gauge Setters (for periodic updates)
	SetIntegratedUsersCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by the gauge updater.
type MetricsStore interface {
	CountHealthVaultUsers() (int64, error)
}

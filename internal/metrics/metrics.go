package metrics

import (
	"sync"
	"time"

	"github.com/go-authgate/hvgate/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure Metrics implements Recorder interface at compile time
var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HealthVault handshake metrics
	HandshakesTotal         *prometheus.CounterVec
	TokenExchangeTotal      *prometheus.CounterVec
	TokenExchangeDuration   prometheus.Histogram
	AssociationChangesTotal *prometheus.CounterVec
	IntegratedUsers         prometheus.Gauge

	// Authentication Metrics
	AuthLoginTotal  *prometheus.CounterVec
	AuthLogoutTotal prometheus.Counter

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// GetMetrics returns the Prometheus metrics, registering them on first use.
func GetMetrics() *Metrics {
	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		HandshakesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthvault_handshakes_total",
				Help: "Total number of HealthVault handshake steps by operation and result",
			},
			// operation: authorize, deauthorize, complete, error
			// result: redirect, success, rejected, signed_out, not_integrated,
			// missing_token, upstream_error, invalid, unknown_target, unhandled_target
			[]string{"operation", "result"},
		),
		TokenExchangeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthvault_token_exchange_total",
				Help: "Total number of wctoken exchanges with the HealthVault platform",
			},
			[]string{"result"}, // success, error
		),
		TokenExchangeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "healthvault_token_exchange_duration_seconds",
				Help:    "Time taken to exchange a wctoken for a record id",
				Buckets: prometheus.DefBuckets,
			},
		),
		AssociationChangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthvault_association_changes_total",
				Help: "Total number of HealthVault associations created, replaced or removed",
			},
			[]string{"action"}, // linked, unlinked
		),
		IntegratedUsers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "healthvault_integrated_users",
				Help: "Current number of users linked to a HealthVault record",
			},
		),

		AuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, failure
		),
		AuthLogoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_logout_total",
				Help: "Total number of logouts",
			},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

// RecordHandshake counts one handshake step.
func (m *Metrics) RecordHandshake(operation, result string) {
	m.HandshakesTotal.WithLabelValues(operation, result).Inc()
}

// RecordTokenExchange records a wctoken exchange and its latency.
func (m *Metrics) RecordTokenExchange(success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	m.TokenExchangeTotal.WithLabelValues(result).Inc()
	m.TokenExchangeDuration.Observe(duration.Seconds())
}

// RecordAssociationChange counts a link or unlink.
func (m *Metrics) RecordAssociationChange(action string) {
	m.AssociationChangesTotal.WithLabelValues(action).Inc()
	switch action {
	case "linked":
		m.IntegratedUsers.Inc()
	case "unlinked":
		m.IntegratedUsers.Dec()
	}
}

// RecordLogin records login attempt
func (m *Metrics) RecordLogin(success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(result).Inc()
}

// RecordLogout records logout
func (m *Metrics) RecordLogout() {
	m.AuthLogoutTotal.Inc()
}

// SetIntegratedUsersCount sets the linked-user gauge (for periodic updates)
func (m *Metrics) SetIntegratedUsersCount(count int) {
	m.IntegratedUsers.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}

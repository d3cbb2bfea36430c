package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	require.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.HandshakesTotal)
	assert.NotNil(t, metrics.TokenExchangeDuration)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.Same(t, metrics, GetMetrics(), "metrics must only be registered once")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")

	// Every method is safe to call.
	m.RecordHandshake("authorize", "redirect")
	m.RecordTokenExchange(true, time.Second)
	m.RecordAssociationChange("linked")
	m.RecordLogin(true)
	m.RecordLogout()
	m.SetIntegratedUsersCount(3)
	m.RecordDatabaseQueryError("op")
}

func TestRecordHandshake(t *testing.T) {
	m := GetMetrics()
	counter := m.HandshakesTotal.WithLabelValues("complete", "success")
	before := testutil.ToFloat64(counter)

	m.RecordHandshake("complete", "success")

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
}

func TestRecordTokenExchange(t *testing.T) {
	m := GetMetrics()
	failures := m.TokenExchangeTotal.WithLabelValues("error")
	before := testutil.ToFloat64(failures)

	m.RecordTokenExchange(false, 250*time.Millisecond)

	assert.InDelta(t, before+1, testutil.ToFloat64(failures), 0.0001)
}

func TestIntegratedUsersGauge(t *testing.T) {
	m := GetMetrics()

	m.SetIntegratedUsersCount(5)
	assert.InDelta(t, 5, testutil.ToFloat64(m.IntegratedUsers), 0.0001)

	m.RecordAssociationChange("linked")
	assert.InDelta(t, 6, testutil.ToFloat64(m.IntegratedUsers), 0.0001)

	m.RecordAssociationChange("unlinked")
	m.RecordAssociationChange("unlinked")
	assert.InDelta(t, 4, testutil.ToFloat64(m.IntegratedUsers), 0.0001)
}

func TestRecordLoginAndLogout(t *testing.T) {
	m := GetMetrics()
	failures := m.AuthLoginTotal.WithLabelValues("failure")
	before := testutil.ToFloat64(failures)
	logoutsBefore := testutil.ToFloat64(m.AuthLogoutTotal)

	m.RecordLogin(false)
	m.RecordLogout()

	assert.InDelta(t, before+1, testutil.ToFloat64(failures), 0.0001)
	assert.InDelta(t, logoutsBefore+1, testutil.ToFloat64(m.AuthLogoutTotal), 0.0001)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := GetMetrics()

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/healthvault/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := m.HTTPRequestsTotal.WithLabelValues("GET", "/healthvault/status", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthvault/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
}

func TestHTTPMetricsMiddleware_UnmatchedAndSkippedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := GetMetrics()

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	unmatched := m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")
	health := m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")
	unmatchedBefore := testutil.ToFloat64(unmatched)
	healthBefore := testutil.ToFloat64(health)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.InDelta(t, unmatchedBefore+1, testutil.ToFloat64(unmatched), 0.0001)
	assert.InDelta(t, healthBefore, testutil.ToFloat64(health), 0.0001)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, unmatchedRoute, routeLabel(""))
	assert.Equal(t, "/healthvault/complete", routeLabel("/healthvault/complete"))
}

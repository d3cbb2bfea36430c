package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, limiter gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func doLimited(router http.Handler, ip, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewMemoryRateLimiter(t *testing.T) {
	limiter, err := NewMemoryRateLimiter(5)
	require.NoError(t, err)
	router := newLimitedRouter(t, limiter)

	for i := 0; i < 5; i++ {
		w := doLimited(router, "192.168.1.100", "")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}

	w := doLimited(router, "192.168.1.100", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	limiter, err := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   time.Minute,
	})
	require.NoError(t, err)
	router := newLimitedRouter(t, limiter)

	assert.Equal(t, http.StatusOK, doLimited(router, "10.0.0.1", "").Code)
	assert.Equal(t, http.StatusOK, doLimited(router, "10.0.0.2", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doLimited(router, "10.0.0.1", "").Code)
}

func TestRateLimiter_HTMLErrorResponse(t *testing.T) {
	limiter, err := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, StoreType: RateLimitStoreMemory})
	require.NoError(t, err)
	router := newLimitedRouter(t, limiter)

	accept := "text/html,application/xhtml+xml"
	require.Equal(t, http.StatusOK, doLimited(router, "192.168.1.60", accept).Code)

	w := doLimited(router, "192.168.1.60", accept)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Rate Limit Exceeded")
}

func TestRateLimiter_RedisStoreRequiresClient(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, StoreType: RateLimitStoreRedis})
	assert.ErrorIs(t, err, ErrRedisClientRequired)
}

func TestRateLimiter_RedisStoreSharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	newLimiter := func() gin.HandlerFunc {
		limiter, err := NewRateLimiter(RateLimitConfig{
			RequestsPerMinute: 2,
			StoreType:         RateLimitStoreRedis,
			RedisClient:       client,
			KeyPrefix:         "ratelimit:test",
		})
		require.NoError(t, err)
		return limiter
	}

	// Two replicas sharing one redis share one budget.
	first := newLimitedRouter(t, newLimiter())
	second := newLimitedRouter(t, newLimiter())

	assert.Equal(t, http.StatusOK, doLimited(first, "172.16.0.9", "").Code)
	assert.Equal(t, http.StatusOK, doLimited(second, "172.16.0.9", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doLimited(first, "172.16.0.9", "").Code)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.Contains(t, keys[0], "ratelimit:test")
}

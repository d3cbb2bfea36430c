package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testToken = "test-secret-token-123"

func TestMetricsAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "no token configured", configured: "", wantStatus: http.StatusOK, wantBody: "metrics"},
		{name: "valid token", configured: testToken, header: "Bearer " + testToken, wantStatus: http.StatusOK, wantBody: "metrics"},
		{name: "invalid token", configured: testToken, header: "Bearer wrong", wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "missing header", configured: testToken, wantStatus: http.StatusUnauthorized, wantBody: "Bearer token required"},
		{name: "basic scheme", configured: testToken, header: "Basic dGVzdDp0ZXN0", wantStatus: http.StatusUnauthorized, wantBody: "Bearer token required"},
		{name: "empty bearer", configured: testToken, header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: "Bearer token required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(MetricsAuthMiddleware(tt.configured))
			r.GET("/metrics", func(c *gin.Context) {
				c.String(http.StatusOK, "metrics")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Bearer realm="Metrics"`, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFMiddleware(t *testing.T) {
	r := setupTestRouter()
	r.Use(CSRFMiddleware())
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	r.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, "accepted")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.NotEmpty(t, token)
	cookies := w.Result().Cookies()

	post := func(form url.Values, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token", func(t *testing.T) {
		w := post(url.Values{}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "CSRF token validation failed")
	})

	t.Run("wrong token", func(t *testing.T) {
		w := post(url.Values{"csrf_token": {"forged"}}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("form field", func(t *testing.T) {
		w := post(url.Values{"csrf_token": {token}}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "accepted", w.Body.String())
	})

	t.Run("header", func(t *testing.T) {
		w := post(url.Values{}, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

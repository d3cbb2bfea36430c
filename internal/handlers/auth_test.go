package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/metrics"
	"github.com/go-authgate/hvgate/internal/mocks"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	router  *gin.Engine
	audit   *mocks.MockAuditLogger
	metrics *mocks.MockRecorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New(
		context.Background(),
		"sqlite",
		":memory:",
		&config.Config{DefaultAdminPassword: "admin-password"},
		nil,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctrl := gomock.NewController(t)
	f := &authFixture{
		audit:   mocks.NewMockAuditLogger(ctrl),
		metrics: mocks.NewMockRecorder(ctrl),
	}
	userService := services.NewUserService(s, metrics.NewNoopMetrics(), nil)
	h := NewAuthHandler(userService, f.audit, f.metrics, testBaseURL, nil)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	f.router = r
	return f
}

func postLogin(r http.Handler, username, password, redirect string) *httptest.ResponseRecorder {
	form := url.Values{
		"username": {username},
		"password": {password},
		"redirect": {redirect},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func auditEvent(event core.AuditEvent) gomock.Matcher {
	return gomock.Cond(func(e core.AuditEntry) bool { return e.Event == event })
}

func TestLoginPage(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("keeps a safe redirect", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?redirect=/healthvault/authorize", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="redirect" value="/healthvault/authorize"`)
	})

	t.Run("drops an external redirect", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?redirect=//evil.com", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="redirect" value=""`)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success follows redirect", func(t *testing.T) {
		f := newAuthFixture(t)
		f.audit.EXPECT().Log(gomock.Any(), auditEvent(core.EventLoginSuccess))

		w := postLogin(f.router, "admin", "admin-password", "/healthvault/authorize?next=/dash")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/healthvault/authorize?next=/dash", w.Header().Get("Location"))
		assert.NotEmpty(t, w.Result().Cookies())
	})

	t.Run("unsafe redirect falls back to home", func(t *testing.T) {
		f := newAuthFixture(t)
		f.audit.EXPECT().Log(gomock.Any(), auditEvent(core.EventLoginSuccess))

		w := postLogin(f.router, "admin", "admin-password", "https://evil.com/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("bad password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.audit.EXPECT().Log(gomock.Any(), auditEvent(core.EventLoginFailed))

		w := postLogin(f.router, "admin", "wrong", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	})
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	f.audit.EXPECT().Log(gomock.Any(), auditEvent(core.EventLoginSuccess))
	f.audit.EXPECT().Log(gomock.Any(), gomock.Cond(func(e core.AuditEntry) bool {
		return e.Event == core.EventLogout && e.Username == "admin"
	}))
	f.metrics.EXPECT().RecordLogout()

	login := postLogin(f.router, "admin", "admin-password", "")
	require.Equal(t, http.StatusFound, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// A second logout without a session records nothing.
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoginPage_SignedInGoesHome(t *testing.T) {
	f := newAuthFixture(t)
	f.audit.EXPECT().Log(gomock.Any(), auditEvent(core.EventLoginSuccess))

	login := postLogin(f.router, "admin", "admin-password", "")
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, ck := range login.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

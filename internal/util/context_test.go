package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/hvgate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetIPContext(t *testing.T) {
	ctx := SetIPContext(context.Background(), "192.168.1.1")
	assert.Equal(t, "192.168.1.1", GetIPFromContext(ctx))

	ctx = SetIPContext(context.Background(), "")
	assert.Empty(t, GetIPFromContext(ctx))
}

func TestGetIPFromContext_IPv6(t *testing.T) {
	ip := "2001:0db8:85a3:0000:0000:8a2e:0370:7334"
	assert.Equal(t, ip, GetIPFromContext(SetIPContext(context.Background(), ip)))
}

func TestIPContextChaining(t *testing.T) {
	type testKey int
	const testKeyOther testKey = 0

	ctx := context.WithValue(context.Background(), testKeyOther, "other_value")
	ctx = SetIPContext(ctx, "192.168.1.1")

	assert.Equal(t, "192.168.1.1", GetIPFromContext(ctx))
	assert.Equal(t, "other_value", ctx.Value(testKeyOther))
}

func TestGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:1234"

	assert.Equal(t, "10.0.0.7", GetIPFromContext(c))
	assert.Empty(t, GetUsernameFromContext(c))

	c.Set("user", &models.User{Username: "alice"})
	assert.Equal(t, "alice", GetUsernameFromContext(c))
	assert.Empty(t, GetUsernameFromContext(context.Background()))
}

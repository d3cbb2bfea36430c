package middleware

import (
	"net/http"
	"net/url"

	"github.com/go-authgate/hvgate/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserID   = "user_id"
	SessionUsername = "username"

	// ContextUser holds the *models.User loaded by RequireAuth.
	ContextUser = "user"
)

// RequireAuth requires a signed-in user. Anonymous requests are redirected
// to the login page with the original URL as the return address; a session
// whose user no longer exists is cleared.
func RequireAuth(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserID).(string)

		if userID == "" {
			redirectToLogin(c)
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			session.Clear()
			_ = session.Save()
			redirectToLogin(c)
			return
		}

		c.Set(SessionUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/middleware"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/templates"
	"github.com/go-authgate/hvgate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *services.UserService
	audit       core.AuditLogger
	metrics     core.Recorder
	baseURL     string
	logger      *zap.Logger
}

func NewAuthHandler(
	us *services.UserService,
	audit core.AuditLogger,
	m core.Recorder,
	baseURL string,
	logger *zap.Logger,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		userService: us,
		audit:       audit,
		metrics:     m,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(middleware.SessionUserID) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	redirectTo := c.Query("redirect")
	if !util.IsRedirectSafe(redirectTo, h.baseURL) {
		redirectTo = ""
	}

	templates.RenderTempl(c, http.StatusOK, templates.LoginPage(templates.LoginPageProps{
		BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		Redirect:  redirectTo,
		Error:     c.Query("error"),
	}))
}

// Login handles the login form submission
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	redirectTo := c.PostForm("redirect")

	if !util.IsRedirectSafe(redirectTo, h.baseURL) {
		redirectTo = ""
	}

	user, err := h.userService.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		entry := core.AuditEntry{
			Event:        core.EventLoginFailed,
			Username:     username,
			Success:      false,
			ErrorMessage: err.Error(),
			UserAgent:    c.Request.UserAgent(),
		}
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Error("login failed", zap.String("username", username), zap.Error(err))
		}
		h.audit.Log(c.Request.Context(), entry)

		templates.RenderTempl(
			c,
			http.StatusUnauthorized,
			templates.LoginPage(templates.LoginPageProps{
				BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
				Error:     "Invalid username or password",
				Redirect:  redirectTo,
			}),
		)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, user.ID)
	session.Set(middleware.SessionUsername, user.Username)
	if err := session.Save(); err != nil {
		templates.RenderTempl(
			c,
			http.StatusInternalServerError,
			templates.LoginPage(templates.LoginPageProps{
				BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
				Error:     "Failed to create session",
			}),
		)
		return
	}

	h.audit.Log(c.Request.Context(), core.AuditEntry{
		Event:     core.EventLoginSuccess,
		UserID:    user.ID,
		Username:  user.Username,
		Success:   true,
		UserAgent: c.Request.UserAgent(),
	})

	if redirectTo != "" {
		c.Redirect(http.StatusFound, redirectTo)
	} else {
		c.Redirect(http.StatusFound, "/")
	}
}

// Logout clears the session and redirects to login
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	userID, _ := session.Get(middleware.SessionUserID).(string)
	username, _ := session.Get(middleware.SessionUsername).(string)

	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save session",
		})
		return
	}

	if userID != "" {
		h.metrics.RecordLogout()
		h.audit.Log(c.Request.Context(), core.AuditEntry{
			Event:    core.EventLogout,
			UserID:   userID,
			Username: username,
			Success:  true,
		})
	}
	c.Redirect(http.StatusFound, "/login")
}

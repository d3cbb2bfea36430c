package handlers

import (
	"errors"
	"net/http"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/middleware"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/templates"
	"github.com/go-authgate/hvgate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// SessionHealthVaultNext holds the Pending Redirect Intent between the
// outbound redirect and the shell's callback.
const SessionHealthVaultNext = "healthvault_next"

// HealthVaultHandler adapts handshake.Machine to gin: it reads the request
// and session, runs the operation and writes the outcome back.
type HealthVaultHandler struct {
	machine      *handshake.Machine
	associations *services.AssociationService
	templates    *templates.FileCache
	baseURL      string
	logger       *zap.Logger
}

func NewHealthVaultHandler(
	machine *handshake.Machine,
	associations *services.AssociationService,
	fileCache *templates.FileCache,
	baseURL string,
	logger *zap.Logger,
) *HealthVaultHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileCache == nil {
		fileCache = templates.NewFileCache()
	}
	return &HealthVaultHandler{
		machine:      machine,
		associations: associations,
		templates:    fileCache,
		baseURL:      baseURL,
		logger:       logger,
	}
}

// Authorize sends the user to HealthVault to grant this application access.
// Query: next (return address), keep (default true).
func (h *HealthVaultHandler) Authorize(c *gin.Context) {
	keep := true
	if raw := c.Query("keep"); raw != "" {
		parsed, err := cast.ToBoolE(raw)
		if err != nil {
			templates.RenderTempl(c, http.StatusBadRequest, templates.ErrorPage(templates.ErrorPageProps{
				Title: "Bad Request",
				Error: "The keep parameter must be a boolean.",
			}))
			return
		}
		keep = parsed
	}

	out, err := h.machine.Authorize(c.Request.Context(), currentUser(c), h.safeNext(c.Query("next")), keep)
	h.respond(c, "authorize", out, err)
}

// Deauthorize removes the user's association and signs them out of the
// application at HealthVault.
func (h *HealthVaultHandler) Deauthorize(c *gin.Context) {
	out, err := h.machine.Deauthorize(c.Request.Context(), currentUser(c), h.safeNext(c.Query("next")))
	h.respond(c, "deauthorize", out, err)
}

// Complete is the shell's return address.
func (h *HealthVaultHandler) Complete(c *gin.Context) {
	pending, _ := sessions.Default(c).Get(SessionHealthVaultNext).(string)
	out, err := h.machine.Complete(
		c.Request.Context(),
		currentUser(c),
		c.Query("target"),
		c.Query("wctoken"),
		pending,
	)
	h.respond(c, "complete", out, err)
}

// Error renders the handshake error view.
func (h *HealthVaultHandler) Error(c *gin.Context) {
	out := h.machine.Error(c.Request.Context(), currentUser(c))
	h.respond(c, "error", out, nil)
}

// Status reports whether the signed-in user has linked a HealthVault record.
func (h *HealthVaultHandler) Status(c *gin.Context) {
	integrated, err := h.associations.IsIntegrated(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.logger.Error("failed to load integration status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Failed to load integration status",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"integrated": integrated})
}

// respond applies out to the session and response. The pending redirect is
// written even when err is set, so a failed callback never leaves a stale
// destination behind.
func (h *HealthVaultHandler) respond(c *gin.Context, operation string, out handshake.Outcome, err error) {
	if saveErr := applyPending(sessions.Default(c), out.Pending); saveErr != nil {
		h.logger.Error("failed to save session",
			zap.String("operation", operation), zap.Error(saveErr))
		renderError(c, http.StatusInternalServerError, "Internal server error. Failed to save session.")
		return
	}

	if err != nil {
		h.handleError(c, operation, err)
		return
	}

	if out.RenderError {
		h.renderHandshakeError(c, out.ErrorTemplate)
		return
	}
	c.Redirect(http.StatusFound, out.Redirect)
}

func (h *HealthVaultHandler) handleError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, handshake.ErrUnknownTarget):
		templates.RenderTempl(c, http.StatusNotFound, templates.ErrorPage(templates.ErrorPageProps{
			Title: "Not Found",
			Error: "The requested page does not exist.",
		}))
	case errors.Is(err, config.ErrConfiguration):
		h.logger.Error("healthvault is misconfigured", zap.String("operation", operation), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "HealthVault integration is not configured correctly.")
	default:
		h.logger.Error("healthvault handshake error", zap.String("operation", operation), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Internal server error. Please try again later.")
	}
}

// renderHandshakeError renders the operator's template when one is
// configured, otherwise the built-in page.
func (h *HealthVaultHandler) renderHandshakeError(c *gin.Context, path string) {
	if path != "" {
		data := gin.H{"Username": currentUser(c).Username}
		err := h.templates.Render(c, http.StatusOK, path, data)
		if err == nil {
			return
		}
		h.logger.Error("failed to render error template", zap.String("path", path), zap.Error(err))
	}
	templates.RenderTempl(c, http.StatusOK, templates.HealthVaultErrorPage())
}

// safeNext drops return addresses pointing off this site.
func (h *HealthVaultHandler) safeNext(next string) string {
	if !util.IsRedirectSafe(next, h.baseURL) {
		h.logger.Info("ignoring unsafe next url", zap.String("next", next))
		return ""
	}
	return next
}

func applyPending(session sessions.Session, p handshake.Pending) error {
	switch p.Op {
	case handshake.PendingSet:
		session.Set(SessionHealthVaultNext, p.Next)
	case handshake.PendingClear:
		session.Delete(SessionHealthVaultNext)
	default:
		return nil
	}
	return session.Save()
}

func currentUser(c *gin.Context) handshake.User {
	user, ok := c.MustGet(middleware.ContextUser).(*models.User)
	if !ok {
		return handshake.User{}
	}
	return handshake.User{ID: user.ID, Username: user.Username}
}

func renderError(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		Error: message,
	}))
}

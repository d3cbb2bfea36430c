package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-authgate/hvgate/internal/handshake"
	"github.com/go-authgate/hvgate/internal/middleware"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/services"
	"github.com/go-authgate/hvgate/internal/store"
	"github.com/go-authgate/hvgate/internal/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentEventsLimit = 10

// HomeHandler renders the signed-in landing page.
type HomeHandler struct {
	associations *services.AssociationService
	audit        *services.AuditService
	logger       *zap.Logger
}

func NewHomeHandler(
	associations *services.AssociationService,
	audit *services.AuditService,
	logger *zap.Logger,
) *HomeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeHandler{associations: associations, audit: audit, logger: logger}
}

func (h *HomeHandler) Home(c *gin.Context) {
	user := c.MustGet(middleware.ContextUser).(*models.User)
	ctx := c.Request.Context()

	props := templates.HomePageProps{
		BaseProps:      templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		NavbarProps:    templates.NavbarProps{Username: user.Username, IsAdmin: user.IsAdmin()},
		AuthorizeURL:   handshake.AuthorizePath + "?next=" + url.QueryEscape("/"),
		DeauthorizeURL: handshake.DeauthorizePath + "?next=" + url.QueryEscape("/"),
	}

	link, err := h.associations.Get(ctx, user.ID)
	switch {
	case err == nil:
		props.Integrated = true
		props.RecordID = link.RecordID
	case !errors.Is(err, store.ErrRecordNotFound):
		h.logger.Error("failed to load association", zap.String("user_id", user.ID), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Internal server error. Please try again later.")
		return
	}

	events, err := h.audit.RecentForUser(ctx, user.ID, recentEventsLimit)
	if err != nil {
		h.logger.Warn("failed to load recent audit events", zap.String("user_id", user.ID), zap.Error(err))
	}
	props.RecentEvents = events

	templates.RenderTempl(c, http.StatusOK, templates.HomePage(props))
}

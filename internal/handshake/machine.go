// Package handshake drives the HealthVault redirect handshake: it builds the
// outbound shell URLs, dispatches the shell's callback by target, keeps the
// user's association in step with the outcome and decides where the browser
// goes next.
//
// The machine never touches an HTTP session. Each operation takes the
// current pending redirect as a value and returns the new one in Outcome,
// leaving the read-modify-write to the caller.
package handshake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/metrics"
	"github.com/go-authgate/hvgate/internal/models"
	"github.com/go-authgate/hvgate/internal/store"
	"github.com/go-authgate/hvgate/internal/util"

	"go.uber.org/zap"
)

// Routes served by the HealthVault handlers.
const (
	AuthorizePath   = "/healthvault/authorize"
	DeauthorizePath = "/healthvault/deauthorize"
	CompletePath    = "/healthvault/complete"
	ErrorPath       = "/healthvault/error"
	StatusPath      = "/healthvault/status"
)

// Associations is the subset of the association service the machine needs.
type Associations interface {
	Get(ctx context.Context, userID string) (*models.HealthVaultUser, error)
	Save(ctx context.Context, userID, recordID, accessToken string) (*models.HealthVaultUser, error)
	Delete(ctx context.Context, userID string) error
}

// User identifies the signed-in caller.
type User struct {
	ID       string
	Username string
}

// Machine runs handshake operations for one configured HealthVault
// application. It is safe for concurrent use.
type Machine struct {
	factory  core.ConnectionFactory
	assoc    Associations
	settings config.HealthVault
	baseURL  string
	metrics  core.Recorder
	audit    core.AuditLogger
	logger   *zap.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithMetrics sets the metrics recorder.
func WithMetrics(m core.Recorder) Option {
	return func(h *Machine) { h.metrics = m }
}

// WithAuditLogger sets the audit sink.
func WithAuditLogger(a core.AuditLogger) Option {
	return func(h *Machine) { h.audit = a }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Machine) { h.logger = l }
}

type nopAudit struct{}

func (nopAudit) Log(context.Context, core.AuditEntry) {}

// NewMachine creates a Machine. baseURL is the externally visible root of
// this service, used for the development-mode callback URL.
func NewMachine(
	settings config.HealthVault,
	baseURL string,
	factory core.ConnectionFactory,
	assoc Associations,
	opts ...Option,
) *Machine {
	m := &Machine{
		factory:  factory,
		assoc:    assoc,
		settings: settings,
		baseURL:  baseURL,
		metrics:  metrics.NewNoopMetrics(),
		audit:    nopAudit{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CallbackURL is the completion URL handed to the shell. In production it is
// empty and the shell uses the callback registered for the application.
func (m *Machine) CallbackURL() string {
	if !m.settings.InDevelopment {
		return ""
	}
	return m.baseURL + CompletePath
}

// Authorize starts a handshake granting this application access to the
// user's record. With keep set and an existing association, the request is
// scoped to the already granted record.
func (m *Machine) Authorize(ctx context.Context, user User, next string, keep bool) (Outcome, error) {
	out := Outcome{Pending: pendingFrom(next)}

	params := core.ConnParams{}
	if keep {
		link, err := m.assoc.Get(ctx, user.ID)
		switch {
		case err == nil:
			params.RecordID = link.RecordID
		case !errors.Is(err, store.ErrRecordNotFound):
			return out, fmt.Errorf("load association: %w", err)
		}
	}

	conn, err := m.factory.Create(params)
	if err != nil {
		return out, err
	}

	target, err := conn.AuthorizationURL(m.CallbackURL())
	if err != nil {
		m.fail(ctx, user, "authorize", "upstream_error", err)
		out.Redirect = ErrorPath
		return out, nil
	}

	m.metrics.RecordHandshake("authorize", "redirect")
	m.audit.Log(ctx, core.AuditEntry{
		Event:    core.EventHealthVaultAuthorize,
		UserID:   user.ID,
		Username: user.Username,
		Success:  true,
		Details:  map[string]any{"keep": keep, "record_id": params.RecordID},
	})
	out.Redirect = target
	return out, nil
}

// Deauthorize removes the user's association and signs them out of the
// application at HealthVault. A user without an association is sent
// straight to next (or the default) with the session left alone and no
// call to HealthVault.
func (m *Machine) Deauthorize(ctx context.Context, user User, next string) (Outcome, error) {
	link, err := m.assoc.Get(ctx, user.ID)
	if errors.Is(err, store.ErrRecordNotFound) {
		m.metrics.RecordHandshake("deauthorize", "not_integrated")
		return Outcome{Redirect: orDefault(next, m.settings.DeauthorizeRedirect)}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load association: %w", err)
	}

	out := Outcome{Pending: pendingFrom(next)}

	conn, err := m.factory.Create(core.ConnParams{Token: link.AccessToken, RecordID: link.RecordID})
	if err != nil {
		return out, err
	}

	target, err := conn.DeauthorizationURL(m.CallbackURL())
	if err != nil {
		m.fail(ctx, user, "deauthorize", "upstream_error", err, tokenField(link.AccessToken))
		out.Redirect = ErrorPath
		return out, nil
	}

	if err := m.assoc.Delete(ctx, user.ID); err != nil {
		return out, fmt.Errorf("delete association: %w", err)
	}

	m.metrics.RecordHandshake("deauthorize", "redirect")
	m.audit.Log(ctx, core.AuditEntry{
		Event:    core.EventHealthVaultDeauthorize,
		UserID:   user.ID,
		Username: user.Username,
		Success:  true,
		Details:  map[string]any{"record_id": link.RecordID},
	})
	out.Redirect = target
	return out, nil
}

// Complete handles the shell's callback. pending is the session's current
// pending redirect. An ErrUnknownTarget or ErrUnhandledTarget result still
// carries an Outcome whose Pending clears the session key.
func (m *Machine) Complete(
	ctx context.Context,
	user User,
	rawTarget, wcToken, pending string,
) (Outcome, error) {
	cleared := Pending{Op: PendingClear}

	target, err := ParseTarget(rawTarget)
	if err != nil {
		m.metrics.RecordHandshake("complete", "unknown_target")
		m.logger.Info("rejected callback with unknown target",
			zap.String("user_id", user.ID), zap.String("target", rawTarget))
		return Outcome{Pending: cleared}, err
	}

	if !target.Handled() {
		m.metrics.RecordHandshake("complete", "unhandled_target")
		m.logger.Error("healthvault target has no handler", zap.String("target", string(target)))
		return Outcome{Pending: cleared}, fmt.Errorf("%w: %s", ErrUnhandledTarget, target)
	}

	switch target {
	case TargetAppAuthReject:
		if err := m.assoc.Delete(ctx, user.ID); err != nil {
			return Outcome{Pending: cleared}, fmt.Errorf("delete association: %w", err)
		}
		m.metrics.RecordHandshake("complete", "rejected")
		m.audit.Log(ctx, core.AuditEntry{
			Event:    core.EventHealthVaultRejected,
			UserID:   user.ID,
			Username: user.Username,
			Success:  true,
		})
		return Outcome{Pending: cleared, Redirect: m.settings.DeniedRedirect}, nil

	case TargetSignOut:
		if err := m.assoc.Delete(ctx, user.ID); err != nil {
			return Outcome{Pending: cleared}, fmt.Errorf("delete association: %w", err)
		}
		m.metrics.RecordHandshake("complete", "signed_out")
		m.audit.Log(ctx, core.AuditEntry{
			Event:    core.EventHealthVaultSignOut,
			UserID:   user.ID,
			Username: user.Username,
			Success:  true,
		})
		return Outcome{Pending: cleared, Redirect: orDefault(pending, m.settings.DeauthorizeRedirect)}, nil

	default:
		// TargetAppAuthSuccess and TargetSelectedRecordChanged.
		return m.completeAuthorization(ctx, user, target, wcToken, pending)
	}
}

func (m *Machine) completeAuthorization(
	ctx context.Context,
	user User,
	target Target,
	wcToken, pending string,
) (Outcome, error) {
	cleared := Pending{Op: PendingClear}

	if wcToken == "" {
		m.logger.Warn("healthvault callback without wctoken",
			zap.String("user_id", user.ID), zap.String("target", string(target)))
		m.metrics.RecordHandshake("complete", "missing_token")
		return Outcome{Pending: cleared, Redirect: ErrorPath}, nil
	}

	conn, err := m.factory.Create(core.ConnParams{Token: wcToken})
	if err != nil {
		return Outcome{Pending: cleared}, err
	}

	start := time.Now()
	recordID, err := conn.ExchangeToken(ctx)
	m.metrics.RecordTokenExchange(err == nil, time.Since(start))
	if err != nil {
		m.fail(ctx, user, "complete", "upstream_error", err, tokenField(wcToken))
		return Outcome{Pending: cleared, Redirect: ErrorPath}, nil
	}

	if _, err := m.assoc.Save(ctx, user.ID, recordID, wcToken); err != nil {
		if !errors.Is(err, store.ErrValidation) {
			return Outcome{Pending: cleared}, fmt.Errorf("save association: %w", err)
		}
		m.fail(ctx, user, "complete", "invalid", err, tokenField(wcToken))
		return Outcome{Pending: cleared, Redirect: ErrorPath}, nil
	}

	m.metrics.RecordHandshake("complete", "success")
	m.audit.Log(ctx, core.AuditEntry{
		Event:    core.EventHealthVaultLinked,
		UserID:   user.ID,
		Username: user.Username,
		Success:  true,
		Details:  map[string]any{"target": string(target), "record_id": recordID},
	})
	return Outcome{Pending: cleared, Redirect: orDefault(pending, m.settings.AuthorizeRedirect)}, nil
}

// Error clears the pending redirect and asks for the error view. It needs no
// credentials and no association.
func (m *Machine) Error(_ context.Context, _ User) Outcome {
	m.metrics.RecordHandshake("error", "rendered")
	return Outcome{
		Pending:       Pending{Op: PendingClear},
		RenderError:   true,
		ErrorTemplate: m.settings.ErrorTemplate,
	}
}

func (m *Machine) fail(
	ctx context.Context,
	user User,
	operation, result string,
	err error,
	fields ...zap.Field,
) {
	m.logger.Warn("healthvault handshake failed", append([]zap.Field{
		zap.String("operation", operation),
		zap.String("result", result),
		zap.String("user_id", user.ID),
		zap.Error(err),
	}, fields...)...)
	m.metrics.RecordHandshake(operation, result)
	m.audit.Log(ctx, core.AuditEntry{
		Event:        core.EventHealthVaultFailed,
		UserID:       user.ID,
		Username:     user.Username,
		Success:      false,
		ErrorMessage: err.Error(),
		Details:      map[string]any{"operation": operation, "result": result},
	})
}

// tokenField logs a wctoken by fingerprint only.
func tokenField(wcToken string) zap.Field {
	return zap.String("wctoken_fp", util.Fingerprint(wcToken))
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

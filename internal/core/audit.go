package core

import "context"

// AuditEvent names a recorded security-relevant action.
type AuditEvent string

const (
	EventHealthVaultAuthorize   AuditEvent = "HEALTHVAULT_AUTHORIZE"
	EventHealthVaultLinked      AuditEvent = "HEALTHVAULT_LINKED"
	EventHealthVaultRejected    AuditEvent = "HEALTHVAULT_REJECTED"
	EventHealthVaultDeauthorize AuditEvent = "HEALTHVAULT_DEAUTHORIZE"
	EventHealthVaultSignOut     AuditEvent = "HEALTHVAULT_SIGNOUT"
	EventHealthVaultFailed      AuditEvent = "HEALTHVAULT_FAILED"
	EventLoginSuccess           AuditEvent = "LOGIN_SUCCESS"
	EventLoginFailed            AuditEvent = "LOGIN_FAILED"
	EventLogout                 AuditEvent = "LOGOUT"
)

// AuditEntry is one event handed to an AuditLogger.
type AuditEntry struct {
	Event        AuditEvent
	UserID       string
	Username     string
	Success      bool
	Details      map[string]any
	ErrorMessage string
	IPAddress    string
	UserAgent    string
}

// AuditLogger records audit entries. Implementations must not block the
// request path.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
}

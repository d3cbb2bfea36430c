package healthvault

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream marks every failure reported by, or on the way to, the
	// HealthVault platform. Callers redirect the user to the error view.
	ErrUpstream = errors.New("healthvault: upstream failure")

	// ErrMalformedCredentials marks credential values the client cannot use.
	ErrMalformedCredentials = errors.New("healthvault: malformed credentials")

	// ErrMissingToken is returned by ExchangeToken on a connection built without a token.
	ErrMissingToken = errors.New("healthvault: connection has no token")
)

// CredentialError names the credential that failed to parse.
type CredentialError struct {
	Key    string
	Reason string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("healthvault: %s %s", e.Key, e.Reason)
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrMalformedCredentials
}

// PlatformError is a non-zero status code in a platform response.
type PlatformError struct {
	Code    int
	Message string
}

func (e *PlatformError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("healthvault: platform status %d", e.Code)
	}
	return fmt.Sprintf("healthvault: platform status %d: %s", e.Code, e.Message)
}

func (e *PlatformError) Is(target error) bool {
	return target == ErrUpstream
}

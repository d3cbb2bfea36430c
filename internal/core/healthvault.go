package core

import "context"

// ConnParams scopes a HealthVault connection. Both fields are optional.
type ConnParams struct {
	// Token is the wctoken handed back by the shell, or a stored access token.
	Token string
	// RecordID restricts an authorization request to a previously granted record.
	RecordID string
}

// HealthVaultClient is a request-scoped handle to the HealthVault service.
type HealthVaultClient interface {
	// AuthorizationURL returns the shell URL that asks the user to grant access.
	// An empty callbackURL leaves the return address to the application's
	// registration at HealthVault.
	AuthorizationURL(callbackURL string) (string, error)

	// DeauthorizationURL returns the shell URL that signs the user out of the
	// application.
	DeauthorizationURL(callbackURL string) (string, error)

	// ExchangeToken trades the connection token for the selected record id.
	ExchangeToken(ctx context.Context) (string, error)
}

// ConnectionFactory builds HealthVaultClient handles from the configured
// credentials.
type ConnectionFactory interface {
	Create(params ConnParams) (HealthVaultClient, error)
}

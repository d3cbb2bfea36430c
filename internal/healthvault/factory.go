package healthvault

import (
	"errors"
	"net/http"

	"github.com/go-authgate/hvgate/internal/config"
	"github.com/go-authgate/hvgate/internal/core"
	"github.com/go-authgate/hvgate/internal/version"

	"go.uber.org/zap"
)

var _ core.ConnectionFactory = (*Factory)(nil)

// Factory validates the configured credentials and builds connections.
// Its transport, and so its circuit breaker, is shared by every connection.
type Factory struct {
	settings  config.HealthVault
	transport *transport
}

// Option configures a Factory.
type Option func(*factoryOptions)

type factoryOptions struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// WithHTTPClient replaces the client used for platform calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *factoryOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger sets the factory logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *factoryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewFactory creates a connection factory. Credentials are checked on every
// Create, not here, so a misconfigured deployment fails at the request that
// needs them.
func NewFactory(settings config.HealthVault, opts ...Option) *Factory {
	o := &factoryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: settings.Timeout}
	}

	return &Factory{
		settings: settings,
		transport: newTransport(
			o.httpClient,
			settings.MaxRetries,
			settings.RetryDelay,
			settings.BreakerFailures,
			settings.BreakerTimeout,
			o.logger,
			version.UserAgent(),
		),
	}
}

// Create returns a connection scoped by params.
//
// An empty credential yields a config.ConfigurationError for each missing
// key. Unusable key material is reported as a ConfigurationError naming the
// key. Any other failure is returned unchanged.
func (f *Factory) Create(params core.ConnParams) (core.HealthVaultClient, error) {
	if err := f.settings.ValidateCredentials(); err != nil {
		return nil, err
	}

	creds, err := parseCredentials(f.settings)
	if err != nil {
		var credErr *CredentialError
		if errors.As(err, &credErr) {
			return nil, config.Malformed(credErr.Key, credErr.Reason)
		}
		return nil, err
	}

	return &Conn{creds: creds, params: params, transport: f.transport}, nil
}

// BreakerState reports the platform circuit breaker state ("closed",
// "half-open" or "open").
func (f *Factory) BreakerState() string {
	return f.transport.state().String()
}

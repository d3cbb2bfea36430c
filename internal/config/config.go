package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// Cache type constants
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
	CacheTypeNone   = "none"
)

// Rate limit store constants
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// HealthVault holds the remote-service credentials and handshake settings.
type HealthVault struct {
	AppID       string
	Thumbprint  string
	PublicKey   string // decimal integer
	PrivateKey  string // decimal integer
	Server      string
	ShellServer string

	AuthorizeRedirect   string
	DeauthorizeRedirect string
	DeniedRedirect      string
	ErrorTemplate       string // empty renders the built-in error page
	InDevelopment       bool   // pass an absolute callback URL to the shell

	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// Credential returns the credential value stored under a Key* name.
func (h HealthVault) Credential(key string) string {
	switch key {
	case KeyAppID:
		return h.AppID
	case KeyThumbprint:
		return h.Thumbprint
	case KeyPublicKey:
		return h.PublicKey
	case KeyPrivateKey:
		return h.PrivateKey
	case KeyServer:
		return h.Server
	case KeyShellServer:
		return h.ShellServer
	default:
		return ""
	}
}

type Config struct {
	// Server settings
	ServerAddr    string
	BaseURL       string
	IsProduction  bool
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string
	DBInitTimeout  time.Duration

	// HealthVault
	HealthVault HealthVault

	// Integration status cache
	CacheType        string // "memory", "redis" or "none"
	CacheTTL         time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Rate limiting
	EnableRateLimit      bool
	RateLimitStore       string // "memory" or "redis"
	HealthVaultRateLimit int    // requests per minute on /healthvault/*
	LoginRateLimit       int    // requests per minute on POST /login

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateInterval time.Duration

	// Audit
	EnableAuditLogging bool
	AuditLogBufferSize int
	AuditLogRetention  time.Duration

	// Seeded admin user
	DefaultAdminPassword string

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads configuration from the environment (and a .env file if present).
func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return FromResolver(NewResolver(nil, Defaults))
}

// FromResolver builds a Config from any settings source.
func FromResolver(r *Resolver) *Config {
	isProduction := strings.EqualFold(r.String("ENVIRONMENT", "development"), "production")

	return &Config{
		ServerAddr:    r.String("SERVER_ADDR", ":8080"),
		BaseURL:       strings.TrimRight(r.String("BASE_URL", "http://localhost:8080"), "/"),
		IsProduction:  isProduction,
		SessionSecret: r.String("SESSION_SECRET", ""),
		SessionMaxAge: r.Int("SESSION_MAX_AGE", 86400),

		DatabaseDriver: r.String("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    r.String("DATABASE_DSN", "hvgate.db"),
		DBInitTimeout:  r.Duration("DB_INIT_TIMEOUT", 30*time.Second),

		HealthVault: HealthVault{
			AppID:       r.String(KeyAppID, ""),
			Thumbprint:  r.String(KeyThumbprint, ""),
			PublicKey:   r.String(KeyPublicKey, ""),
			PrivateKey:  r.String(KeyPrivateKey, ""),
			Server:      r.String(KeyServer, ""),
			ShellServer: r.String(KeyShellServer, ""),

			AuthorizeRedirect:   r.String(KeyAuthorizeRedirect, "/"),
			DeauthorizeRedirect: r.String(KeyDeauthorizeRedirect, "/"),
			DeniedRedirect:      r.String(KeyDeniedRedirect, "/"),
			ErrorTemplate:       r.String(KeyErrorTemplate, ""),
			// Defaults to the framework's debug flag.
			InDevelopment: r.Bool(KeyInDevelopment, !isProduction),

			Timeout:         r.Duration("HEALTHVAULT_TIMEOUT", 15*time.Second),
			MaxRetries:      r.Int("HEALTHVAULT_MAX_RETRIES", 2),
			RetryDelay:      r.Duration("HEALTHVAULT_RETRY_DELAY", 500*time.Millisecond),
			BreakerFailures: r.Int("HEALTHVAULT_BREAKER_FAILURES", 5),
			BreakerTimeout:  r.Duration("HEALTHVAULT_BREAKER_TIMEOUT", time.Minute),
		},

		CacheType:        r.String("CACHE_TYPE", CacheTypeMemory),
		CacheTTL:         r.Duration("CACHE_TTL", 5*time.Minute),
		RedisAddr:        r.String("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    r.String("REDIS_PASSWORD", ""),
		RedisDB:          r.Int("REDIS_DB", 0),
		RedisConnTimeout: r.Duration("REDIS_CONN_TIMEOUT", 5*time.Second),

		EnableRateLimit:      r.Bool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:       r.String("RATE_LIMIT_STORE", RateLimitStoreMemory),
		HealthVaultRateLimit: r.Int("HEALTHVAULT_RATE_LIMIT", 30),
		LoginRateLimit:       r.Int("LOGIN_RATE_LIMIT", 10),

		MetricsEnabled:             r.Bool("METRICS_ENABLED", false),
		MetricsToken:               r.String("METRICS_TOKEN", ""),
		MetricsGaugeUpdateInterval: r.Duration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),

		EnableAuditLogging: r.Bool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize: r.Int("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:  r.Duration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		DefaultAdminPassword: r.String("DEFAULT_ADMIN_PASSWORD", ""),

		LogLevel:      r.String("LOG_LEVEL", "info"),
		LogFile:       r.String("LOG_FILE", ""),
		LogMaxSizeMB:  r.Int("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: r.Int("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: r.Int("LOG_MAX_AGE_DAYS", 28),
	}
}

// ValidateCredentials reports every empty HealthVault credential.
func (h HealthVault) ValidateCredentials() error {
	var err error
	for _, key := range CredentialKeys {
		if strings.TrimSpace(h.Credential(key)) == "" {
			err = multierr.Append(err, Missing(key))
		}
	}
	return err
}

// Validate checks the whole configuration and returns every problem found.
func (c *Config) Validate() error {
	err := c.HealthVault.ValidateCredentials()

	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		err = multierr.Append(err, Malformed(
			"DATABASE_DRIVER",
			fmt.Sprintf("unsupported driver %q (must be: sqlite, postgres)", c.DatabaseDriver),
		))
	}

	switch c.CacheType {
	case CacheTypeMemory, CacheTypeRedis, CacheTypeNone:
	default:
		err = multierr.Append(err, Malformed(
			"CACHE_TYPE",
			fmt.Sprintf("invalid value %q (must be: memory, redis, none)", c.CacheType),
		))
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		err = multierr.Append(err, Malformed(
			"RATE_LIMIT_STORE",
			fmt.Sprintf("invalid value %q (must be: memory, redis)", c.RateLimitStore),
		))
	}

	if c.IsProduction && c.SessionSecret == Defaults["SESSION_SECRET"] {
		err = multierr.Append(err, Malformed(
			"SESSION_SECRET",
			"the development default must not be used in production",
		))
	}

	if c.CacheTTL <= 0 && c.CacheType != CacheTypeNone {
		err = multierr.Append(err, Malformed("CACHE_TTL", "must be positive"))
	}

	return err
}

package config

// Setting names shared by the resolver, Load and the connection factory.
const (
	KeyAppID       = "HEALTHVAULT_APP_ID"
	KeyThumbprint  = "HEALTHVAULT_THUMBPRINT"
	KeyPublicKey   = "HEALTHVAULT_PUBLIC_KEY"
	KeyPrivateKey  = "HEALTHVAULT_PRIVATE_KEY"
	KeyServer      = "HEALTHVAULT_SERVER"
	KeyShellServer = "HEALTHVAULT_SHELL_SERVER"

	KeyAuthorizeRedirect   = "HEALTHVAULT_AUTHORIZE_REDIRECT"
	KeyDeauthorizeRedirect = "HEALTHVAULT_DEAUTHORIZE_REDIRECT"
	KeyDeniedRedirect      = "HEALTHVAULT_DENIED_REDIRECT"
	KeyErrorTemplate       = "HEALTHVAULT_ERROR_TEMPLATE"
	KeyInDevelopment       = "HEALTHVAULT_IN_DEVELOPMENT"
)

// CredentialKeys lists the remote-service credentials in validation order.
// None of them has a default.
var CredentialKeys = []string{
	KeyAppID,
	KeyThumbprint,
	KeyPublicKey,
	KeyPrivateKey,
	KeyServer,
	KeyShellServer,
}

// Defaults holds the built-in fallback for every externally tunable setting.
// Credentials are deliberately absent so resolving them fails loudly.
var Defaults = map[string]string{
	KeyAuthorizeRedirect:   "/",
	KeyDeauthorizeRedirect: "/",
	KeyDeniedRedirect:      "/",
	KeyErrorTemplate:       "",

	"SERVER_ADDR":     ":8080",
	"BASE_URL":        "http://localhost:8080",
	"ENVIRONMENT":     "development",
	"SESSION_SECRET":  "session-secret-change-in-production",
	"SESSION_MAX_AGE": "86400",

	"DATABASE_DRIVER": "sqlite",
	"DATABASE_DSN":    "hvgate.db",
	"DB_INIT_TIMEOUT": "30s",

	"HEALTHVAULT_TIMEOUT":          "15s",
	"HEALTHVAULT_MAX_RETRIES":      "2",
	"HEALTHVAULT_RETRY_DELAY":      "500ms",
	"HEALTHVAULT_BREAKER_FAILURES": "5",
	"HEALTHVAULT_BREAKER_TIMEOUT":  "60s",

	"CACHE_TYPE":         CacheTypeMemory,
	"CACHE_TTL":          "5m",
	"REDIS_ADDR":         "localhost:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           "0",
	"REDIS_CONN_TIMEOUT": "5s",

	"ENABLE_RATE_LIMIT":      "true",
	"RATE_LIMIT_STORE":       RateLimitStoreMemory,
	"HEALTHVAULT_RATE_LIMIT": "30",
	"LOGIN_RATE_LIMIT":       "10",

	"METRICS_ENABLED":               "false",
	"METRICS_TOKEN":                 "",
	"METRICS_GAUGE_UPDATE_INTERVAL": "5m",

	"ENABLE_AUDIT_LOGGING":  "true",
	"AUDIT_LOG_BUFFER_SIZE": "1000",
	"AUDIT_LOG_RETENTION":   "2160h",

	"DEFAULT_ADMIN_PASSWORD": "",

	"LOG_LEVEL":        "info",
	"LOG_FILE":         "",
	"LOG_MAX_SIZE_MB":  "100",
	"LOG_MAX_BACKUPS":  "5",
	"LOG_MAX_AGE_DAYS": "28",
}

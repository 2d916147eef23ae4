package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceRemote   = "remote"

	// DefaultAdminPassword mirrors the fallback used before the dashboard had
	// any configuration. Startup logs a warning whenever it is in effect.
	DefaultAdminPassword = "change-me-in-production"
)

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required")
	ErrMissingRemoteBaseURL = errors.New("REMOTE_API_BASE_URL is required")
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                  string
	Port                    string
	DatabaseURL             string
	DBMaxConns              int
	DBStatementTimeout      time.Duration
	DataSource              string
	RemoteAPIBaseURL        string
	RemoteAPITimeout        time.Duration
	AdminPassword           string
	AdminPasswordHash       string
	SessionCookieName       string
	SessionHashKey          string
	SessionStrict           bool
	SessionMaxAge           time.Duration
	TimezoneName            string
	Location                *time.Location
	DefaultLocale           string
	GeoIPDBPath             string
	CSVEscapeQuotes         bool
	SearchLogsFailurePolicy string
	AllowedOrigins          []string
	HTTPReadTimeout         time.Duration
	HTTPWriteTimeout        time.Duration
	HTTPIdleTimeout         time.Duration
	PasswordRatePerMin      int
}

// UsingDefaultPassword reports whether neither ADMIN_PASSWORD nor
// ADMIN_PASSWORD_HASH was provided.
func (c *Config) UsingDefaultPassword() bool {
	return c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                  getEnv("APP_ENV", "development"),
		Port:                    getEnv("PORT", "8080"),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              getEnvInt("DB_MAX_CONNS", 10),
		DBStatementTimeout:      time.Second * time.Duration(getEnvInt("DB_STATEMENT_TIMEOUT_SECONDS", 30)),
		DataSource:              strings.ToLower(getEnv("DATA_SOURCE", DataSourcePostgres)),
		RemoteAPIBaseURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("REMOTE_API_BASE_URL")), "/"),
		RemoteAPITimeout:        time.Second * time.Duration(getEnvInt("REMOTE_API_TIMEOUT_SECONDS", 15)),
		AdminPassword:           getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		AdminPasswordHash:       strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "admin_session"),
		SessionHashKey:          os.Getenv("SESSION_HASH_KEY"),
		SessionStrict:           getEnvBool("SESSION_STRICT", false),
		SessionMaxAge:           time.Hour * time.Duration(getEnvInt("SESSION_MAX_AGE_HOURS", 24)),
		TimezoneName:            getEnv("APP_TIMEZONE", "Africa/Nairobi"),
		DefaultLocale:           getEnv("DEFAULT_LOCALE", "en-KE"),
		GeoIPDBPath:             os.Getenv("GEOIP_DB_PATH"),
		CSVEscapeQuotes:         getEnvBool("CSV_ESCAPE_QUOTES", false),
		SearchLogsFailurePolicy: strings.ToLower(getEnv("SEARCH_LOGS_FAILURE_POLICY", "degrade")),
		AllowedOrigins:          splitList(os.Getenv("ALLOWED_ORIGINS")),
		HTTPReadTimeout:         time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:        time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:         time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		PasswordRatePerMin:      getEnvInt("PASSWORD_RATE_PER_MINUTE", 10),
	}

	switch cfg.DataSource {
	case DataSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	case DataSourceRemote:
		if cfg.RemoteAPIBaseURL == "" {
			return nil, ErrMissingRemoteBaseURL
		}
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", DataSourcePostgres, DataSourceRemote, cfg.DataSource)
	}

	switch cfg.SearchLogsFailurePolicy {
	case "fail", "degrade":
	default:
		return nil, fmt.Errorf("SEARCH_LOGS_FAILURE_POLICY must be fail or degrade, got %q", cfg.SearchLogsFailurePolicy)
	}

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}
	if cfg.PasswordRatePerMin <= 0 {
		cfg.PasswordRatePerMin = 10
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Access   AccessConfig
	Session  SessionConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance and validation parameters.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLMinutes int
	BcryptCost             int
	CheckURL               string
	CheckTimeoutSeconds    int
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// AccessConfig drives the route guard.
type AccessConfig struct {
	LoginPath   string
	PublicPaths []string
}

// SessionConfig selects the session storage backend.
type SessionConfig struct {
	Backend               string
	CookieName            string
	TTLMinutes            int
	HydrateTimeoutSeconds int
}

// AuditConfig controls forwarding of access events to an external webhook.
type AuditConfig struct {
	WebhookURL            string
	WebhookTimeoutSeconds int
	QueueSize             int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("SESSION_BACKEND", "redis"))
	if backend != "redis" && backend != "memory" {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q", backend)
	}

	loginPath := getEnv("ACCESS_LOGIN_PATH", "/login")
	if !strings.HasPrefix(loginPath, "/") {
		return nil, fmt.Errorf("invalid ACCESS_LOGIN_PATH %q: must start with /", loginPath)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "dashboard-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLMinutes: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", 7*24*60),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CheckURL:               os.Getenv("AUTH_CHECK_URL"),
			CheckTimeoutSeconds:    getEnvAsInt("AUTH_CHECK_TIMEOUT_SECONDS", 5),
			BootstrapAdminEmail:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
			BootstrapAdminPassword: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
		},
		Access: AccessConfig{
			LoginPath:   loginPath,
			PublicPaths: PublicPaths(loginPath, getEnv("ACCESS_PUBLIC_PATHS", "/auth,/health")),
		},
		Session: SessionConfig{
			Backend:               backend,
			CookieName:            getEnv("SESSION_COOKIE_NAME", "sid"),
			TTLMinutes:            getEnvAsInt("SESSION_TTL_MINUTES", 7*24*60),
			HydrateTimeoutSeconds: getEnvAsInt("SESSION_HYDRATE_TIMEOUT_SECONDS", 2),
		},
		Audit: AuditConfig{
			WebhookURL:            os.Getenv("AUDIT_WEBHOOK_URL"),
			WebhookTimeoutSeconds: getEnvAsInt("AUDIT_WEBHOOK_TIMEOUT_SECONDS", 5),
			QueueSize:             getEnvAsInt("AUDIT_QUEUE_SIZE", 256),
		},
	}

	return cfg, nil
}

// PublicPaths parses a comma separated prefix list and makes sure the login
// path is always part of it.
func PublicPaths(loginPath, raw string) []string {
	paths := []string{loginPath}
	seen := map[string]struct{}{loginPath: {}}
	for _, part := range strings.Split(raw, ",") {
		p := strings.TrimRight(strings.TrimSpace(part), "/")
		if p == "" || !strings.HasPrefix(p, "/") {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CheckTimeout bounds a single auth-check probe.
func (a AuthConfig) CheckTimeout() time.Duration {
	if a.CheckTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.CheckTimeoutSeconds) * time.Second
}

// TTL returns how long an idle session is kept in storage.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// HydrateTimeout bounds how long a request waits for storage before it is
// answered as pending.
func (s SessionConfig) HydrateTimeout() time.Duration {
	if s.HydrateTimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.HydrateTimeoutSeconds) * time.Second
}

// WebhookTimeout bounds a single webhook delivery.
func (a AuditConfig) WebhookTimeout() time.Duration {
	if a.WebhookTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.WebhookTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	CORSOrigins           []string
	// TrustedProxies lists peers whose X-Forwarded-For is honored. Empty
	// means the client IP is always the socket peer.
	TrustedProxies        []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr                 string
	Password             string
	DB                   int
	FeaturedCacheSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string
	TokenTTLMinutes      int
	CookieName           string
	CookieTTLDays        int
	BcryptCost           int
	RevokeOnLogout       bool
	SoftModeHonorsHeader bool
}

// RateLimitConfig throttles credential endpoints per client IP.
type RateLimitConfig struct {
	AuthRequests  int
	AuthWindowSec int
	AuthBurst     int
}

// NotificationConfig controls bill notifications.
type NotificationConfig struct {
	EmailFrom         string
	WebhookURL        string
	WebhookTimeoutSec int
	QueueSize         int
}

// WebhookTimeout bounds a single webhook delivery.
func (n NotificationConfig) WebhookTimeout() time.Duration {
	if n.WebhookTimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.WebhookTimeoutSec) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "uav-store-backend"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 10*1024),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5000",
				"http://localhost:3000",
				"http://localhost:5000",
			}),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:                 os.Getenv("REDIS_ADDR"),
			Password:             os.Getenv("REDIS_PASSWORD"),
			DB:                   redisDB,
			FeaturedCacheSeconds: getEnvAsInt("REDIS_FEATURED_CACHE_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: env != "production",
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", devJWTSecret),
			TokenTTLMinutes:      getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 24*60),
			CookieName:           getEnv("AUTH_COOKIE_NAME", "jwt"),
			CookieTTLDays:        getEnvAsInt("AUTH_COOKIE_EXPIRES_DAYS", 7),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			RevokeOnLogout:       getEnvAsBool("AUTH_REVOKE_ON_LOGOUT", false),
			SoftModeHonorsHeader: getEnvAsBool("AUTH_SOFT_MODE_HONORS_HEADER", false),
		},
		RateLimit: RateLimitConfig{
			AuthRequests:  getEnvAsInt("RATELIMIT_AUTH_REQUESTS", 10),
			AuthWindowSec: getEnvAsInt("RATELIMIT_AUTH_WINDOW_SEC", 60),
			AuthBurst:     getEnvAsInt("RATELIMIT_AUTH_BURST", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:         getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:        getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookTimeoutSec: getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5),
			QueueSize:         getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == devJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	return nil
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

// TokenTTL returns how long issued tokens stay valid.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// CookieTTL returns the lifetime of the session cookie.
func (a AuthConfig) CookieTTL() time.Duration {
	return time.Duration(a.CookieTTLDays) * 24 * time.Hour
}

// AuthWindow returns the rate limit window for credential endpoints.
func (r RateLimitConfig) AuthWindow() time.Duration {
	return time.Duration(r.AuthWindowSec) * time.Second
}

// FeaturedCacheTTL returns how long the featured product listing is cached.
func (r RedisConfig) FeaturedCacheTTL() time.Duration {
	return time.Duration(r.FeaturedCacheSeconds) * time.Second
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

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// StoreBackend selects where appointments live: "memory" keeps the
	// dashboard's mock data for the process lifetime, "postgres" persists it.
	StoreBackend string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Events EventsConfig

	Operator OperatorConfig

	// DashboardAllowedOrigins is a comma-separated allowlist of origins allowed to
	// call the API from the browser. Example:
	//   https://admin.example.com,http://localhost:5173
	DashboardAllowedOrigins []string

	// CalendarLocation is the zone calendar dates are computed in.
	CalendarLocation *time.Location

	Log LogConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type EventsConfig struct {
	// RedisURL enables publishing transition events; empty disables it.
	RedisURL string
	Stream   string
	MaxLen   int64
}

type OperatorConfig struct {
	TokenSecret   string
	TokenAudience string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		StoreBackend:   strings.ToLower(env("STORE_BACKEND", StoreMemory)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "viewingdesk"),
			User:     env("DB_USER", "viewingdesk"),
			Password: env("DB_PASSWORD", "viewingdesk"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Events: EventsConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			Stream:   env("APPOINTMENT_EVENTS_STREAM", "appointments.events"),
			MaxLen:   envInt64("APPOINTMENT_EVENTS_MAXLEN", 10000),
		},
		Operator: OperatorConfig{
			TokenSecret:   os.Getenv("OPERATOR_TOKEN_SECRET"),
			TokenAudience: env("OPERATOR_TOKEN_AUDIENCE", "viewingdesk"),
		},

		DashboardAllowedOrigins: envList("DASHBOARD_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		CalendarLocation:        envLocation("CALENDAR_TIMEZONE", time.UTC),
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "json"),
		},
	}
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envLocation(key string, fallback *time.Location) *time.Location {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return fallback
	}
	return loc
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

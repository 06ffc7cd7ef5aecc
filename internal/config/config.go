package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"finance-app-go/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	Stream      StreamConfig
	Admin       AdminSeedConfig
	Settings    SettingsConfig
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	TTL             time.Duration
	AdminTTL        time.Duration
	CookieSecure    bool
	CleanupInterval time.Duration
	CleanupDelay    time.Duration
}

type RateLimitConfig struct {
	LoginLimit     int
	LoginWindow    time.Duration
	RegisterLimit  int
	RegisterWindow time.Duration
}

type StreamConfig struct {
	Heartbeat time.Duration
	Buffer    int
}

type AdminSeedConfig struct {
	Username string
	Password string
}

type SettingsConfig struct {
	CacheTTL time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "finance_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			SQLitePath:      getEnv("SQLITE_PATH", "finance.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Session: SessionConfig{
			TTL:             getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			AdminTTL:        getEnvDuration("ADMIN_SESSION_TTL", 8*time.Hour),
			CookieSecure:    getEnvBool("SESSION_COOKIE_SECURE", true),
			CleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", time.Hour),
			CleanupDelay:    getEnvDuration("SESSION_CLEANUP_DELAY", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:     getEnvInt("LOGIN_RATE_LIMIT", 5),
			LoginWindow:    getEnvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
			RegisterLimit:  getEnvInt("REGISTER_RATE_LIMIT", 3),
			RegisterWindow: getEnvDuration("REGISTER_RATE_WINDOW", time.Hour),
		},
		Stream: StreamConfig{
			Heartbeat: getEnvDuration("STREAM_HEARTBEAT", 30*time.Second),
			Buffer:    getEnvInt("STREAM_BUFFER", 16),
		},
		Admin: AdminSeedConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Settings: SettingsConfig{
			CacheTTL: getEnvDuration("SETTINGS_CACHE_TTL", 30*time.Second),
		},
	}

	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLite {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return "file:" + c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

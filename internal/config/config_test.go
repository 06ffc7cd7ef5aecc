package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"finance-app-go/pkg/logger"
)

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.env")
	contents := `# comment
export HTTP_PORT=9090
SESSION_TTL="48h"
DB_DRIVER=sqlite
SQLITE_PATH=/tmp/ledger.db # inline comment
CORS_ALLOWED_ORIGINS=http://a.test, http://b.test
LOGIN_RATE_LIMIT=7
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	for _, key := range []string{"HTTP_PORT", "SESSION_TTL", "DB_DRIVER", "SQLITE_PATH", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("DOTENV_PATH", path)
	t.Setenv("LOGIN_RATE_LIMIT", "2")

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected port from .env, got %q", cfg.HTTPPort)
	}
	if cfg.Session.TTL != 48*time.Hour {
		t.Fatalf("expected 48h session ttl, got %v", cfg.Session.TTL)
	}
	if cfg.Session.AdminTTL != 8*time.Hour {
		t.Fatalf("expected default admin ttl, got %v", cfg.Session.AdminTTL)
	}
	if cfg.RateLimit.LoginLimit != 2 {
		t.Fatalf("expected env to win over .env, got %d", cfg.RateLimit.LoginLimit)
	}
	if cfg.DB.SQLitePath != "/tmp/ledger.db" {
		t.Fatalf("expected inline comment stripped, got %q", cfg.DB.SQLitePath)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("expected two cors origins, got %v", cfg.CORSOrigins)
	}
	if got := cfg.DB.GetDSN(); got != "file:/tmp/ledger.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)" {
		t.Fatalf("unexpected sqlite dsn %q", got)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := Load(logger.Nop()); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := DBConfig{Driver: DriverPostgres, Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

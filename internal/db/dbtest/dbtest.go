// Package dbtest opens throwaway SQLite databases with the full schema for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"finance-app-go/internal/config"
	"finance-app-go/internal/db"
	"finance-app-go/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	gormDB, err := db.Open(cfg, logger.Nop())
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})

	require.NoError(t, db.Migrate(gormDB, cfg.Driver, logger.Nop()), "migrate sqlite")
	return gormDB
}

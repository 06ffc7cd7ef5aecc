package db

import (
	"fmt"
	"time"

	"finance-app-go/internal/config"
	"finance-app-go/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute

	// Registered by modernc.org/sqlite, imported in errors.go.
	sqliteDriverName = "sqlite"
)

// Open connects to the configured store. SQLite runs with a single connection: writers are
// serialized by the pool instead of by row locks, which SQLite does not have.
func Open(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(cfg, log)
	case config.DriverPostgres, "":
		return openPostgres(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

func openPostgres(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.DSN != "" {
		log.Info("db: connecting using DSN", "driver", config.DriverPostgres)
	} else {
		log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}

	if err := configurePool(gormDB, maxOpen, maxIdle, connMaxLifetime); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverPostgres)
	return gormDB, nil
}

func openSQLite(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	log.Info("db: opening sqlite", "path", cfg.SQLitePath)

	gormDB, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        cfg.GetDSN(),
	}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := configurePool(gormDB, 1, 1, 0); err != nil {
		return nil, err
	}

	log.Info("db: connected", "driver", config.DriverSQLite)
	return gormDB, nil
}

func configurePool(gormDB *gorm.DB, maxOpen, maxIdle int, connMaxLifetime time.Duration) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func Close(gormDB *gorm.DB) error {
	if gormDB == nil {
		return nil
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package commands

import (
	"context"
	"fmt"

	"finance-app-go/internal/app"
	"finance-app-go/internal/config"
	"finance-app-go/internal/db"
	"finance-app-go/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewRootCommand builds the operator CLI. It reads the same environment and .env file as the
// server.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "finance-admin",
		Short:         "Operator tools for the finance app",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newAddUserCommand(),
		newMigrateCommand(),
		newCleanupSessionsCommand(),
		newAssignCommand(),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

type environment struct {
	cfg      config.Config
	db       *gorm.DB
	services *app.Services
	log      logger.Logger
}

// open connects to the configured store, applies migrations and makes sure the default group
// exists, so every command can run against a fresh database.
func open(ctx context.Context) (*environment, error) {
	log := logger.NewFromEnv()

	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	conn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn, cfg.DB.Driver, log); err != nil {
		_ = db.Close(conn)
		return nil, err
	}

	services := app.NewServices(cfg, conn)
	if _, err := services.Groups.EnsureDefault(ctx); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("ensure default group: %w", err)
	}

	return &environment{cfg: cfg, db: conn, services: services, log: log}, nil
}

func (e *environment) Close() error {
	return db.Close(e.db)
}

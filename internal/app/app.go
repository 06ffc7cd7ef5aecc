package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finance-app-go/internal/config"
	"finance-app-go/internal/db"
	"finance-app-go/internal/transport/httpserver"
	"finance-app-go/pkg/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	services   *Services
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, cfg.DB.Driver, log); err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	services := NewServices(cfg, dbConn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := Bootstrap(ctx, cfg, services, log); err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	log.Info("app: initializing router")
	router := services.Router(cfg, sqlDB, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		db:         dbConn,
		services:   services,
	}, nil
}

// Bootstrap makes sure the default group exists and seeds the first administrator on an empty
// user table.
func Bootstrap(ctx context.Context, cfg config.Config, services *Services, log logger.Logger) error {
	if _, err := services.Groups.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("ensure default group: %w", err)
	}

	created, err := services.Auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Info("app: seeded admin user", "username", cfg.Admin.Username)
	}
	return nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Run serves HTTP and runs the session janitor until ctx is cancelled or either fails. Live
// event streams are closed before the server drains.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http: listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.log.Info("app: shutting down")
		a.services.Hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		janitor := NewJanitor(a.services.Sessions, a.cfg.Session.CleanupDelay, a.cfg.Session.CleanupInterval, a.log)
		janitor.Run(ctx)
		return nil
	})

	return g.Wait()
}

func (a *App) Close() error {
	return db.Close(a.db)
}

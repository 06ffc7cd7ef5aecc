package app

import (
	"context"
	"time"

	sessiondomain "finance-app-go/internal/domain/session"
	"finance-app-go/pkg/logger"
)

type SessionCleaner interface {
	CleanupExpired(ctx context.Context) (sessiondomain.CleanupResult, error)
}

// Janitor purges expired sessions: once after a short delay, then on every interval.
type Janitor struct {
	sessions SessionCleaner
	delay    time.Duration
	interval time.Duration
	log      logger.Logger
}

func NewJanitor(sessions SessionCleaner, delay, interval time.Duration, log logger.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{
		sessions: sessions,
		delay:    delay,
		interval: interval,
		log:      log,
	}
}

func (j *Janitor) Run(ctx context.Context) {
	if j.delay > 0 {
		timer := time.NewTimer(j.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	result, err := j.sessions.CleanupExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		j.log.InternalError("sessions.cleanup: sweep failed", err)
		return
	}
	if result.Sessions > 0 || result.AdminSessions > 0 {
		j.log.Info("sessions.cleanup: removed expired sessions",
			"sessions", result.Sessions,
			"admin_sessions", result.AdminSessions,
		)
	}
}

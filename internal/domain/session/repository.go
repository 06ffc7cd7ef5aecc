package session

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	SetCurrentGroup(ctx context.Context, id string, groupID *int64) error
	// SwitchGroup moves the session to groupID only if its owner is a member of that group.
	// It reports false when no row matched.
	SwitchGroup(ctx context.Context, id string, userID, groupID int64) (bool, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	ListByUser(ctx context.Context, userID int64) ([]Session, error)
	DeleteByIDForUser(ctx context.Context, id string, userID int64) (bool, error)
	DeleteOtherSessions(ctx context.Context, userID int64, keepID string) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CreateAdmin(ctx context.Context, session *AdminSession) error
	GetAdminByTokenHash(ctx context.Context, tokenHash string) (*AdminSession, error)
	DeleteAdminByTokenHash(ctx context.Context, tokenHash string) error
	PurgeAdminSessions(ctx context.Context, keepID string) error
	DeleteExpiredAdmin(ctx context.Context, now time.Time) (int64, error)
}

package session

import (
	"context"
	"errors"
	"time"

	sessiondomain "finance-app-go/internal/domain/session"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(sessiondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, session *sessiondomain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*sessiondomain.Session, error) {
	var session sessiondomain.Session
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessiondomain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&sessiondomain.Session{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error
}

func (r *PostgresRepository) SetCurrentGroup(ctx context.Context, id string, groupID *int64) error {
	return r.db.WithContext(ctx).
		Model(&sessiondomain.Session{}).
		Where("id = ?", id).
		Update("current_group_id", groupID).Error
}

func (r *PostgresRepository) SwitchGroup(ctx context.Context, id string, userID, groupID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&sessiondomain.Session{}).
		Where("id = ? AND user_id = ?", id, userID).
		Where("EXISTS (SELECT 1 FROM user_groups WHERE user_groups.user_id = ? AND user_groups.group_id = ?)", userID, groupID).
		Update("current_group_id", groupID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Delete(&sessiondomain.Session{}, "token_hash = ?", tokenHash).Error
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]sessiondomain.Session, error) {
	var sessions []sessiondomain.Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed_at desc").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PostgresRepository) DeleteByIDForUser(ctx context.Context, id string, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&sessiondomain.Session{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteOtherSessions(ctx context.Context, userID int64, keepID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&sessiondomain.Session{}, "user_id = ? AND id <> ?", userID, keepID)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&sessiondomain.Session{}, "user_id = ?", userID)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&sessiondomain.Session{}, "expires_at <= ?", now)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) CreateAdmin(ctx context.Context, session *sessiondomain.AdminSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *PostgresRepository) GetAdminByTokenHash(ctx context.Context, tokenHash string) (*sessiondomain.AdminSession, error) {
	var session sessiondomain.AdminSession
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessiondomain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *PostgresRepository) DeleteAdminByTokenHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Delete(&sessiondomain.AdminSession{}, "token_hash = ?", tokenHash).Error
}

func (r *PostgresRepository) PurgeAdminSessions(ctx context.Context, keepID string) error {
	return r.db.WithContext(ctx).Delete(&sessiondomain.AdminSession{}, "id <> ?", keepID).Error
}

func (r *PostgresRepository) DeleteExpiredAdmin(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&sessiondomain.AdminSession{}, "expires_at <= ?", now)
	return result.RowsAffected, result.Error
}

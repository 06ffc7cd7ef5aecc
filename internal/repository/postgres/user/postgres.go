package user

import (
	"context"
	"errors"
	"time"

	"finance-app-go/internal/db"
	userdomain "finance-app-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]userdomain.User, error) {
	var users []userdomain.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userdomain.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if db.IsUniqueViolation(err) {
		return userdomain.ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepository) UpdatePreferences(ctx context.Context, id int64, prefs userdomain.Preferences) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"accent_color": prefs.AccentColor,
			"theme":        prefs.Theme,
			"locale":       prefs.Locale,
			"currency":     prefs.Currency,
			"privacy_mode": prefs.PrivacyMode,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_admin":   isAdmin,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) SetLastGroup(ctx context.Context, id int64, groupID *int64) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", id).
		Update("last_group_id", groupID).Error
}

// Delete removes the user with their sessions, memberships and entries. Bank rows they wrote stay
// in the group's log without an author.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"bank_amounts", "balance_history"} {
			if err := tx.Table(table).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
				return err
			}
		}
		for _, ref := range [][2]string{
			{"entries", "name_updated_by"},
			{"entries", "type_updated_by"},
			{"entry_amounts", "updated_by"},
		} {
			table, column := ref[0], ref[1]
			if err := tx.Table(table).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Table("groups").Where("created_by = ?", id).Update("created_by", nil).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM entry_amounts WHERE entry_id IN (SELECT id FROM entries WHERE user_id = ?)", id).Error; err != nil {
			return err
		}
		for _, table := range []string{"entries", "sessions", "user_groups"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&userdomain.User{}, "id = ?", id).Error
	})
}

package settings

import (
	"context"
	"errors"
	"time"

	settingsdomain "finance-app-go/internal/domain/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*settingsdomain.Settings, error) {
	var record settingsdomain.Record
	if err := r.db.WithContext(ctx).Where("id = ?", settingsdomain.RecordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settingsdomain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &settingsdomain.Settings{
		AllowRegistration:    record.AllowRegistration,
		EnableBalanceHistory: record.EnableBalanceHistory,
		UpdatedAt:            record.UpdatedAt,
	}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, settings *settingsdomain.Settings) error {
	now := time.Now().UTC()
	record := settingsdomain.Record{
		ID:                   settingsdomain.RecordID,
		AllowRegistration:    settings.AllowRegistration,
		EnableBalanceHistory: settings.EnableBalanceHistory,
		UpdatedAt:            now,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"allow_registration":     record.AllowRegistration,
				"enable_balance_history": record.EnableBalanceHistory,
				"updated_at":             now,
			}),
		}).
		Create(&record).Error; err != nil {
		return err
	}

	settings.UpdatedAt = now
	return nil
}

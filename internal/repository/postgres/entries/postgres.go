package entries

import (
	"context"
	"errors"

	entriesdomain "finance-app-go/internal/domain/entries"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(entriesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, groupID int64, year int) ([]entriesdomain.EntryWithAmounts, error) {
	var entries []entriesdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	result := make([]entriesdomain.EntryWithAmounts, 0, len(entries))
	if len(entries) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	var amounts []entriesdomain.Amount
	if err := r.db.WithContext(ctx).
		Where("entry_id IN ? AND year = ?", ids, year).
		Order("entry_id asc, month asc").
		Find(&amounts).Error; err != nil {
		return nil, err
	}

	byEntry := make(map[int64][]entriesdomain.Amount, len(entries))
	for _, amount := range amounts {
		byEntry[amount.EntryID] = append(byEntry[amount.EntryID], amount)
	}
	for _, entry := range entries {
		cells := byEntry[entry.ID]
		if cells == nil {
			cells = []entriesdomain.Amount{}
		}
		result = append(result, entriesdomain.EntryWithAmounts{Entry: entry, Amounts: cells})
	}
	return result, nil
}

func (r *PostgresRepository) GetEntry(ctx context.Context, groupID, entryID int64) (*entriesdomain.Entry, error) {
	var entry entriesdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND id = ?", groupID, entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entriesdomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *entriesdomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) UpdateEntry(ctx context.Context, entry *entriesdomain.Entry) error {
	return r.db.WithContext(ctx).
		Model(&entriesdomain.Entry{}).
		Where("id = ? AND group_id = ?", entry.ID, entry.GroupID).
		Updates(map[string]interface{}{
			"name":            entry.Name,
			"type":            entry.Type,
			"name_updated_by": entry.NameUpdatedBy,
			"type_updated_by": entry.TypeUpdatedBy,
			"updated_at":      entry.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) GetAmount(ctx context.Context, entryID int64, year, month int) (*entriesdomain.Amount, error) {
	var amount entriesdomain.Amount
	if err := r.db.WithContext(ctx).
		Where("entry_id = ? AND year = ? AND month = ?", entryID, year, month).
		First(&amount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entriesdomain.ErrAmountNotFound
		}
		return nil, err
	}
	return &amount, nil
}

func (r *PostgresRepository) ListAmounts(ctx context.Context, entryID int64, year int) ([]entriesdomain.Amount, error) {
	amounts := []entriesdomain.Amount{}
	if err := r.db.WithContext(ctx).
		Where("entry_id = ? AND year = ?", entryID, year).
		Order("month asc").
		Find(&amounts).Error; err != nil {
		return nil, err
	}
	return amounts, nil
}

func (r *PostgresRepository) UpsertAmount(ctx context.Context, amount *entriesdomain.Amount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "entry_id"},
				{Name: "year"},
				{Name: "month"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_by", "updated_at"}),
		}).
		Create(amount).Error
}

func (r *PostgresRepository) DeleteEntry(ctx context.Context, groupID, entryID int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entriesdomain.Entry{}, "group_id = ? AND id = ?", groupID, entryID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Delete(&entriesdomain.Amount{}, "entry_id = ?", entryID).Error
	})
	return deleted, err
}

package bank

import (
	"context"
	"errors"

	bankdomain "finance-app-go/internal/domain/bank"
	groupdomain "finance-app-go/internal/domain/group"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(bankdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// LockGroup takes a row lock on the group. SQLite has no row locks and drops the clause; its
// single connection already serializes writers.
func (r *PostgresRepository) LockGroup(ctx context.Context, groupID int64) error {
	var group groupdomain.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", groupID).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return groupdomain.ErrGroupNotFound
	}
	return err
}

func (r *PostgresRepository) Latest(ctx context.Context, groupID int64) (*bankdomain.Snapshot, error) {
	var snapshot bankdomain.Snapshot
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at desc, id desc").
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bankdomain.ErrNoSnapshot
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *PostgresRepository) Append(ctx context.Context, snapshot *bankdomain.Snapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *PostgresRepository) AppendHistory(ctx context.Context, entry *bankdomain.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) ListHistory(ctx context.Context, groupID int64, limit int) ([]bankdomain.HistoryEntry, error) {
	query := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []bankdomain.HistoryEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

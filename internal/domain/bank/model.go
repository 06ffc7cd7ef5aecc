package bank

import (
	"time"

	"finance-app-go/internal/domain/mutation"
	"github.com/shopspring/decimal"
)

// Snapshot is one row of a group's append-only amount log. The newest row is the authoritative
// amount; rows are never updated in place.
type Snapshot struct {
	ID        int64           `gorm:"primaryKey"`
	GroupID   int64           `gorm:"not null;index:idx_bank_amounts_group_created,priority:1"`
	UserID    *int64          `gorm:"index"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"not null;index:idx_bank_amounts_group_created,priority:2"`
}

func (Snapshot) TableName() string {
	return "bank_amounts"
}

// HistoryEntry is the audit row written for every accepted change. NewAmount - OldAmount == Delta.
type HistoryEntry struct {
	ID        int64           `gorm:"primaryKey"`
	GroupID   int64           `gorm:"not null;index:idx_balance_history_group_created,priority:1"`
	UserID    *int64          `gorm:"index"`
	OldAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NewAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Delta     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Note      *string         `gorm:"size:255"`
	CreatedAt time.Time       `gorm:"not null;index:idx_balance_history_group_created,priority:2"`
}

func (HistoryEntry) TableName() string {
	return "balance_history"
}

type OperationType string

const (
	OperationIncrease OperationType = "increase"
	OperationDecrease OperationType = "decrease"
)

// Event is pushed to live viewers of a group after a change is committed. OperationType is nil
// for absolute sets.
type Event struct {
	GroupID       int64
	Amount        decimal.Decimal
	OperationType *OperationType
	UserID        int64
	UpdatedAt     time.Time
}

// Balance is the derived current view of a group's log.
type Balance struct {
	GroupID           int64
	Amount            decimal.Decimal
	UpdatedAt         *time.Time
	LastUpdatedUserID *int64
}

type Result struct {
	Status  mutation.Status
	Balance Balance
}

type SetInput struct {
	Amount   decimal.Decimal
	Baseline *decimal.Decimal
	Note     *string
}

type AdjustInput struct {
	Delta decimal.Decimal
	Note  *string
}

type History struct {
	Enabled bool
	Items   []HistoryEntry
}

func balanceOf(groupID int64, latest *Snapshot) Balance {
	if latest == nil {
		return Balance{GroupID: groupID, Amount: decimal.Zero}
	}
	updatedAt := latest.CreatedAt
	return Balance{
		GroupID:           groupID,
		Amount:            latest.Amount,
		UpdatedAt:         &updatedAt,
		LastUpdatedUserID: latest.UserID,
	}
}

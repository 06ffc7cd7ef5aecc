package entries

import (
	"time"

	"finance-app-go/internal/domain/mutation"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

func (t EntryType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Entry is one ledger line of a group. Name and type are separate cells, each attributed to its
// last writer.
type Entry struct {
	ID            int64     `gorm:"primaryKey"`
	GroupID       int64     `gorm:"not null;index"`
	UserID        int64     `gorm:"not null;index"`
	Name          string    `gorm:"size:200;not null"`
	Type          EntryType `gorm:"size:16;not null"`
	NameUpdatedBy *int64    `gorm:"index"`
	TypeUpdatedBy *int64    `gorm:"index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "entries"
}

// Amount is a single month cell of an entry, unique per (entry, year, month).
type Amount struct {
	EntryID   int64           `gorm:"primaryKey;autoIncrement:false"`
	Year      int             `gorm:"primaryKey;autoIncrement:false"`
	Month     int             `gorm:"primaryKey;autoIncrement:false"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UpdatedBy *int64          `gorm:"index"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (Amount) TableName() string {
	return "entry_amounts"
}

type EntryWithAmounts struct {
	Entry
	Amounts []Amount
}

const (
	FieldName   = "name"
	FieldType   = "type"
	FieldAmount = "amount"
)

// PatchInput edits one cell: the entry name, its type, or one month amount. Baselines are what
// the client last saw for that cell.
type PatchInput struct {
	Field          string
	Year           int
	Month          int
	Text           string
	TextBaseline   *string
	Amount         decimal.Decimal
	AmountBaseline *decimal.Decimal
}

type SaveInput struct {
	ID      *int64
	Name    string
	Type    EntryType
	Amounts []AmountInput
}

type AmountInput struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

// Snapshot is the full state of a group's entries for one year, sent with conflicts.
type Snapshot struct {
	Year    int
	Entries []EntryWithAmounts
}

type PatchResult struct {
	Status mutation.Status
	Entry  EntryWithAmounts
}

package bank

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// LockGroup serializes writers of one group's log until the transaction ends.
	LockGroup(ctx context.Context, groupID int64) error
	// Latest returns the newest snapshot of the group's log, or ErrNoSnapshot.
	Latest(ctx context.Context, groupID int64) (*Snapshot, error)
	Append(ctx context.Context, snapshot *Snapshot) error
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	ListHistory(ctx context.Context, groupID int64, limit int) ([]HistoryEntry, error)
}

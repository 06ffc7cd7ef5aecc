package entries

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// List returns every entry of the group with its month cells of the given year.
	List(ctx context.Context, groupID int64, year int) ([]EntryWithAmounts, error)
	GetEntry(ctx context.Context, groupID, entryID int64) (*Entry, error)
	CreateEntry(ctx context.Context, entry *Entry) error
	UpdateEntry(ctx context.Context, entry *Entry) error
	GetAmount(ctx context.Context, entryID int64, year, month int) (*Amount, error)
	ListAmounts(ctx context.Context, entryID int64, year int) ([]Amount, error)
	UpsertAmount(ctx context.Context, amount *Amount) error
	DeleteEntry(ctx context.Context, groupID, entryID int64) (bool, error)
}

package entries

import (
	"context"
	"errors"
	"sort"
	"testing"

	groupdomain "finance-app-go/internal/domain/group"
	"finance-app-go/internal/domain/mutation"
	"finance-app-go/internal/domain/validate"
	"github.com/shopspring/decimal"
)

type cellKey struct {
	entryID int64
	year    int
	month   int
}

type fakeEntriesRepo struct {
	entries map[int64]*Entry
	amounts map[cellKey]*Amount
	nextID  int64
}

func newFakeEntriesRepo() *fakeEntriesRepo {
	return &fakeEntriesRepo{
		entries: make(map[int64]*Entry),
		amounts: make(map[cellKey]*Amount),
		nextID:  1,
	}
}

func (r *fakeEntriesRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeEntriesRepo) List(ctx context.Context, groupID int64, year int) ([]EntryWithAmounts, error) {
	result := make([]EntryWithAmounts, 0)
	for _, entry := range r.entries {
		if entry.GroupID != groupID {
			continue
		}
		amounts, _ := r.ListAmounts(ctx, entry.ID, year)
		result = append(result, EntryWithAmounts{Entry: *entry, Amounts: amounts})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEntriesRepo) GetEntry(ctx context.Context, groupID, entryID int64) (*Entry, error) {
	entry, ok := r.entries[entryID]
	if !ok || entry.GroupID != groupID {
		return nil, ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeEntriesRepo) CreateEntry(ctx context.Context, entry *Entry) error {
	entry.ID = r.nextID
	r.nextID++
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeEntriesRepo) UpdateEntry(ctx context.Context, entry *Entry) error {
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeEntriesRepo) GetAmount(ctx context.Context, entryID int64, year, month int) (*Amount, error) {
	cell, ok := r.amounts[cellKey{entryID, year, month}]
	if !ok {
		return nil, ErrAmountNotFound
	}
	copied := *cell
	return &copied, nil
}

func (r *fakeEntriesRepo) ListAmounts(ctx context.Context, entryID int64, year int) ([]Amount, error) {
	result := make([]Amount, 0)
	for key, cell := range r.amounts {
		if key.entryID == entryID && key.year == year {
			result = append(result, *cell)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

func (r *fakeEntriesRepo) UpsertAmount(ctx context.Context, amount *Amount) error {
	copied := *amount
	r.amounts[cellKey{amount.EntryID, amount.Year, amount.Month}] = &copied
	return nil
}

func (r *fakeEntriesRepo) DeleteEntry(ctx context.Context, groupID, entryID int64) (bool, error) {
	entry, ok := r.entries[entryID]
	if !ok || entry.GroupID != groupID {
		return false, nil
	}
	delete(r.entries, entryID)
	for key := range r.amounts {
		if key.entryID == entryID {
			delete(r.amounts, key)
		}
	}
	return true, nil
}

type fakeMembers struct {
	groups map[int64]int64
}

func (f *fakeMembers) RequireMember(ctx context.Context, userID, groupID int64) error {
	if groupID == 0 {
		return groupdomain.ErrNoGroup
	}
	if f.groups[userID] != groupID {
		return groupdomain.ErrNotMember
	}
	return nil
}

const (
	groupID = int64(10)
	userA   = int64(2)
	userB   = int64(3)
	year    = 2025
)

func newEntriesFixture() (*Service, *fakeEntriesRepo) {
	repo := newFakeEntriesRepo()
	members := &fakeMembers{groups: map[int64]int64{userA: groupID, userB: groupID}}
	return NewService(repo, members), repo
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func strPtr(value string) *string {
	return &value
}

func seedRent(t *testing.T, service *Service) int64 {
	t.Helper()
	saved, err := service.Save(context.Background(), userA, groupID, []SaveInput{{
		Name:    "Rent",
		Type:    TypeExpense,
		Amounts: []AmountInput{{Year: year, Month: 3, Amount: dec("500")}},
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return saved[0].ID
}

func TestPatchDifferentCellsNeverConflict(t *testing.T) {
	service, repo := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)

	if _, err := service.Patch(ctx, userA, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("600"), AmountBaseline: decPtr("500")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	result, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 5, Amount: dec("50"), AmountBaseline: decPtr("0")})
	if err != nil {
		t.Fatalf("expected no conflict on a different month, got %v", err)
	}
	if result.Status != mutation.StatusApplied || len(result.Entry.Amounts) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !repo.amounts[cellKey{id, year, 3}].Amount.Equal(dec("600")) || !repo.amounts[cellKey{id, year, 5}].Amount.Equal(dec("50")) {
		t.Fatalf("expected both cells stored")
	}

	if _, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldName, Text: "Rent & bills", TextBaseline: strPtr("Rent")}); err != nil {
		t.Fatalf("expected name edit to apply, got %v", err)
	}
}

func TestPatchSameCellConflicts(t *testing.T) {
	service, repo := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)

	if _, err := service.Patch(ctx, userA, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("600"), AmountBaseline: decPtr("500")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("550"), AmountBaseline: decPtr("500")})
	var conflict *mutation.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	snapshot, ok := conflict.Current.(Snapshot)
	if !ok || len(snapshot.Entries) != 1 || !snapshot.Entries[0].Amounts[0].Amount.Equal(dec("600")) {
		t.Fatalf("expected full state carrying 600, got %+v", conflict.Current)
	}

	result, err := service.ForcePatch(ctx, userB, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("550")})
	if err != nil {
		t.Fatalf("expected forced write, got %v", err)
	}
	if result.Status != mutation.StatusApplied || !repo.amounts[cellKey{id, year, 3}].Amount.Equal(dec("550")) {
		t.Fatalf("expected 550 stored")
	}
	if author := repo.amounts[cellKey{id, year, 3}].UpdatedBy; author == nil || *author != userB {
		t.Fatalf("expected cell attributed to user B")
	}
}

func TestPatchNameConflictUsesEntryAuthor(t *testing.T) {
	service, _ := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)

	_, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldName, Text: "Mortgage", TextBaseline: strPtr("Flat")})
	if !errors.Is(err, mutation.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = service.Patch(ctx, userA, groupID, id, PatchInput{Field: FieldName, Text: "Mortgage", TextBaseline: strPtr("Flat")})
	if err != nil {
		t.Fatalf("expected same-author edit to apply, got %v", err)
	}

	result, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldType, Text: "expense", TextBaseline: strPtr("income")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != mutation.StatusSkipped {
		t.Fatalf("expected unchanged type to be skipped, got %s", result.Status)
	}
}

func TestPatchDeletedEntryIsConflict(t *testing.T) {
	service, _ := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)
	other, _ := service.Save(ctx, userA, groupID, []SaveInput{{Name: "Salary", Type: TypeIncome}})

	if err := service.Delete(ctx, userA, groupID, id); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("1"), AmountBaseline: decPtr("500")})
	var conflict *mutation.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict for deleted entry, got %v", err)
	}
	snapshot := conflict.Current.(Snapshot)
	if len(snapshot.Entries) != 1 || snapshot.Entries[0].ID != other[0].ID {
		t.Fatalf("expected remaining entries in conflict, got %+v", snapshot.Entries)
	}

	if _, err := service.ForcePatch(ctx, userB, groupID, id, PatchInput{Field: FieldAmount, Year: year, Month: 3, Amount: dec("1")}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on forced write, got %v", err)
	}
	if err := service.Delete(ctx, userA, groupID, id); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
	}
}

func TestPatchValidation(t *testing.T) {
	service, _ := newEntriesFixture()
	id := seedRent(t, service)

	cases := []struct {
		input PatchInput
		field string
	}{
		{input: PatchInput{Field: "colour"}, field: "field"},
		{input: PatchInput{Field: FieldAmount, Year: year, Month: 13, Amount: dec("1")}, field: "month"},
		{input: PatchInput{Field: FieldAmount, Year: year, Month: 1, Amount: dec("-1")}, field: "value"},
		{input: PatchInput{Field: FieldAmount, Year: year, Month: 1, Amount: dec("1000000000000")}, field: "value"},
		{input: PatchInput{Field: FieldAmount, Year: year, Month: 1, Amount: dec("1e300000000")}, field: "value"},
		{input: PatchInput{Field: FieldAmount, Year: year, Month: 1, Amount: dec("1"), AmountBaseline: decPtr("1e300000000")}, field: "baseline"},
		{input: PatchInput{Field: FieldType, Text: "transfer"}, field: "value"},
		{input: PatchInput{Field: FieldName, Text: "  "}, field: "name"},
	}
	for _, tc := range cases {
		_, err := service.Patch(context.Background(), userA, groupID, id, tc.input)
		var validationErr *validate.Error
		if !errors.As(err, &validationErr) || validationErr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
}

func TestOutsiderCannotTouchGroupEntries(t *testing.T) {
	service, _ := newEntriesFixture()
	id := seedRent(t, service)

	if _, err := service.List(context.Background(), 99, groupID, year); !errors.Is(err, groupdomain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if _, err := service.Patch(context.Background(), 99, groupID, id, PatchInput{Field: FieldName, Text: "x"}); !errors.Is(err, groupdomain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if _, err := service.Save(context.Background(), userA, 0, nil); !errors.Is(err, groupdomain.ErrNoGroup) {
		t.Fatalf("expected ErrNoGroup, got %v", err)
	}
}

func TestSaveUpdatesExistingEntries(t *testing.T) {
	service, repo := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)

	saved, err := service.Save(ctx, userB, groupID, []SaveInput{
		{ID: &id, Name: "Rent", Type: TypeExpense, Amounts: []AmountInput{{Year: year, Month: 3, Amount: dec("510.499")}}},
		{Name: "Bonus", Type: "Income"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(saved) != 2 || saved[1].Type != TypeIncome {
		t.Fatalf("unexpected save result %+v", saved)
	}
	if !repo.amounts[cellKey{id, year, 3}].Amount.Equal(dec("510.5")) {
		t.Fatalf("expected rounded amount, got %s", repo.amounts[cellKey{id, year, 3}].Amount)
	}
	if repo.entries[id].UserID != userA {
		t.Fatalf("expected owner unchanged")
	}

	list, err := service.List(ctx, userA, groupID, year)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
}

func TestNameAndTypeAreSeparateCells(t *testing.T) {
	service, repo := newEntriesFixture()
	ctx := context.Background()
	id := seedRent(t, service)

	if _, err := service.Patch(ctx, userB, groupID, id, PatchInput{Field: FieldName, Text: "Rent B", TextBaseline: strPtr("Rent")}); err != nil {
		t.Fatalf("expected rename to apply, got %v", err)
	}
	if _, err := service.Patch(ctx, userA, groupID, id, PatchInput{Field: FieldType, Text: "income", TextBaseline: strPtr("expense")}); err != nil {
		t.Fatalf("expected type change to apply, got %v", err)
	}

	_, err := service.Patch(ctx, userA, groupID, id, PatchInput{Field: FieldName, Text: "Rent A", TextBaseline: strPtr("Rent")})
	if !errors.Is(err, mutation.ErrConflict) {
		t.Fatalf("expected stale rename to conflict, got %v", err)
	}

	stored := repo.entries[id]
	if stored.Name != "Rent B" || stored.Type != TypeIncome {
		t.Fatalf("expected B's name and A's type kept, got %q %q", stored.Name, stored.Type)
	}
	if stored.NameUpdatedBy == nil || *stored.NameUpdatedBy != userB {
		t.Fatalf("expected name attributed to B")
	}
	if stored.TypeUpdatedBy == nil || *stored.TypeUpdatedBy != userA {
		t.Fatalf("expected type attributed to A")
	}
}

func TestSaveRejectsOversizedAmounts(t *testing.T) {
	service, repo := newEntriesFixture()

	for _, value := range []string{"1000000000000", "1e300000000"} {
		_, err := service.Save(context.Background(), userA, groupID, []SaveInput{{
			Name:    "Salary",
			Type:    TypeIncome,
			Amounts: []AmountInput{{Year: year, Month: 1, Amount: dec(value)}},
		}})
		var validationErr *validate.Error
		if !errors.As(err, &validationErr) || validationErr.Field != "amount" {
			t.Fatalf("%s: expected amount validation error, got %v", value, err)
		}
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

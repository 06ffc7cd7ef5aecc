package entries

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"finance-app-go/internal/domain/mutation"
	"finance-app-go/internal/domain/validate"
	"github.com/shopspring/decimal"
)

const (
	ResourceEntries = "entries"

	maxNameLength = 200
	minYear       = 1970
	maxYear       = 2200
)

type Members interface {
	RequireMember(ctx context.Context, userID, groupID int64) error
}

type Service struct {
	repo    Repository
	members Members
	now     func() time.Time
}

func NewService(repo Repository, members Members) *Service {
	return &Service{
		repo:    repo,
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context, userID, groupID int64, year int) ([]EntryWithAmounts, error) {
	if err := s.members.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, groupID, year)
}

// Save creates entries without an ID and overwrites the listed fields of those with one. It is
// the bulk path used on first sync and imports; per-cell edits go through Patch.
func (s *Service) Save(ctx context.Context, userID, groupID int64, inputs []SaveInput) ([]EntryWithAmounts, error) {
	if err := s.members.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	for i := range inputs {
		if err := normalizeSaveInput(&inputs[i]); err != nil {
			return nil, err
		}
	}

	author := userID
	saved := make([]EntryWithAmounts, 0, len(inputs))
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		now := s.now()
		for _, input := range inputs {
			var entry Entry
			if input.ID != nil {
				existing, err := tx.GetEntry(ctx, groupID, *input.ID)
				if err != nil {
					return err
				}
				entry = *existing
				if entry.Name != input.Name {
					entry.Name = input.Name
					entry.NameUpdatedBy = &author
				}
				if entry.Type != input.Type {
					entry.Type = input.Type
					entry.TypeUpdatedBy = &author
				}
				entry.UpdatedAt = now
				if err := tx.UpdateEntry(ctx, &entry); err != nil {
					return err
				}
			} else {
				entry = Entry{
					GroupID:   groupID,
					UserID:    userID,
					Name:          input.Name,
					Type:          input.Type,
					NameUpdatedBy: &author,
					TypeUpdatedBy: &author,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := tx.CreateEntry(ctx, &entry); err != nil {
					return err
				}
			}

			amounts := make([]Amount, 0, len(input.Amounts))
			for _, item := range input.Amounts {
				cell := Amount{
					EntryID:   entry.ID,
					Year:      item.Year,
					Month:     item.Month,
					Amount:    item.Amount,
					UpdatedBy: &author,
					UpdatedAt: now,
				}
				if err := tx.UpsertAmount(ctx, &cell); err != nil {
					return err
				}
				amounts = append(amounts, cell)
			}
			saved = append(saved, EntryWithAmounts{Entry: entry, Amounts: amounts})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Patch edits one cell under the optimistic-concurrency rules. Cells are independent: edits to
// different months, or to the name and a month, never conflict with each other. An entry deleted
// by someone else is reported as a conflict carrying the year's full state.
func (s *Service) Patch(ctx context.Context, userID, groupID, entryID int64, input PatchInput) (*PatchResult, error) {
	return s.patch(ctx, userID, groupID, entryID, input, false)
}

// ForcePatch writes the cell without baseline checks, after the caller has seen a conflict.
func (s *Service) ForcePatch(ctx context.Context, userID, groupID, entryID int64, input PatchInput) (*PatchResult, error) {
	return s.patch(ctx, userID, groupID, entryID, input, true)
}

func (s *Service) Delete(ctx context.Context, userID, groupID, entryID int64) error {
	if err := s.members.RequireMember(ctx, userID, groupID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteEntry(ctx, groupID, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Service) patch(ctx context.Context, userID, groupID, entryID int64, input PatchInput, force bool) (*PatchResult, error) {
	if err := s.members.RequireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	if err := normalizePatchInput(&input, s.now()); err != nil {
		return nil, err
	}

	var result PatchResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		entry, err := tx.GetEntry(ctx, groupID, entryID)
		if errors.Is(err, ErrEntryNotFound) && !force {
			return s.conflict(ctx, tx, groupID, input.Year)
		}
		if err != nil {
			return err
		}

		var decision mutation.Decision
		switch input.Field {
		case FieldName, FieldType:
			decision, err = s.patchEntryField(ctx, tx, entry, userID, input, force)
		case FieldAmount:
			decision, err = s.patchAmount(ctx, tx, entry, userID, input, force)
		}
		if err != nil {
			return err
		}
		if decision == mutation.Conflict {
			return s.conflict(ctx, tx, groupID, input.Year)
		}

		amounts, err := tx.ListAmounts(ctx, entry.ID, input.Year)
		if err != nil {
			return err
		}
		result = PatchResult{Status: mutation.StatusApplied, Entry: EntryWithAmounts{Entry: *entry, Amounts: amounts}}
		if decision == mutation.Skip {
			result.Status = mutation.StatusSkipped
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) patchEntryField(ctx context.Context, tx Repository, entry *Entry, userID int64, input PatchInput, force bool) (mutation.Decision, error) {
	current, author := entry.Name, entry.NameUpdatedBy
	if input.Field == FieldType {
		current, author = string(entry.Type), entry.TypeUpdatedBy
	}

	decision := mutation.Decide(
		mutation.Observed[string]{Value: current, AuthorID: author, Exists: true},
		mutation.Proposal[string]{Intended: input.Text, Baseline: input.TextBaseline, CallerID: userID, Force: force},
		func(a, b string) bool { return a == b },
	)
	if decision != mutation.Apply {
		return decision, nil
	}

	caller := userID
	if input.Field == FieldType {
		entry.Type = EntryType(input.Text)
		entry.TypeUpdatedBy = &caller
	} else {
		entry.Name = input.Text
		entry.NameUpdatedBy = &caller
	}
	entry.UpdatedAt = s.now()
	return decision, tx.UpdateEntry(ctx, entry)
}

func (s *Service) patchAmount(ctx context.Context, tx Repository, entry *Entry, userID int64, input PatchInput, force bool) (mutation.Decision, error) {
	observed := mutation.Observed[decimal.Decimal]{Value: decimal.Zero}
	cell, err := tx.GetAmount(ctx, entry.ID, input.Year, input.Month)
	switch {
	case err == nil:
		observed = mutation.Observed[decimal.Decimal]{Value: cell.Amount, AuthorID: cell.UpdatedBy, Exists: true}
	case !errors.Is(err, ErrAmountNotFound):
		return 0, err
	}

	decision := mutation.Decide(
		observed,
		mutation.Proposal[decimal.Decimal]{Intended: input.Amount, Baseline: input.AmountBaseline, CallerID: userID, Force: force},
		func(a, b decimal.Decimal) bool { return a.Equal(b) },
	)
	if decision != mutation.Apply {
		return decision, nil
	}

	author := userID
	updated := Amount{
		EntryID:   entry.ID,
		Year:      input.Year,
		Month:     input.Month,
		Amount:    input.Amount,
		UpdatedBy: &author,
		UpdatedAt: s.now(),
	}
	return decision, tx.UpsertAmount(ctx, &updated)
}

func (s *Service) conflict(ctx context.Context, tx Repository, groupID int64, year int) error {
	current, err := tx.List(ctx, groupID, year)
	if err != nil {
		return err
	}
	return &mutation.ConflictError{Resource: ResourceEntries, Current: Snapshot{Year: year, Entries: current}}
}

func normalizePatchInput(input *PatchInput, now time.Time) error {
	input.Field = strings.ToLower(strings.TrimSpace(input.Field))
	switch input.Field {
	case FieldName:
		name, err := normalizeName(input.Text)
		if err != nil {
			return err
		}
		input.Text = name
		if input.TextBaseline != nil {
			baseline := strings.TrimSpace(*input.TextBaseline)
			input.TextBaseline = &baseline
		}
	case FieldType:
		input.Text = strings.ToLower(strings.TrimSpace(input.Text))
		if !EntryType(input.Text).Valid() {
			return validate.Field("value", "type must be income or expense")
		}
	case FieldAmount:
		if err := validateCell(input.Year, input.Month); err != nil {
			return err
		}
		amount, err := normalizeAmount("value", input.Amount)
		if err != nil {
			return err
		}
		input.Amount = amount
		if input.AmountBaseline != nil {
			baseline, err := validate.Money("baseline", *input.AmountBaseline)
			if err != nil {
				return err
			}
			input.AmountBaseline = &baseline
		}
	default:
		return validate.Field("field", "must be name, type or amount")
	}

	if input.Year == 0 {
		input.Year = now.Year()
	}
	return validateYear(input.Year)
}

func normalizeSaveInput(input *SaveInput) error {
	name, err := normalizeName(input.Name)
	if err != nil {
		return err
	}
	input.Name = name

	input.Type = EntryType(strings.ToLower(strings.TrimSpace(string(input.Type))))
	if !input.Type.Valid() {
		return validate.Field("type", "must be income or expense")
	}

	for i := range input.Amounts {
		item := &input.Amounts[i]
		if err := validateCell(item.Year, item.Month); err != nil {
			return err
		}
		amount, err := normalizeAmount("amount", item.Amount)
		if err != nil {
			return err
		}
		item.Amount = amount
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validate.Field("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", validate.Field("name", "name is too long")
	}
	return name, nil
}

func normalizeAmount(field string, amount decimal.Decimal) (decimal.Decimal, error) {
	amount, err := validate.Money(field, amount)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, validate.Field(field, "must not be negative")
	}
	return amount, nil
}

func validateCell(year, month int) error {
	if err := validateYear(year); err != nil {
		return err
	}
	if month < 1 || month > 12 {
		return validate.Field("month", "must be between 1 and 12")
	}
	return nil
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return validate.Field("year", "out of range")
	}
	return nil
}

package bank

import (
	"context"
	"errors"
	"strings"
	"time"

	groupdomain "finance-app-go/internal/domain/group"
	"finance-app-go/internal/domain/mutation"
	settingsdomain "finance-app-go/internal/domain/settings"
	"finance-app-go/internal/domain/validate"
	"github.com/shopspring/decimal"
)

const (
	ResourceBankAmount = "bank_amount"

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500

	maxNoteLength = 255
)

type Members interface {
	RequireMember(ctx context.Context, userID, groupID int64) error
}

type Settings interface {
	Get(ctx context.Context) (*settingsdomain.Settings, error)
}

type Service struct {
	repo     Repository
	members  Members
	settings Settings
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, members Members, settings Settings, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		repo:     repo,
		members:  members,
		settings: settings,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Current returns the group's authoritative amount, zero when nothing was recorded yet.
func (s *Service) Current(ctx context.Context, groupID int64) (*Balance, error) {
	if groupID == 0 {
		return nil, groupdomain.ErrNoGroup
	}
	latest, err := s.latest(ctx, s.repo, groupID)
	if err != nil {
		return nil, err
	}
	balance := balanceOf(groupID, latest)
	return &balance, nil
}

// Set writes an absolute amount, guarded by the caller's baseline. A conflict is returned as
// *mutation.ConflictError carrying the current Balance.
func (s *Service) Set(ctx context.Context, userID, groupID int64, input SetInput) (*Result, error) {
	return s.set(ctx, userID, groupID, input, false)
}

// ForceSet writes an absolute amount without the baseline check. Membership is still enforced.
func (s *Service) ForceSet(ctx context.Context, userID, groupID int64, input SetInput) (*Result, error) {
	return s.set(ctx, userID, groupID, input, true)
}

// Adjust adds a signed delta to the current amount. Deltas commute, so there is no conflict
// check; the result is clamped at zero.
func (s *Service) Adjust(ctx context.Context, userID, groupID int64, input AdjustInput) (*Result, error) {
	delta, err := validate.Money("delta", input.Delta)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, validate.Field("delta", "must not be zero")
	}
	if err := s.authorize(ctx, userID, groupID); err != nil {
		return nil, err
	}

	operation := OperationIncrease
	if delta.IsNegative() {
		operation = OperationDecrease
	}

	var (
		result Result
		event  *Event
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockGroup(ctx, groupID); err != nil {
			return err
		}
		latest, err := s.latest(ctx, tx, groupID)
		if err != nil {
			return err
		}

		old := balanceOf(groupID, latest)
		next := clamp(old.Amount.Add(delta))
		if !validate.WithinMoney(next) {
			return validate.Field("delta", "would push the amount past the maximum")
		}
		if next.Equal(old.Amount) {
			result = Result{Status: mutation.StatusSkipped, Balance: old}
			return nil
		}

		snapshot, err := s.append(ctx, tx, userID, groupID, old.Amount, next, input.Note)
		if err != nil {
			return err
		}
		result = Result{Status: mutation.StatusApplied, Balance: balanceOf(groupID, snapshot)}
		event = &Event{
			GroupID:       groupID,
			Amount:        next,
			OperationType: &operation,
			UserID:        userID,
			UpdatedAt:     snapshot.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		s.notifier.Publish(groupID, *event)
	}
	return &result, nil
}

// History lists the newest audit rows. Rows are always written; the deployment setting only
// controls whether they are shown.
func (s *Service) History(ctx context.Context, groupID int64, limit int) (*History, error) {
	if groupID == 0 {
		return nil, groupdomain.ErrNoGroup
	}

	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !current.EnableBalanceHistory {
		return &History{Enabled: false, Items: []HistoryEntry{}}, nil
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	items, err := s.repo.ListHistory(ctx, groupID, limit)
	if err != nil {
		return nil, err
	}
	return &History{Enabled: true, Items: items}, nil
}

func (s *Service) set(ctx context.Context, userID, groupID int64, input SetInput, force bool) (*Result, error) {
	rounded, err := validate.Money("amount", input.Amount)
	if err != nil {
		return nil, err
	}
	amount := clamp(rounded)
	var baseline *decimal.Decimal
	if input.Baseline != nil {
		observed, err := validate.Money("baseline", *input.Baseline)
		if err != nil {
			return nil, err
		}
		baseline = &observed
	}
	if err := s.authorize(ctx, userID, groupID); err != nil {
		return nil, err
	}

	var (
		result Result
		event  *Event
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockGroup(ctx, groupID); err != nil {
			return err
		}
		latest, err := s.latest(ctx, tx, groupID)
		if err != nil {
			return err
		}

		current := balanceOf(groupID, latest)
		observed := mutation.Observed[decimal.Decimal]{
			Value:    current.Amount,
			AuthorID: current.LastUpdatedUserID,
			Exists:   latest != nil,
		}
		decision := mutation.Decide(observed, mutation.Proposal[decimal.Decimal]{
			Intended: amount,
			Baseline: baseline,
			CallerID: userID,
			Force:    force,
		}, decimalEqual)

		switch decision {
		case mutation.Skip:
			result = Result{Status: mutation.StatusSkipped, Balance: current}
			return nil
		case mutation.Conflict:
			return &mutation.ConflictError{Resource: ResourceBankAmount, Current: current}
		}

		snapshot, err := s.append(ctx, tx, userID, groupID, current.Amount, amount, input.Note)
		if err != nil {
			return err
		}
		result = Result{Status: mutation.StatusApplied, Balance: balanceOf(groupID, snapshot)}
		event = &Event{
			GroupID:   groupID,
			Amount:    amount,
			UserID:    userID,
			UpdatedAt: snapshot.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		s.notifier.Publish(groupID, *event)
	}
	return &result, nil
}

func (s *Service) authorize(ctx context.Context, userID, groupID int64) error {
	if groupID == 0 {
		return groupdomain.ErrNoGroup
	}
	return s.members.RequireMember(ctx, userID, groupID)
}

func (s *Service) latest(ctx context.Context, repo Repository, groupID int64) (*Snapshot, error) {
	latest, err := repo.Latest(ctx, groupID)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil
	}
	return latest, err
}

// append writes the snapshot and its audit row in the caller's transaction.
func (s *Service) append(ctx context.Context, tx Repository, userID, groupID int64, old, next decimal.Decimal, note *string) (*Snapshot, error) {
	now := s.now()
	author := userID

	snapshot := Snapshot{
		GroupID:   groupID,
		UserID:    &author,
		Amount:    next,
		CreatedAt: now,
	}
	if err := tx.Append(ctx, &snapshot); err != nil {
		return nil, err
	}

	entry := HistoryEntry{
		GroupID:   groupID,
		UserID:    &author,
		OldAmount: old,
		NewAmount: next,
		Delta:     next.Sub(old),
		Note:      normalizeNote(note),
		CreatedAt: now,
	}
	if err := tx.AppendHistory(ctx, &entry); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func clamp(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func decimalEqual(a, b decimal.Decimal) bool {
	return a.Equal(b)
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	runes := []rune(strings.TrimSpace(*note))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) > maxNoteLength {
		runes = runes[:maxNoteLength]
	}
	value := string(runes)
	return &value
}

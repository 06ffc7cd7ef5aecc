package bank

import (
	"context"
	"errors"
	"testing"

	groupdomain "finance-app-go/internal/domain/group"
	"finance-app-go/internal/domain/mutation"
	settingsdomain "finance-app-go/internal/domain/settings"
	"finance-app-go/internal/domain/validate"
	"github.com/shopspring/decimal"
)

type fakeBankRepo struct {
	snapshots []Snapshot
	history   []HistoryEntry
	locks     int
}

func (r *fakeBankRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	snapshots := len(r.snapshots)
	history := len(r.history)
	if err := fn(r); err != nil {
		r.snapshots = r.snapshots[:snapshots]
		r.history = r.history[:history]
		return err
	}
	return nil
}

func (r *fakeBankRepo) LockGroup(ctx context.Context, groupID int64) error {
	r.locks++
	return nil
}

func (r *fakeBankRepo) Latest(ctx context.Context, groupID int64) (*Snapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].GroupID == groupID {
			copied := r.snapshots[i]
			return &copied, nil
		}
	}
	return nil, ErrNoSnapshot
}

func (r *fakeBankRepo) Append(ctx context.Context, snapshot *Snapshot) error {
	snapshot.ID = int64(len(r.snapshots) + 1)
	r.snapshots = append(r.snapshots, *snapshot)
	return nil
}

func (r *fakeBankRepo) AppendHistory(ctx context.Context, entry *HistoryEntry) error {
	entry.ID = int64(len(r.history) + 1)
	r.history = append(r.history, *entry)
	return nil
}

func (r *fakeBankRepo) ListHistory(ctx context.Context, groupID int64, limit int) ([]HistoryEntry, error) {
	result := make([]HistoryEntry, 0)
	for i := len(r.history) - 1; i >= 0 && len(result) < limit; i-- {
		if r.history[i].GroupID == groupID {
			result = append(result, r.history[i])
		}
	}
	return result, nil
}

type fakeMembers struct {
	members map[int64]map[int64]bool
}

func (f *fakeMembers) RequireMember(ctx context.Context, userID, groupID int64) error {
	if groupID == 0 {
		return groupdomain.ErrNoGroup
	}
	if !f.members[groupID][userID] {
		return groupdomain.ErrNotMember
	}
	return nil
}

type fakeSettings struct {
	current settingsdomain.Settings
}

func (f *fakeSettings) Get(ctx context.Context) (*settingsdomain.Settings, error) {
	copied := f.current
	return &copied, nil
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Publish(groupID int64, event Event) {
	n.events = append(n.events, event)
}

const (
	groupID = int64(10)
	userA   = int64(2)
	userB   = int64(3)
	userC   = int64(4)
)

type bankFixture struct {
	service  *Service
	repo     *fakeBankRepo
	settings *fakeSettings
	notifier *recordingNotifier
}

func newBankFixture() *bankFixture {
	f := &bankFixture{
		repo:     &fakeBankRepo{},
		settings: &fakeSettings{current: settingsdomain.Defaults()},
		notifier: &recordingNotifier{},
	}
	members := &fakeMembers{members: map[int64]map[int64]bool{
		groupID: {userA: true, userB: true, userC: true},
	}}
	f.service = NewService(f.repo, members, f.settings, f.notifier)
	return f
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func (f *bankFixture) seed(t *testing.T, userID int64, amount string) {
	t.Helper()
	if _, err := f.service.ForceSet(context.Background(), userID, groupID, SetInput{Amount: dec(amount)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestConflictScenario(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	f.seed(t, userC, "100")

	result, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("150"), Baseline: decPtr("100")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != mutation.StatusApplied || !result.Balance.Amount.Equal(dec("150")) {
		t.Fatalf("unexpected result %+v", result)
	}
	last := f.repo.history[len(f.repo.history)-1]
	if !last.OldAmount.Equal(dec("100")) || !last.Delta.Equal(dec("50")) {
		t.Fatalf("unexpected history row %+v", last)
	}

	if _, err := f.service.Set(ctx, userC, groupID, SetInput{Amount: dec("200"), Baseline: decPtr("150")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	snapshotsBefore := len(f.repo.snapshots)
	_, err = f.service.Set(ctx, userB, groupID, SetInput{Amount: dec("175"), Baseline: decPtr("150")})
	var conflict *mutation.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	current, ok := conflict.Current.(Balance)
	if !ok || !current.Amount.Equal(dec("200")) {
		t.Fatalf("expected conflict carrying 200, got %+v", conflict.Current)
	}
	if current.LastUpdatedUserID == nil || *current.LastUpdatedUserID != userC {
		t.Fatalf("expected conflict attributed to user C")
	}
	if len(f.repo.snapshots) != snapshotsBefore {
		t.Fatalf("expected no snapshot written on conflict")
	}

	result, err = f.service.ForceSet(ctx, userB, groupID, SetInput{Amount: dec("175")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Balance.Amount.Equal(dec("175")) {
		t.Fatalf("expected 175, got %s", result.Balance.Amount)
	}
	last = f.repo.history[len(f.repo.history)-1]
	if !last.OldAmount.Equal(dec("200")) || !last.NewAmount.Equal(dec("175")) || !last.Delta.Equal(dec("-25")) {
		t.Fatalf("unexpected history row %+v", last)
	}
}

func TestSameAuthorNeverConflicts(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	f.seed(t, userC, "100")

	if _, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("120"), Baseline: decPtr("100")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("130"), Baseline: decPtr("100")}); err != nil {
		t.Fatalf("expected same-author write to apply, got %v", err)
	}
	if _, err := f.service.Set(ctx, userB, groupID, SetInput{Amount: dec("140"), Baseline: decPtr("100")}); !errors.Is(err, mutation.ErrConflict) {
		t.Fatalf("expected conflict for other author, got %v", err)
	}
}

func TestSetSameValueIsNoop(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	f.seed(t, userA, "100")
	snapshots, history, events := len(f.repo.snapshots), len(f.repo.history), len(f.notifier.events)

	result, err := f.service.Set(ctx, userB, groupID, SetInput{Amount: dec("100.00"), Baseline: decPtr("50")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != mutation.StatusSkipped {
		t.Fatalf("expected skipped, got %s", result.Status)
	}
	if len(f.repo.snapshots) != snapshots || len(f.repo.history) != history || len(f.notifier.events) != events {
		t.Fatalf("expected nothing written or published")
	}
}

func TestAdjustCommutesAndClamps(t *testing.T) {
	orders := [][]string{{"30", "-50"}, {"-50", "30"}}
	for _, deltas := range orders {
		f := newBankFixture()
		f.seed(t, userA, "100")

		for i, delta := range deltas {
			user := userA
			if i == 1 {
				user = userB
			}
			if _, err := f.service.Adjust(context.Background(), user, groupID, AdjustInput{Delta: dec(delta)}); err != nil {
				t.Fatalf("adjust %s: %v", delta, err)
			}
		}

		current, err := f.service.Current(context.Background(), groupID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !current.Amount.Equal(dec("80")) {
			t.Fatalf("order %v: expected 80, got %s", deltas, current.Amount)
		}
	}

	f := newBankFixture()
	f.seed(t, userA, "10")
	result, err := f.service.Adjust(context.Background(), userB, groupID, AdjustInput{Delta: dec("-25")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Balance.Amount.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", result.Balance.Amount)
	}
	last := f.repo.history[len(f.repo.history)-1]
	if !last.Delta.Equal(dec("-10")) {
		t.Fatalf("expected applied delta -10, got %s", last.Delta)
	}
}

func TestAdjustRejectsZeroDelta(t *testing.T) {
	f := newBankFixture()

	_, err := f.service.Adjust(context.Background(), userA, groupID, AdjustInput{Delta: dec("0.001")})
	var validationErr *validate.Error
	if !errors.As(err, &validationErr) || validationErr.Field != "delta" {
		t.Fatalf("expected delta validation error, got %v", err)
	}
}

func TestAdjustPublishesOperationType(t *testing.T) {
	f := newBankFixture()
	f.seed(t, userA, "10")

	_, _ = f.service.Adjust(context.Background(), userA, groupID, AdjustInput{Delta: dec("5")})
	_, _ = f.service.Adjust(context.Background(), userA, groupID, AdjustInput{Delta: dec("-3")})

	if len(f.notifier.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(f.notifier.events))
	}
	if f.notifier.events[0].OperationType != nil {
		t.Fatalf("expected nil operation for absolute set")
	}
	if *f.notifier.events[1].OperationType != OperationIncrease || *f.notifier.events[2].OperationType != OperationDecrease {
		t.Fatalf("unexpected operation types")
	}
	if !f.notifier.events[2].Amount.Equal(dec("12")) {
		t.Fatalf("expected 12, got %s", f.notifier.events[2].Amount)
	}
}

func TestHistoryCompletenessIgnoresDisplaySetting(t *testing.T) {
	f := newBankFixture()
	f.settings.current.EnableBalanceHistory = false
	ctx := context.Background()

	f.seed(t, userA, "100")
	_, _ = f.service.Adjust(ctx, userB, groupID, AdjustInput{Delta: dec("-40")})
	_, _ = f.service.Set(ctx, userB, groupID, SetInput{Amount: dec("75.5"), Baseline: decPtr("60")})

	if len(f.repo.history) != 3 || len(f.repo.snapshots) != 3 {
		t.Fatalf("expected 3 history and snapshot rows, got %d and %d", len(f.repo.history), len(f.repo.snapshots))
	}
	for _, row := range f.repo.history {
		if !row.NewAmount.Sub(row.OldAmount).Equal(row.Delta) {
			t.Fatalf("inconsistent history row %+v", row)
		}
	}

	hidden, err := f.service.History(ctx, groupID, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hidden.Enabled || len(hidden.Items) != 0 {
		t.Fatalf("expected hidden history, got %+v", hidden)
	}

	f.settings.current.EnableBalanceHistory = true
	shown, err := f.service.History(ctx, groupID, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !shown.Enabled || len(shown.Items) != 2 || !shown.Items[0].NewAmount.Equal(dec("75.5")) {
		t.Fatalf("unexpected history %+v", shown)
	}
}

func TestNoGroupWritesNothing(t *testing.T) {
	f := newBankFixture()

	if _, err := f.service.Set(context.Background(), userA, 0, SetInput{Amount: dec("10")}); !errors.Is(err, groupdomain.ErrNoGroup) {
		t.Fatalf("expected ErrNoGroup, got %v", err)
	}
	if _, err := f.service.Adjust(context.Background(), userA, 0, AdjustInput{Delta: dec("10")}); !errors.Is(err, groupdomain.ErrNoGroup) {
		t.Fatalf("expected ErrNoGroup, got %v", err)
	}
	if _, err := f.service.Current(context.Background(), 0); !errors.Is(err, groupdomain.ErrNoGroup) {
		t.Fatalf("expected ErrNoGroup, got %v", err)
	}
	if len(f.repo.snapshots) != 0 {
		t.Fatalf("expected no snapshot written")
	}
}

func TestForceSetRevalidatesMembership(t *testing.T) {
	f := newBankFixture()

	if _, err := f.service.ForceSet(context.Background(), 99, groupID, SetInput{Amount: dec("10")}); !errors.Is(err, groupdomain.ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestFirstWriteWithoutBaseline(t *testing.T) {
	f := newBankFixture()

	result, err := f.service.Set(context.Background(), userA, groupID, SetInput{Amount: dec("-5")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != mutation.StatusSkipped {
		t.Fatalf("expected negative amount clamped to zero and skipped, got %s", result.Status)
	}

	result, err = f.service.Set(context.Background(), userA, groupID, SetInput{Amount: dec("12.345")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Balance.Amount.Equal(dec("12.35")) {
		t.Fatalf("expected rounding to cents, got %s", result.Balance.Amount)
	}

	if _, err := f.service.Set(context.Background(), userB, groupID, SetInput{Amount: dec("1")}); !errors.Is(err, mutation.ErrConflict) {
		t.Fatalf("expected conflict for missing baseline on existing value, got %v", err)
	}
}

func TestOversizedAmountsAreRejected(t *testing.T) {
	f := newBankFixture()
	ctx := context.Background()
	f.seed(t, userA, "999999999990")

	cases := []struct {
		name  string
		field string
		run   func() error
	}{
		{name: "set past the column", field: "amount", run: func() error {
			_, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("1000000000000")})
			return err
		}},
		{name: "set with a huge exponent", field: "amount", run: func() error {
			_, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("1e300000000")})
			return err
		}},
		{name: "force with a huge exponent", field: "amount", run: func() error {
			_, err := f.service.ForceSet(ctx, userA, groupID, SetInput{Amount: dec("1e3000000")})
			return err
		}},
		{name: "baseline with a huge exponent", field: "baseline", run: func() error {
			_, err := f.service.Set(ctx, userA, groupID, SetInput{Amount: dec("5"), Baseline: decPtr("-1e300000000")})
			return err
		}},
		{name: "delta with a huge exponent", field: "delta", run: func() error {
			_, err := f.service.Adjust(ctx, userA, groupID, AdjustInput{Delta: dec("1e300000000")})
			return err
		}},
		{name: "delta overflowing the current amount", field: "delta", run: func() error {
			_, err := f.service.Adjust(ctx, userB, groupID, AdjustInput{Delta: dec("10")})
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snapshots := len(f.repo.snapshots)
			var validationErr *validate.Error
			if err := tc.run(); !errors.As(err, &validationErr) || validationErr.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
			if len(f.repo.snapshots) != snapshots {
				t.Fatalf("expected nothing written")
			}
		})
	}

	result, err := f.service.Adjust(ctx, userB, groupID, AdjustInput{Delta: dec("9.99")})
	if err != nil {
		t.Fatalf("expected delta up to the maximum to apply, got %v", err)
	}
	if !result.Balance.Amount.Equal(validate.MaxMoney) {
		t.Fatalf("expected maximum amount, got %s", result.Balance.Amount)
	}
}

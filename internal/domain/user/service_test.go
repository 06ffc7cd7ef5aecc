package user

import (
	"context"
	"errors"
	"testing"

	"finance-app-go/internal/domain/validate"
)

type fakeUserRepo struct {
	users map[int64]*User
}

func (r *fakeUserRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	item, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, item := range r.users {
		if item.Username == username {
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(r.users))
	for _, item := range r.users {
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePreferences(ctx context.Context, id int64, prefs Preferences) error {
	r.users[id].ApplyPreferences(prefs)
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	r.users[id].PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	r.users[id].IsAdmin = isAdmin
	return nil
}

func (r *fakeUserRepo) SetLastGroup(ctx context.Context, id int64, groupID *int64) error {
	r.users[id].LastGroupID = groupID
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func newUserFixture() (*Service, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[int64]*User{}}
	for _, item := range []User{
		{ID: ProtectedUserID, Username: "root", IsAdmin: true},
		{ID: 2, Username: "alice"},
	} {
		item.ApplyPreferences(DefaultPreferences())
		copied := item
		repo.users[item.ID] = &copied
	}
	return NewService(repo), repo
}

func TestProtectedUserCannotBeDeletedOrDemoted(t *testing.T) {
	service, repo := newUserFixture()

	if err := service.Delete(context.Background(), ProtectedUserID); !errors.Is(err, ErrProtectedUser) {
		t.Fatalf("expected ErrProtectedUser, got %v", err)
	}
	if _, err := service.SetAdmin(context.Background(), ProtectedUserID, false); !errors.Is(err, ErrProtectedUser) {
		t.Fatalf("expected ErrProtectedUser, got %v", err)
	}
	if !repo.users[ProtectedUserID].IsAdmin {
		t.Fatalf("expected protected user to stay admin")
	}

	promoted, err := service.SetAdmin(context.Background(), 2, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !promoted.IsAdmin {
		t.Fatalf("expected promotion")
	}
	if err := service.Delete(context.Background(), 2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := service.Delete(context.Background(), 2); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdatePreferences(t *testing.T) {
	service, repo := newUserFixture()
	color := "#AABBCC"
	theme := "Dark"
	currency := "eur"
	privacy := true

	prefs, err := service.UpdatePreferences(context.Background(), 2, UpdatePreferencesInput{
		AccentColor: &color,
		Theme:       &theme,
		Currency:    &currency,
		PrivacyMode: &privacy,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if prefs.AccentColor != "#aabbcc" || prefs.Theme != ThemeDark || prefs.Currency != "EUR" || !prefs.PrivacyMode {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
	if prefs.Locale != "en" {
		t.Fatalf("expected untouched locale, got %q", prefs.Locale)
	}
	if repo.users[2].Currency != "EUR" {
		t.Fatalf("expected preferences persisted")
	}
}

func TestUpdatePreferencesRejectsInvalidValues(t *testing.T) {
	service, _ := newUserFixture()
	bad := func(v string) *string { return &v }

	cases := []struct {
		input UpdatePreferencesInput
		field string
	}{
		{input: UpdatePreferencesInput{AccentColor: bad("blue")}, field: "accent_color"},
		{input: UpdatePreferencesInput{Theme: bad("neon")}, field: "theme"},
		{input: UpdatePreferencesInput{Locale: bad("english!")}, field: "locale"},
		{input: UpdatePreferencesInput{Currency: bad("EURO")}, field: "currency"},
	}
	for _, tc := range cases {
		_, err := service.UpdatePreferences(context.Background(), 2, tc.input)
		var validationErr *validate.Error
		if !errors.As(err, &validationErr) || validationErr.Field != tc.field {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
}

func TestCheckAdminChange(t *testing.T) {
	if err := CheckAdminChange(ProtectedUserID, false); !errors.Is(err, ErrProtectedUser) {
		t.Fatalf("expected ErrProtectedUser, got %v", err)
	}
	if err := CheckAdminChange(ProtectedUserID, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := CheckAdminChange(2, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

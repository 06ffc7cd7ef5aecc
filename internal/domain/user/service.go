package user

import (
	"context"
	"regexp"
	"strings"

	"finance-app-go/internal/domain/validate"
)

var (
	accentColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	currencyRegex    = regexp.MustCompile(`^[A-Z]{3}$`)
	localeRegex      = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})?$`)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Delete removes the user together with their sessions, memberships and entries.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == ProtectedUserID {
		return ErrProtectedUser
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CheckAdminChange reports whether SetAdmin would refuse the change, without touching storage.
func CheckAdminChange(id int64, isAdmin bool) error {
	if id == ProtectedUserID && !isAdmin {
		return ErrProtectedUser
	}
	return nil
}

func (s *Service) SetAdmin(ctx context.Context, id int64, isAdmin bool) (*User, error) {
	if err := CheckAdminChange(id, isAdmin); err != nil {
		return nil, err
	}

	var result User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsAdmin != isAdmin {
			if err := tx.SetAdmin(ctx, id, isAdmin); err != nil {
				return err
			}
			existing.IsAdmin = isAdmin
		}
		result = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Preferences(ctx context.Context, id int64) (*Preferences, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prefs := existing.Preferences()
	return &prefs, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, id int64, input UpdatePreferencesInput) (*Preferences, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prefs := existing.Preferences()
	if input.AccentColor != nil {
		value := strings.TrimSpace(*input.AccentColor)
		if !accentColorRegex.MatchString(value) {
			return nil, validate.Field("accent_color", "must be a #rrggbb color")
		}
		prefs.AccentColor = strings.ToLower(value)
	}
	if input.Theme != nil {
		value := strings.ToLower(strings.TrimSpace(*input.Theme))
		switch value {
		case ThemeLight, ThemeDark, ThemeSystem:
			prefs.Theme = value
		default:
			return nil, validate.Field("theme", "must be light, dark or system")
		}
	}
	if input.Locale != nil {
		value := strings.TrimSpace(*input.Locale)
		if !localeRegex.MatchString(value) {
			return nil, validate.Field("locale", "invalid locale")
		}
		prefs.Locale = value
	}
	if input.Currency != nil {
		value := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !currencyRegex.MatchString(value) {
			return nil, validate.Field("currency", "must be a 3-letter ISO 4217 code")
		}
		prefs.Currency = value
	}
	if input.PrivacyMode != nil {
		prefs.PrivacyMode = *input.PrivacyMode
	}

	if err := s.repo.UpdatePreferences(ctx, id, prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

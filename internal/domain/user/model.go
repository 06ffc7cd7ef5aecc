package user

import "time"

// ProtectedUserID is the bootstrap administrator; it can be neither deleted nor demoted.
const ProtectedUserID int64 = 1

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	IsAdmin      bool      `gorm:"not null"`
	AccentColor  string    `gorm:"size:7;not null"`
	Theme        string    `gorm:"size:16;not null"`
	Locale       string    `gorm:"size:16;not null"`
	Currency     string    `gorm:"size:3;not null"`
	PrivacyMode  bool      `gorm:"not null"`
	LastGroupID  *int64    `gorm:"index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type Preferences struct {
	AccentColor string `json:"accent_color"`
	Theme       string `json:"theme"`
	Locale      string `json:"locale"`
	Currency    string `json:"currency"`
	PrivacyMode bool   `json:"privacy_mode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		AccentColor: "#3b82f6",
		Theme:       ThemeSystem,
		Locale:      "en",
		Currency:    "USD",
	}
}

func (u *User) Preferences() Preferences {
	return Preferences{
		AccentColor: u.AccentColor,
		Theme:       u.Theme,
		Locale:      u.Locale,
		Currency:    u.Currency,
		PrivacyMode: u.PrivacyMode,
	}
}

func (u *User) ApplyPreferences(prefs Preferences) {
	u.AccentColor = prefs.AccentColor
	u.Theme = prefs.Theme
	u.Locale = prefs.Locale
	u.Currency = prefs.Currency
	u.PrivacyMode = prefs.PrivacyMode
}

type UpdatePreferencesInput struct {
	AccentColor *string
	Theme       *string
	Locale      *string
	Currency    *string
	PrivacyMode *bool
}

package settings

import "time"

// Settings are deployment-wide switches managed from the admin panel.
type Settings struct {
	AllowRegistration    bool
	EnableBalanceHistory bool
	UpdatedAt            time.Time
}

func Defaults() Settings {
	return Settings{
		AllowRegistration:    true,
		EnableBalanceHistory: true,
	}
}

// Record is the single persisted settings row.
type Record struct {
	ID                   int       `gorm:"primaryKey"`
	AllowRegistration    bool      `gorm:"not null"`
	EnableBalanceHistory bool      `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "app_settings"
}

const RecordID = 1

type UpdateInput struct {
	AllowRegistration    *bool
	EnableBalanceHistory *bool
}

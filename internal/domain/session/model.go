package session

import (
	"time"

	userdomain "finance-app-go/internal/domain/user"
)

// Session is a user login. Only a digest of the bearer token is stored; ID is the public handle
// shown in session lists and used for revocation.
type Session struct {
	ID             string    `gorm:"primaryKey;size:36"`
	TokenHash      string    `gorm:"size:64;not null;uniqueIndex"`
	UserID         int64     `gorm:"not null;index"`
	CurrentGroupID *int64    `gorm:"index"`
	UserAgent      string    `gorm:"size:512;not null"`
	IPAddress      string    `gorm:"size:64;not null"`
	DeviceType     string    `gorm:"size:16;not null"`
	DeviceName     string    `gorm:"size:128;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	LastAccessedAt time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null;index"`
}

// AdminSession grants the elevated admin role. It is not bound to a user or a group and at most
// one is kept alive.
type AdminSession struct {
	ID        string    `gorm:"primaryKey;size:36"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

type DeviceInfo struct {
	UserAgent string
	IPAddress string
}

type GroupRef struct {
	ID   int64
	Name string
}

// UserContext is what a validated token resolves to. Groups are read fresh on every validation.
type UserContext struct {
	SessionID      string
	ID             int64
	Username       string
	IsAdmin        bool
	Groups         []GroupRef
	CurrentGroupID *int64
	Preferences    userdomain.Preferences
	ExpiresAt      time.Time
}

// GroupID returns the current group, or 0 when the user has none.
func (c *UserContext) GroupID() int64 {
	if c == nil || c.CurrentGroupID == nil {
		return 0
	}
	return *c.CurrentGroupID
}

// Issued carries the plaintext token. It is handed to the client once and never persisted.
type Issued struct {
	Token   string
	Session Session
}

type IssuedAdmin struct {
	Token   string
	Session AdminSession
}

// View is a session as listed to its owner.
type View struct {
	ID             string
	DeviceType     string
	DeviceName     string
	IPAddress      string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
	Current        bool
}

package group

import "time"

// DefaultGroupID is the primordial group created at bootstrap. It cannot be deleted.
const DefaultGroupID int64 = 1

const DefaultGroupName = "Default"

type Group struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	CreatedBy *int64    `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Membership binds a user to a group. A user may hold any number of memberships, one per group.
type Membership struct {
	UserID   int64     `gorm:"primaryKey;autoIncrement:false"`
	GroupID  int64     `gorm:"primaryKey;autoIncrement:false;index"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "user_groups"
}

// UserGroup is one of a user's memberships together with the group name.
type UserGroup struct {
	GroupID  int64
	Name     string
	JoinedAt time.Time
}

type Summary struct {
	Group
	MemberCount int64
}

type MembershipView struct {
	UserID    int64
	Username  string
	GroupID   int64
	GroupName string
	JoinedAt  time.Time
}

package group

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetGroup(ctx context.Context, groupID int64) (*Group, error)
	ListGroups(ctx context.Context) ([]Summary, error)
	CreateGroup(ctx context.Context, group *Group) error
	RenameGroup(ctx context.Context, groupID int64, name string) error
	DeleteGroupData(ctx context.Context, groupID int64) error
	ClearGroupReferences(ctx context.Context, groupID int64) error
	DeleteMembershipsByGroup(ctx context.Context, groupID int64) error
	DeleteGroup(ctx context.Context, groupID int64) error
	UserExists(ctx context.Context, userID int64) (bool, error)
	AddMembership(ctx context.Context, membership *Membership) error
	DeleteMembership(ctx context.Context, userID, groupID int64) (bool, error)
	ClearLastGroup(ctx context.Context, userID, groupID int64) error
	IsMember(ctx context.Context, userID, groupID int64) (bool, error)
	ListUserGroups(ctx context.Context, userID int64) ([]UserGroup, error)
	ListMemberships(ctx context.Context) ([]MembershipView, error)
}

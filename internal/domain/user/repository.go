package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	UpdatePreferences(ctx context.Context, id int64, prefs Preferences) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	SetLastGroup(ctx context.Context, id int64, groupID *int64) error
	Delete(ctx context.Context, id int64) error
}

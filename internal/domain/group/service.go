package group

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"finance-app-go/internal/domain/validate"
)

const maxGroupNameLength = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureDefault creates the primordial group when the store is empty.
func (s *Service) EnsureDefault(ctx context.Context) (*Group, error) {
	existing, err := s.repo.GetGroup(ctx, DefaultGroupID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrGroupNotFound) {
		return nil, err
	}

	created := Group{ID: DefaultGroupID, Name: DefaultGroupName}
	if err := s.repo.CreateGroup(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID int64) (*Group, error) {
	return s.repo.GetGroup(ctx, groupID)
}

func (s *Service) ListGroups(ctx context.Context) ([]Summary, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) CreateGroup(ctx context.Context, name string, createdBy *int64) (*Group, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	created := Group{Name: name, CreatedBy: createdBy}
	if err := s.repo.CreateGroup(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) RenameGroup(ctx context.Context, groupID int64, name string) (*Group, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var result Group
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := tx.RenameGroup(ctx, groupID, name); err != nil {
			return err
		}
		existing.Name = name
		result = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteGroup removes a group and everything scoped to it. Sessions and users pointing at the
// group are cleared so no pointer is left dangling; sessions re-home on their next validation.
func (s *Service) DeleteGroup(ctx context.Context, groupID int64) error {
	if groupID == DefaultGroupID {
		return ErrProtectedGroup
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}
		if err := tx.DeleteGroupData(ctx, groupID); err != nil {
			return err
		}
		if err := tx.ClearGroupReferences(ctx, groupID); err != nil {
			return err
		}
		if err := tx.DeleteMembershipsByGroup(ctx, groupID); err != nil {
			return err
		}
		return tx.DeleteGroup(ctx, groupID)
	})
}

func (s *Service) AssignUser(ctx context.Context, userID, groupID int64) (*Membership, error) {
	var result Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}

		member, err := tx.IsMember(ctx, userID, groupID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}

		membership := Membership{UserID: userID, GroupID: groupID}
		if err := tx.AddMembership(ctx, &membership); err != nil {
			return err
		}
		result = membership
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveUser drops a membership. The user's sticky group preference is cleared when it pointed at
// the group; live sessions fall back to another membership on their next validation.
func (s *Service) RemoveUser(ctx context.Context, userID, groupID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		deleted, err := tx.DeleteMembership(ctx, userID, groupID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMembershipNotFound
		}
		return tx.ClearLastGroup(ctx, userID, groupID)
	})
}

func (s *Service) ListMemberships(ctx context.Context) ([]MembershipView, error) {
	return s.repo.ListMemberships(ctx)
}

func (s *Service) UserGroups(ctx context.Context, userID int64) ([]UserGroup, error) {
	return s.repo.ListUserGroups(ctx, userID)
}

// RequireMember fails with ErrNoGroup for an unset group and ErrNotMember when the user does not
// belong to it.
func (s *Service) RequireMember(ctx context.Context, userID, groupID int64) error {
	if groupID == 0 {
		return ErrNoGroup
	}
	member, err := s.repo.IsMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validate.Field("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxGroupNameLength {
		return "", validate.Field("name", "name is too long")
	}
	return name, nil
}

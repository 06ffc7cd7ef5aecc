package group

import "errors"

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrProtectedGroup     = errors.New("group is protected")
	ErrAlreadyMember      = errors.New("user already in group")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrNotMember          = errors.New("user is not a member of the group")

	// ErrNoGroup is returned for group-scoped work by a user without any membership.
	ErrNoGroup = errors.New("user has no group")
)

package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRegistrationDisabled = errors.New("registration disabled")
	ErrAdminRequired        = errors.New("admin privileges required")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
)

package session

import "errors"

var (
	ErrInvalidSession      = errors.New("invalid session")
	ErrSessionNotFound     = errors.New("session not found")
	ErrCannotRevokeCurrent = errors.New("cannot revoke the current session")
)

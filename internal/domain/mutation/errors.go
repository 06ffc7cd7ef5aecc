package mutation

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("concurrent modification")

// ConflictError is returned when a write lost the race. Current holds the authoritative state the
// client needs to render a diff and offer a forced overwrite.
type ConflictError struct {
	Resource string
	Current  any
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, ErrConflict)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

package entries

import "errors"

var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrAmountNotFound = errors.New("amount not found")
)

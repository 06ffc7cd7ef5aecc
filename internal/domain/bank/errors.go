package bank

import "errors"

var ErrNoSnapshot = errors.New("no bank amount recorded")

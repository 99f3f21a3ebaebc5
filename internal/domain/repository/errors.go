package repository

import "errors"

// ErrDuplicateKey is returned when a write violates a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

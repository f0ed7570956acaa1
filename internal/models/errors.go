package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidID       = errors.New("invalid ID format")
	ErrMissingScore    = errors.New("finished fixture has no usable final score")
	ErrFixtureNotFinal = errors.New("fixture is not finished")
)

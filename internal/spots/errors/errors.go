package errors

import "errors"

var (
	ErrNotFound = errors.New("booking spot not found")

	ErrInvalidID = errors.New("invalid booking spot ID format")

	ErrDuplicateEmail = errors.New("booking spot email already registered")
)

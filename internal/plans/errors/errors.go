package errors

import "errors"

var (
	ErrNotFound = errors.New("plan not found")

	ErrInvalidID = errors.New("invalid plan ID format")

	ErrDuplicateName = errors.New("plan name already used in this spot")
)

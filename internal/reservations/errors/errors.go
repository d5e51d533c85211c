package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrLockHeld means another request currently holds the plan lock.
	// Callers retry until their wait budget runs out.
	ErrLockHeld = errors.New("plan lock held")
)

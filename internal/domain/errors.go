package domain

import "errors"

// Sentinel errors for the checklist store. Callers classify failures with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrInvalidArgument signals a missing or empty required field. Raised
	// before any persistence attempt.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound signals that a referenced section or item id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable signals that the underlying store is inaccessible.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTransactionFailed signals that a bulk operation (seed, import,
	// cascade delete) could not complete atomically. The store is left in its
	// prior state.
	ErrTransactionFailed = errors.New("transaction failed")
)

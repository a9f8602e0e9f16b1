package model

import "errors"

var (
	// ErrUnauthenticated means no owner identity could be resolved for the call.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden means the record exists but belongs to another owner.
	ErrForbidden = errors.New("not authorized")
	// ErrNotFound means the record id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionFinalized is returned when a session's task list is written twice.
	ErrSessionFinalized = errors.New("session already finalized")
)

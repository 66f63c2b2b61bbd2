package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the trip aggregate and the membership workflow.
// Handlers translate these into HTTP status codes; nothing below this
// layer knows about HTTP.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrUserNotFound     = errors.New("no user with that email")
	ErrSelfInvite       = errors.New("cannot invite yourself")
	ErrAlreadyMember    = errors.New("user is already a member of this trip")
	ErrDuplicatePending = errors.New("user already has a pending invitation to this trip")
	ErrNoSuchInvitation = errors.New("no pending invitation for this trip")
)

// ValidationError reports a rejected input and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

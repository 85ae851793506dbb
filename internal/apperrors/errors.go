// Package apperrors defines the sentinel errors shared between repositories
// and handlers. Handlers translate them into HTTP statuses; everything else
// surfaces as a 500 with a generic client message.
package apperrors

import "errors"

var (
	// ErrNotFound signals that the referenced target, user or notification
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals missing or malformed input fields.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden signals an action restricted to the owner or an admin.
	ErrForbidden = errors.New("forbidden")
)

package services

import "errors"

// Domain failure classes. Callers classify with errors.Is; anything outside
// these three is a storage/transport failure and should be treated as
// transient and retryable.
var (
	// ErrValidation marks malformed or empty input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing recipe, comment, or parent comment, and a
	// comment addressed through the wrong recipe.
	ErrNotFound = errors.New("not found")
	// ErrPermission marks an operation attempted by someone other than the
	// resource owner.
	ErrPermission = errors.New("permission denied")
)

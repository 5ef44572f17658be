// Package apperr defines the error taxonomy shared by services and
// handlers. Services return these sentinels (usually wrapped with
// context via fmt.Errorf and %w); handlers translate them to HTTP
// status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor is not allowed to touch the target
	// entity. Authentication has already happened by the time a service
	// sees a caller id, so this is purely an ownership check.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyLiked means the directed like edge already exists.
	ErrAlreadyLiked = errors.New("user already liked")

	// ErrAlreadyMain means the photo is already the user's main photo.
	ErrAlreadyMain = errors.New("photo is already main")

	// ErrMainPhoto means the main photo cannot be deleted.
	ErrMainPhoto = errors.New("cannot delete main photo")

	// ErrUsernameTaken means a registration hit an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidInput means a request failed validation before touching
	// storage.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable marks a transient storage fault. Callers may
	// retry; the services themselves never do.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvariant marks a broken internal pre/post-condition. It always
	// indicates a bug, never user error, and is never repaired silently.
	ErrInvariant = errors.New("invariant violation")
)

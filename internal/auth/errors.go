package auth

import "errors"

// Every Service failure is one of these; handlers map them to fixed status
// codes and never retry.
var (
	// ErrConflict: the account id is already taken.
	ErrConflict = errors.New("account id already taken")

	// ErrNotFound: no account matches the handle, or the account behind a
	// valid token has been deleted.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials: the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("wrong password")

	// ErrUnauthorized: the bearer token is missing, malformed, has a bad
	// signature, or is expired.
	ErrUnauthorized = errors.New("invalid or expired token")
)

package repo

import "errors"

var (
	// ErrNotFound is returned when the targeted row does not exist,
	// including when it was deleted between lookup and mutation.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateHandle is returned by Create when the account id is
	// already taken (unique_violation on users.account_id).
	ErrDuplicateHandle = errors.New("account id already taken")
)

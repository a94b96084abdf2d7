package session

import "errors"

var (
	// ErrNotFound means the token never existed or was closed/evicted.
	ErrNotFound = errors.New("session not found")

	// ErrExpired means the token existed but its TTL elapsed. The
	// session is removed on the access that discovers this, so later
	// lookups of the same token return ErrNotFound.
	ErrExpired = errors.New("session expired")

	// ErrInvalidPayload means an update carried neither location nor
	// frame. No mutation happens for such updates.
	ErrInvalidPayload = errors.New("update carries neither location nor frame")
)

package identity

import "errors"

var (
	// ErrInvalidToken is returned when a token cannot be verified.
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrActorNotFound is returned when a referenced actor does not exist.
	ErrActorNotFound = errors.New("identity: actor not found")
)

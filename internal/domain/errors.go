package domain

import "errors"

// Error kinds returned by the services. Handlers map them to HTTP status
// codes; anything not listed here is an internal error.
var (
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidField       = errors.New("invalid field value")
	ErrOutOfRange         = errors.New("value out of range")
	ErrEmailExists        = errors.New("email exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidID          = errors.New("invalid bill id format")
	ErrNotFound           = errors.New("not found")
	ErrMissingToken       = errors.New("no token")
	ErrInvalidToken       = errors.New("invalid token")
)

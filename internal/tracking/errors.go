package tracking

import "errors"

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotRegistered   = errors.New("user is not registered in the session")
)

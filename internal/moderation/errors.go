package moderation

import "errors"

var (
	ErrUnauthorized           = errors.New("caller is not an administrator")
	ErrInsufficientCapability = errors.New("bot cannot restrict members")
	ErrPlatformCall           = errors.New("platform call failed")
)

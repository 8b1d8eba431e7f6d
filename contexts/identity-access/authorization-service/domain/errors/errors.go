package errors

import "errors"

var (
	ErrInvalidUserID   = errors.New("invalid user id")
	ErrRoleUnavailable = errors.New("role unavailable")
)

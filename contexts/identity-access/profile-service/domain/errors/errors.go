package errors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid profile input")
	ErrInvalidRole     = errors.New("invalid role")
	ErrProfileNotFound = errors.New("profile not found")
	ErrForbidden       = errors.New("forbidden")
)

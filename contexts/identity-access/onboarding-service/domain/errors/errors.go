package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrApplicationNotFound    = errors.New("application not found")
	ErrAlreadyReviewed        = errors.New("application already reviewed")
	ErrForbidden              = errors.New("forbidden")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)

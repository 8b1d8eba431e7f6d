package errors

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidRole              = errors.New("invalid role")
	ErrEmailTaken               = errors.New("email already registered")
	ErrAdminInviteRequired      = errors.New("admin sign-up requires a valid invite code")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrEmailNotVerified         = errors.New("email address is not verified")
	ErrInvalidVerificationToken = errors.New("verification token is invalid or expired")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrSessionExpired           = errors.New("session expired")
	ErrSessionRevoked           = errors.New("session revoked")
	ErrSessionNotFound          = errors.New("session not found")
	ErrAccountNotFound          = errors.New("account not found")
	ErrForbidden                = errors.New("forbidden")
)

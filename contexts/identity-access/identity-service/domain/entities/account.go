package entities

import (
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBrand, RoleInfluencer, RoleAdmin:
		return true
	default:
		return false
	}
}

// SelfServiceRole reports whether a role may be chosen at sign-up without an
// invite code.
func (r Role) SelfServiceRole() bool {
	return r == RoleBrand || r == RoleInfluencer
}

type Account struct {
	AccountID       string
	Email           string
	PasswordHash    string
	Role            Role
	DisplayName     string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a Account) Verified() bool {
	return a.EmailVerifiedAt != nil && !a.EmailVerifiedAt.IsZero()
}

const MinPasswordLength = 8

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return parsed.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

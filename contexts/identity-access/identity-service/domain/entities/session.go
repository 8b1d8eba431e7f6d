package entities

import "time"

type Session struct {
	SessionID string
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

func (s Session) Revoked() bool {
	return s.RevokedAt != nil
}

func (s Session) Active(now time.Time) bool {
	return !s.Revoked() && now.Before(s.ExpiresAt)
}

type EmailVerification struct {
	Token      string
	AccountID  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

func (v EmailVerification) Usable(now time.Time) bool {
	return v.ConsumedAt == nil && now.Before(v.ExpiresAt)
}

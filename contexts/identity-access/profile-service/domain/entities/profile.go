package entities

import (
	"net/url"
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

const MaxDisplayNameLength = 80

type Profile struct {
	AccountID   string
	DisplayName string
	AvatarURL   string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidAvatarURL accepts an empty value or an absolute http(s) URL.
func ValidAvatarURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

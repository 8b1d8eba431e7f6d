package entities

import "strings"

type Role string

const (
	RoleNone       Role = ""
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
)

func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// Route targets used by redirects.
const (
	RouteAuth                 = "/auth"
	RouteDashboard            = "/dashboard"
	RouteAdmin                = "/admin"
	RouteBrandDashboard       = "/brand-dashboard"
	RouteInfluencerRestricted = "/influencer-restricted"
)

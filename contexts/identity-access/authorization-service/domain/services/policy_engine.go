package services

import "spotlight/contexts/identity-access/authorization-service/domain/entities"

// Decide maps a required role and the caller's actual role to allow or a
// redirect target. A required influencer role always redirects to the
// restricted page, including for influencers.
func Decide(required entities.Role, actual entities.Role) entities.Decision {
	switch {
	case required == entities.RoleInfluencer:
		return entities.RedirectTo(entities.RouteInfluencerRestricted)
	case required == entities.RoleBrand && actual == entities.RoleBrand:
		return entities.Allow()
	case required == entities.RoleAdmin && actual == entities.RoleAdmin:
		return entities.Allow()
	}
	return entities.RedirectTo(HomeFor(actual))
}

// HomeFor is the landing route for a role.
func HomeFor(role entities.Role) string {
	switch role {
	case entities.RoleAdmin:
		return entities.RouteAdmin
	case entities.RoleBrand:
		return entities.RouteBrandDashboard
	case entities.RoleInfluencer:
		return entities.RouteInfluencerRestricted
	default:
		return entities.RouteDashboard
	}
}

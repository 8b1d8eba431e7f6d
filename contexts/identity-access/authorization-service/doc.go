// Package authorization implements the access guard for role-gated surfaces.
//
// Layering:
// - domain: route targets, the redirect decision table, errors
// - application: guard evaluation and role cache invalidation using explicit ports
// - ports: role source and role cache boundaries
// - adapters: memory and redis role caches, HTTP middleware
//
// Boundary notes:
// - The role source is the profile service; runtime wiring bridges it through ports.RoleSource.
// - Do not import other context adapters into domain/application.
package authorization

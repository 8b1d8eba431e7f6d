// Package identity implements account registration, sign-in sessions, email
// verification and administrative role elevation.
//
// Layering:
// - domain: accounts, sessions, verification tokens and their errors
// - application: the Service orchestrating ports
// - ports: persistence, token signing, hashing, revocation cache, profile provisioning
// - adapters: memory, postgres (gorm), security (jwt, bcrypt), redis cache, notifier, HTTP
// - transport: module-private DTOs for HTTP contracts
//
// Profile rows live in profile-service; this module reaches them only through
// the ProfileProvisioner port, wired in bootstrap.
package identity

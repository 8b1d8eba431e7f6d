// Package profile owns the per-account profile row. The role stored here is
// what gated navigation reads; it changes only through the identity
// role-elevation flow.
package profile

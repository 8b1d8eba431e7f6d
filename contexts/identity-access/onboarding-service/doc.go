// Package onboarding handles influencer applications: public submission and
// admin review.
//
// Layering:
// - domain: application entity, status rules, errors
// - application: Service with idempotent submission and conditional review
// - ports: repository, idempotency, role lookup and outbox boundaries
// - adapters: memory, postgres and HTTP implementations
package onboarding

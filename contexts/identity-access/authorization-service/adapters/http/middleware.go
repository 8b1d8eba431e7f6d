package httpadapter

import (
	"log/slog"
	"net/http"

	"spotlight/contexts/identity-access/authorization-service/application/queries"
	"spotlight/contexts/identity-access/authorization-service/domain/entities"
)

// SessionResolver returns the signed-in account id for a request, or "" when
// there is none.
type SessionResolver func(r *http.Request) string

// Middleware applies guard outcomes to server-rendered routes.
type Middleware struct {
	Guard   queries.EvaluateGuardUseCase
	Resolve SessionResolver
	Logger  *slog.Logger
}

// Authenticated admits any signed-in account.
func (m Middleware) Authenticated(next http.Handler) http.Handler {
	return m.Require(entities.RoleNone)(next)
}

// Require admits callers that satisfy required and redirects everyone else.
func (m Middleware) Require(required entities.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""
			if m.Resolve != nil {
				userID = m.Resolve(r)
			}
			outcome := m.Guard.Execute(r.Context(), queries.GuardInput{
				SessionResolved: true,
				UserID:          userID,
				Required:        required,
			})
			switch outcome.State {
			case entities.GuardRender:
				next.ServeHTTP(w, r)
			case entities.GuardRedirect:
				http.Redirect(w, r, outcome.Target, http.StatusFound)
			case entities.GuardCancelled:
				// client went away; nothing to write
			default:
				if m.Logger != nil {
					m.Logger.Warn("unexpected guard state",
						"event", "access_guard_unexpected_state",
						"module", "identity-access/authorization-service",
						"layer", "adapter",
						"state", string(outcome.State),
						"path", r.URL.Path,
					)
				}
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		})
	}
}

package httpadapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"spotlight/contexts/identity-access/authorization-service/application/queries"
	"spotlight/contexts/identity-access/authorization-service/domain/entities"
)

type fixedRoles map[string]string

func (f fixedRoles) GetRole(_ context.Context, accountID string) (string, error) {
	return f[accountID], nil
}

func TestMiddlewareRedirectsAndRenders(t *testing.T) {
	middleware := Middleware{
		Guard: queries.EvaluateGuardUseCase{Roles: fixedRoles{"brand-1": "brand"}},
		Resolve: func(r *http.Request) string {
			return r.Header.Get("X-Test-User")
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := []struct {
		name     string
		user     string
		required entities.Role
		status   int
		location string
	}{
		{"anonymous", "", entities.RoleBrand, http.StatusFound, "/auth"},
		{"brand on brand route", "brand-1", entities.RoleBrand, http.StatusTeapot, ""},
		{"brand on admin route", "brand-1", entities.RoleAdmin, http.StatusFound, "/brand-dashboard"},
		{"authenticated only", "brand-1", entities.RoleNone, http.StatusTeapot, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			if tc.user != "" {
				req.Header.Set("X-Test-User", tc.user)
			}
			rec := httptest.NewRecorder()
			middleware.Require(tc.required)(next).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

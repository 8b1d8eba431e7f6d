package httpserver

import (
	"errors"
	"net/http"

	identityerrors "spotlight/contexts/identity-access/identity-service/domain/errors"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
)

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{Code: code, Message: message})
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidInput),
		errors.Is(err, identityerrors.ErrInvalidRole),
		errors.Is(err, identityerrors.ErrInvalidVerificationToken):
		writeIdentityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, identityerrors.ErrInvalidCredentials),
		errors.Is(err, identityerrors.ErrUnauthorized),
		errors.Is(err, identityerrors.ErrSessionExpired),
		errors.Is(err, identityerrors.ErrSessionRevoked),
		errors.Is(err, identityerrors.ErrSessionNotFound):
		writeIdentityError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, identityerrors.ErrEmailNotVerified):
		writeIdentityError(w, http.StatusForbidden, "email_not_verified", err.Error())
	case errors.Is(err, identityerrors.ErrAdminInviteRequired),
		errors.Is(err, identityerrors.ErrForbidden):
		writeIdentityError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, identityerrors.ErrAccountNotFound):
		writeIdentityError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, identityerrors.ErrEmailTaken):
		writeIdentityError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requireUser resolves the bearer token to an account id and writes 401 when
// it cannot.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		writeIdentityError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return "", false
	}
	session, err := s.identity.Handler.GetSessionHandler(r.Context(), token)
	if err != nil {
		writeIdentityDomainError(w, err)
		return "", false
	}
	return session.User.ID, true
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.SignUpRequest
	if !decodeJSON(w, r, &req, writeIdentityError) {
		return
	}
	resp, err := s.identity.Handler.SignUpHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.SignInRequest
	if !decodeJSON(w, r, &req, writeIdentityError) {
		return
	}
	resp, err := s.identity.Handler.SignInHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeIdentityError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return
	}
	if err := s.identity.Handler.SignOutHandler(r.Context(), token); err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.VerifyEmailRequest
	if !decodeJSON(w, r, &req, writeIdentityError) {
		return
	}
	resp, err := s.identity.Handler.VerifyEmailHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeIdentityError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return
	}
	resp, err := s.identity.Handler.GetSessionHandler(r.Context(), token)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req identityhttp.SetUserRoleRequest
	if !decodeJSON(w, r, &req, writeIdentityError) {
		return
	}
	resp, err := s.identity.Handler.SetUserRoleHandler(r.Context(), actorID, req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

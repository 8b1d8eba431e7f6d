package httpserver

import (
	"errors"
	"net/http"

	profileerrors "spotlight/contexts/identity-access/profile-service/domain/errors"
	profilehttp "spotlight/contexts/identity-access/profile-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func writeProfileError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, profilehttp.ErrorResponse{Code: code, Message: message})
}

func writeProfileDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profileerrors.ErrInvalidInput),
		errors.Is(err, profileerrors.ErrInvalidRole):
		writeProfileError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, profileerrors.ErrForbidden):
		writeProfileError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, profileerrors.ErrProfileNotFound):
		writeProfileError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeProfileError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) requireAdminProfile(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return "", false
	}
	isAdmin, err := s.profiles.Service.IsAdmin(r.Context(), userID)
	if err != nil {
		writeProfileDomainError(w, err)
		return "", false
	}
	if !isAdmin {
		writeProfileDomainError(w, profileerrors.ErrForbidden)
		return "", false
	}
	return userID, true
}

func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.profiles.Handler.GetProfileHandler(r.Context(), userID)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req profilehttp.UpdateProfileRequest
	if !decodeJSON(w, r, &req, writeProfileError) {
		return
	}
	resp, err := s.profiles.Handler.UpdateProfileHandler(r.Context(), userID, req)
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdminProfile(w, r); !ok {
		return
	}
	resp, err := s.profiles.Handler.GetProfileHandler(r.Context(), chi.URLParam(r, "account_id"))
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdminProfile(w, r); !ok {
		return
	}
	resp, err := s.profiles.Handler.ListProfilesHandler(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeProfileDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

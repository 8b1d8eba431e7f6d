package httpserver

import (
	"errors"
	"net/http"

	applicationerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	applicationhttp "spotlight/contexts/identity-access/onboarding-service/transport/http"

	"github.com/go-chi/chi/v5"
)

func writeApplicationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, applicationhttp.ErrorResponse{Code: code, Message: message})
}

func writeApplicationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, applicationerrors.ErrInvalidRequest),
		errors.Is(err, applicationerrors.ErrIdempotencyKeyRequired):
		writeApplicationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, applicationerrors.ErrForbidden):
		writeApplicationError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, applicationerrors.ErrApplicationNotFound):
		writeApplicationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, applicationerrors.ErrAlreadyReviewed),
		errors.Is(err, applicationerrors.ErrIdempotencyConflict):
		writeApplicationError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeApplicationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// handleSubmitApplication is public; no session is required.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	key := idempotencyKey(r)
	if key == "" {
		writeApplicationError(w, http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header is required")
		return
	}
	var req applicationhttp.SubmitApplicationRequest
	if !decodeJSON(w, r, &req, writeApplicationError) {
		return
	}
	resp, err := s.applications.Handler.SubmitApplicationHandler(r.Context(), key, req)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleAdminListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.applications.Handler.ListApplicationsHandler(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.applications.Handler.GetApplicationHandler(r.Context(), userID, chi.URLParam(r, "application_id"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminReviewApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req applicationhttp.ReviewApplicationRequest
	if !decodeJSON(w, r, &req, writeApplicationError) {
		return
	}
	resp, err := s.applications.Handler.ReviewApplicationHandler(
		r.Context(),
		userID,
		chi.URLParam(r, "application_id"),
		req,
	)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	adminerrors "spotlight/contexts/internal-ops/admin-dashboard-service/domain/errors"
	adminhttp "spotlight/contexts/internal-ops/admin-dashboard-service/transport/http"
)

func writeAdminError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, adminhttp.ErrorResponse{Code: code, Message: message})
}

func writeAdminDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminerrors.ErrInvalidInput),
		errors.Is(err, adminerrors.ErrIdempotencyRequired):
		writeAdminError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, adminerrors.ErrUnauthorized):
		writeAdminError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, adminerrors.ErrForbidden):
		writeAdminError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, adminerrors.ErrIdempotencyConflict):
		writeAdminError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeAdminError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.admin.Handler.GetOverviewHandler(r.Context(), userID)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminListAuditLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAdminError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.admin.Handler.ListAuditLogHandler(r.Context(), userID, limit)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminRecordAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req adminhttp.RecordAdminActionRequest
	if !decodeJSON(w, r, &req, writeAdminError) {
		return
	}
	resp, err := s.admin.Handler.RecordAdminActionHandler(r.Context(), userID, idempotencyKey(r), req)
	if err != nil {
		writeAdminDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	auditerrors "caregate/contexts/compliance/audit-service/domain/errors"
	audithttp "caregate/contexts/compliance/audit-service/transport/http"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

func (s *Server) handleQueryAuditLogs(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	var req audithttp.QueryAuditLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuditError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.audit.Handler.QueryAuditLogsHandler(r.Context(), actor, req)
	if err != nil {
		writeAuditDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAuditDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrNotAuthorized):
		writeAuditError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, auditerrors.ErrInvalidQuery),
		errors.Is(err, auditerrors.ErrUnknownAction):
		writeAuditError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, fieldcipher.ErrIntegrityViolation):
		writeAuditError(w, http.StatusInternalServerError, "integrity_violation", "record integrity check failed")
	default:
		writeAuditError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuditError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, audithttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

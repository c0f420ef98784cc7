package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	schedulingerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	schedulinghttp "caregate/contexts/scheduling/appointment-service/transport/http"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	var req schedulinghttp.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSchedulingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.scheduling.Handler.CreateAppointmentHandler(r.Context(), actor, req)
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.scheduling.Handler.GetAppointmentHandler(r.Context(), actor, r.PathValue("appointment_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	var req schedulinghttp.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSchedulingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.scheduling.Handler.UpdateAppointmentHandler(r.Context(), actor, r.PathValue("appointment_id"), req)
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.scheduling.Handler.CancelAppointmentHandler(r.Context(), actor, r.PathValue("appointment_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByProvider(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.scheduling.Handler.ListByProviderHandler(r.Context(), actor, r.PathValue("provider_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListByPatient(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.scheduling.Handler.ListByPatientHandler(r.Context(), actor, r.PathValue("patient_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSchedulingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrNotAuthorized), errors.Is(err, authz.ErrSelfProtection):
		writeSchedulingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, schedulingerrors.ErrAppointmentNotFound):
		writeSchedulingError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedulingerrors.ErrSchedulingConflict):
		writeSchedulingError(w, http.StatusConflict, "scheduling_conflict", err.Error())
	case errors.Is(err, schedulingerrors.ErrInvalidTransition):
		writeSchedulingError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, schedulingerrors.ErrInvalidAppointmentInput):
		writeSchedulingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, fieldcipher.ErrIntegrityViolation):
		writeSchedulingError(w, http.StatusInternalServerError, "integrity_violation", "record integrity check failed")
	default:
		writeSchedulingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSchedulingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, schedulinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	identityerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	identityhttp "caregate/contexts/identity-access/identity-service/transport/http"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req identityhttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	assertion, err := s.identity.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}

	signed, err := s.tokens.Sign(assertion.UserID, assertion.Role)
	if err != nil {
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, identityhttp.LoginResponse{
		Token: signed,
		User: identityhttp.UserDTO{
			UserID: assertion.UserID,
			Email:  assertion.Email,
			Role:   string(assertion.Role),
			Name:   assertion.Name,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	if err := s.identity.Handler.LogoutHandler(r.Context(), actor); err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.identity.Handler.GetProfileHandler(r.Context(), actor, r.PathValue("user_id"))
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	var req identityhttp.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.UpdateProfileHandler(r.Context(), actor, r.PathValue("user_id"), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	if err := s.identity.Handler.DeleteUserHandler(r.Context(), actor, r.PathValue("user_id")); err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	var req identityhttp.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.identity.Handler.UpdateRoleHandler(r.Context(), actor, r.PathValue("user_id"), req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, actor authz.Actor) {
	resp, err := s.identity.Handler.ListUsersHandler(r.Context(), actor)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrSelfProtection):
		writeIdentityError(w, http.StatusForbidden, "self_protection", err.Error())
	case errors.Is(err, authz.ErrNotAuthorized):
		writeIdentityError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, identityerrors.ErrUserNotFound):
		writeIdentityError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, identityerrors.ErrEmailTaken):
		writeIdentityError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, identityerrors.ErrInvalidCredentials):
		writeIdentityError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, identityerrors.ErrInvalidUserInput),
		errors.Is(err, identityerrors.ErrInvalidRole):
		writeIdentityError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, fieldcipher.ErrIntegrityViolation):
		writeIdentityError(w, http.StatusInternalServerError, "integrity_violation", "record integrity check failed")
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

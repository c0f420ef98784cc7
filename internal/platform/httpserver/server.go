package httpserver

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	audit "caregate/contexts/compliance/audit-service"
	identity "caregate/contexts/identity-access/identity-service"
	identityhttp "caregate/contexts/identity-access/identity-service/transport/http"
	scheduling "caregate/contexts/scheduling/appointment-service"
	"caregate/internal/platform/token"
	"caregate/internal/shared/authz"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "caregate/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	identity   identity.Module
	scheduling scheduling.Module
	audit      audit.Module
	tokens     *token.Signer
	limiter    *ipLimiter
}

func New(
	identityModule identity.Module,
	schedulingModule scheduling.Module,
	auditModule audit.Module,
	tokens *token.Signer,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		identity:   identityModule,
		scheduling: schedulingModule,
		audit:      auditModule,
		tokens:     tokens,
		limiter:    newIPLimiter(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/auth/v1/register", s.limiter.wrap(s.handleRegister))
	s.mux.HandleFunc("POST /api/auth/v1/login", s.limiter.wrap(s.handleLogin))
	s.mux.HandleFunc("POST /api/auth/v1/logout", s.authed(s.handleLogout))

	s.mux.HandleFunc("GET /api/users/v1/{user_id}", s.authed(s.handleGetProfile))
	s.mux.HandleFunc("PUT /api/users/v1/{user_id}", s.authed(s.handleUpdateProfile))
	s.mux.HandleFunc("DELETE /api/users/v1/{user_id}", s.authed(s.handleDeleteUser))
	s.mux.HandleFunc("PUT /api/users/v1/{user_id}/role", s.authed(s.handleUpdateRole))
	s.mux.HandleFunc("GET /api/admin/v1/users", s.authed(s.handleListUsers))

	s.mux.HandleFunc("POST /api/appointments/v1", s.authed(s.handleCreateAppointment))
	s.mux.HandleFunc("GET /api/appointments/v1/{appointment_id}", s.authed(s.handleGetAppointment))
	s.mux.HandleFunc("PUT /api/appointments/v1/{appointment_id}", s.authed(s.handleUpdateAppointment))
	s.mux.HandleFunc("DELETE /api/appointments/v1/{appointment_id}", s.authed(s.handleCancelAppointment))
	s.mux.HandleFunc("GET /api/appointments/v1/provider/{provider_id}", s.authed(s.handleListByProvider))
	s.mux.HandleFunc("GET /api/appointments/v1/patient/{patient_id}", s.authed(s.handleListByPatient))

	s.mux.HandleFunc("POST /api/audit-logs/v1/query", s.authed(s.handleQueryAuditLogs))
}

// authed resolves the bearer token to an actor before the handler runs.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, authz.Actor)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeIdentityError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
			return
		}
		actor, err := s.tokens.Parse(raw)
		if err != nil {
			writeIdentityError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		next(w, r, actor)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, identityhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

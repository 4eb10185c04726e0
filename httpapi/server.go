package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/prismacost/adminauth"
	"github.com/prismacost/adminauth/middleware"
	"github.com/prismacost/adminauth/pgstore"
)

// Server routes HTTP requests to the authentication engine and the
// persistence layer.
type Server struct {
	engine   *adminauth.Engine
	store    *pgstore.Store
	logger   *slog.Logger
	validate *validator.Validate
	handler  http.Handler
}

// NewServer wires the route table. The store may be nil in deployments that
// supply their own account provider; branding and health degrade
// accordingly.
func NewServer(engine *adminauth.Engine, store *pgstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:   engine,
		store:    store,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/verify-mfa", s.handleVerifyMFA)
	mux.HandleFunc("POST /api/auth/verify", s.handleVerifyToken)
	mux.HandleFunc("GET /health", s.handleHealth)

	adminOnly := middleware.RequireRole(engine, adminauth.RoleAdmin)
	mux.Handle("GET /api/admin/branding", adminOnly(http.HandlerFunc(s.handleGetBranding)))
	mux.Handle("PUT /api/admin/branding", adminOnly(http.HandlerFunc(s.handlePutBranding)))

	s.handler = s.withRequestContext(mux)
	return s
}

// Handler returns the fully wired root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// withRequestContext tags every request with an ID, attaches the caller
// source for audit records, and logs the outcome.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		ctx := adminauth.WithSource(r.Context(), clientSource(r))
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))

		s.logger.Info("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// clientSource extracts the caller address for audit records. The first
// X-Forwarded-For hop wins when a proxy sits in front.
func clientSource(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok"}
	status := http.StatusOK

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			body["status"] = "unavailable"
			body["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			body["database"] = "ok"
		}
	}
	writeJSON(w, status, body)
}

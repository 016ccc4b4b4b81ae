package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var errDatabaseUnavailable = errors.New("database unavailable")

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the dependencies of the HTTP handlers
type Services struct {
	Members  MemberService
	Groups   GroupService
	Sessions SessionService
	Stats    StatsService
	DB       Pinger
}

// Handler provides HTTP handlers for the pelada API
type Handler struct {
	members     MemberService
	groups      GroupService
	sessions    SessionService
	stats       StatsService
	db          Pinger
	corsOrigins []string
	logger      *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services, corsOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{
		members:     svc.Members,
		groups:      svc.Groups,
		sessions:    svc.Sessions,
		stats:       svc.Stats,
		db:          svc.DB,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/associados", h.memberRoutes)
		r.Route("/grupos", h.groupRoutes)
		r.Route("/rodadas", h.sessionRoutes)
		r.Route("/partidas", h.matchRoutes)
		r.Get("/ranking/grupos/{grupoID}", h.GetGroupRanking)
		r.Post("/eventos", h.IngestEvents)
	})

	return r
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeCreated writes a 201 JSON response
func (h *Handler) writeCreated(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// handleError maps a service error to its status code. Unexpected errors are
// logged and reported without detail.
func (h *Handler) handleError(w http.ResponseWriter, err error, action string) {
	switch {
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, err)
	case domain.IsConflictError(err):
		h.writeError(w, http.StatusConflict, err)
	default:
		h.logger.Error("failed to "+action, "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// decode reads a JSON body, answering 400 when it is malformed
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidRequest))
		return false
	}
	return true
}

// idParam parses a positive integer URL parameter, answering 400 otherwise
func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidRequest, name))
		return 0, false
	}
	return id, true
}

// periodQuery reads the optional inicio and fim query parameters
func periodQuery(r *http.Request) domain.Period {
	q := r.URL.Query()
	return domain.Period{Start: q.Get("inicio"), End: q.Get("fim")}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck reports ready once the database answers
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", "error", err)
			h.writeError(w, http.StatusServiceUnavailable, errDatabaseUnavailable)
			return
		}
	}
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

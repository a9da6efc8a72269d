package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/aescanero/dago-template/pkg/template"
	"github.com/aescanero/dago-template/pkg/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxBodyBytes caps the JSON variables accepted by the render endpoint
const maxBodyBytes = 1 << 20

// Source loads the document templates are looked up in
type Source interface {
	Load(ctx context.Context) (*tree.Document, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (*tree.Document, error)

// Load implements Source
func (f SourceFunc) Load(ctx context.Context) (*tree.Document, error) {
	return f(ctx)
}

// Config configures the HTTP server
type Config struct {
	// Port is the listen port
	Port int

	// Predicates are CEL predicates added to every rendered template
	Predicates map[string]string

	// Gatherer serves /metrics, nil disables the endpoint
	Gatherer prometheus.Gatherer

	// RedisClient is pinged by /health and /ready when set
	RedisClient *redis.Client

	// TemplateOptions are passed to every template
	TemplateOptions []template.Option
}

// Server renders stored templates over HTTP and exposes health and metrics
type Server struct {
	cfg    Config
	source Source
	logger *zap.Logger
	server *http.Server
}

// New creates a server rendering templates from source
func New(cfg Config, source Source, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		source: source,
		logger: logger,
	}
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("POST /render/{id}", s.handleRender)
	if s.cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start starts the server in the background
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("starting http server", zap.Int("port", s.cfg.Port))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("stopping http server")
	return s.server.Shutdown(ctx)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents a failed render
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)

	if s.cfg.RedisClient != nil {
		if err := s.cfg.RedisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = fmt.Sprintf("unhealthy: %v", err)
			s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "unhealthy",
				Checks: checks,
			})
			return
		}
		checks["redis"] = "healthy"
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Checks: checks,
	})
}

// handleReady handles the /ready endpoint
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.source.Load(ctx); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "not ready",
		})
		return
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
	})
}

// handleRender renders the stored template named by the path with the
// JSON object in the request body as variables
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	vars := map[string]any{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&vars); err != nil && err != io.EOF {
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid variables: %v", err)})
		return
	}

	doc, err := s.source.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load templates", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to load templates"})
		return
	}

	tmpl, err := template.FromStore(doc, id, s.cfg.TemplateOptions...)
	if err != nil {
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	names := make([]string, 0, len(s.cfg.Predicates))
	for name := range s.cfg.Predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := tmpl.AddCELTest(name, s.cfg.Predicates[name]); err != nil {
			s.logger.Error("invalid predicate", zap.String("name", name), zap.Error(err))
			s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "invalid predicate " + name})
			return
		}
	}

	tmpl.SetVariables(vars)
	out, err := tmpl.RenderMarkup()
	if err != nil {
		s.logger.Info("render failed", zap.String("id", id), zap.Error(err))
		s.respondJSON(w, renderStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

// renderStatus maps a render error to a status code
func renderStatus(err error) int {
	var lookup *template.LookupError
	if errors.As(err, &lookup) {
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

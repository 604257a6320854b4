// Package gateway exposes the taskdeck HTTP surface: a JSON API and a small
// server-rendered page, both scoped to a per-browser session cookie.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dverney/taskdeck/internal/config"
	"github.com/dverney/taskdeck/internal/events"
	"github.com/dverney/taskdeck/internal/export"
	"github.com/dverney/taskdeck/internal/sessions"
)

// Server is the taskdeck HTTP server.
type Server struct {
	httpServer    *http.Server
	bus           *events.Bus
	registry      *sessions.Registry
	cookieName    string
	defaultFormat export.Format
}

// NewServer creates a server from the gateway and export configuration.
func NewServer(bus *events.Bus, registry *sessions.Registry, cfg config.GatewayConfig, defaultFormat export.Format) *Server {
	s := &Server{
		bus:           bus,
		registry:      registry,
		cookieName:    cfg.Cookie,
		defaultFormat: defaultFormat,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	// JSON API
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/tasks", s.handleListTasks)
	r.Post("/api/tasks", s.handleCreateTask)
	r.Get("/api/tasks/{id}", s.handleGetTask)
	r.Patch("/api/tasks/{id}", s.handleUpdateTask)
	r.Delete("/api/tasks/{id}", s.handleDeleteTask)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/export", s.handleExport)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/sessions", s.handleSessions)

	// HTML page + form actions
	r.Get("/", s.handleIndex)
	r.Post("/tasks", s.handleFormCreate)
	r.Post("/tasks/{id}/toggle", s.handleFormToggle)
	r.Post("/tasks/{id}/delete", s.handleFormDelete)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: r,
	}

	return s
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("taskdeck gateway listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("bad limit %q", v))
			return
		}
		limit = n
	}

	history := s.bus.History(limit)
	if history == nil {
		history = []events.Event{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

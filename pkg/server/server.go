package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this package's spans. The tracer resolves against
// the global provider configured by the embedding application.
const tracerName = "github.com/counselkit/agentui/pkg/server"

// Server accepts producer WebSocket connections and runs one engine
// instance per session. It also exposes health, metrics, and registry
// introspection endpoints.
type Server struct {
	config   Config
	manager  *Manager
	upgrader websocket.Upgrader
	tracer   trace.Tracer
	router   chi.Router
	http     *http.Server
}

// New creates a server with the given configuration.
func New(cfg Config) *Server {
	cfg = cfg.withDefaults()

	s := &Server{
		config:  cfg,
		manager: NewManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Producers are trusted backends, not browsers; origin
			// checking belongs to the surrounding application.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		tracer: otel.Tracer(tracerName),
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/components", s.handleComponents)
	r.Get("/ws", s.handleWS)
	s.router = r

	return s
}

// Manager returns the server's session manager.
func (s *Server) Manager() *Manager {
	return s.manager
}

// Handler returns the server's HTTP handler for embedding in a larger mux.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then closes all sessions
// and shuts the listener down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.manager.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleHealth reports liveness and the active session count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.manager.Count(),
	})
}

// handleComponents serves the registry's metadata export, the one place
// catalog content crosses outward. Spec producers use it to learn the
// available vocabulary.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"components": s.config.Registry.ExportMetadata(),
	})
}

// handleWS upgrades a producer connection and runs its session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(uuid.NewString(), conn, s.config, s.manager, s.tracer)
	s.manager.add(sess)
	recordSessionOpen()

	s.config.Logger.Info("session opened",
		"session", sess.ID, "remote", r.RemoteAddr)

	sess.ReadLoop()
}

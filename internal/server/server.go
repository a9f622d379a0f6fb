// Package server exposes the running diagram over HTTP: snapshot and
// mermaid export endpoints plus a WebSocket carrying live frames out and
// user commands in.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"constellation/internal/diagram"
	"constellation/internal/diagrams"
	"constellation/internal/engine"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server serves the live diagram state.
type Server struct {
	cfg        Config
	eng        *engine.Engine
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over a running engine.
func New(cfg Config, eng *engine.Engine) *Server {
	s := &Server{cfg: cfg, eng: eng}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/diagram", s.handleDiagram)
	r.Get("/api/diagram/mermaid", s.handleMermaid)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router, used by tests to serve requests directly.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.eng.Latest()); err != nil {
		log.Printf("[Server] Encode snapshot: %v", err)
	}
}

func (s *Server) handleMermaid(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	var out string
	s.eng.Inspect(func(d *diagram.Diagram) {
		if format == "graph" {
			out = diagrams.TopicGraph(d)
		} else {
			out = diagrams.Mindmap(d)
		}
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("constellation server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

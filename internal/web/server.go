// Package web exposes the search engine over HTTP: a WebSocket endpoint for
// live query subscriptions and a small JSON API for channel profiles, video
// tags and word statistics.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/roasbeef/vidlens/internal/catalog"
	"github.com/roasbeef/vidlens/internal/search"
	"github.com/roasbeef/vidlens/internal/wordstats"
)

// Config holds the web server's dependencies.
type Config struct {
	// Addr is the bind address.
	Addr string

	// Supervisor is the search engine entry point.
	Supervisor search.SupervisorRef

	// Catalog serves the profile and tag endpoints directly.
	Catalog catalog.Catalog

	// WordStats serves the statistics endpoint.
	WordStats wordstats.ServiceRef

	// AskTimeout bounds API requests into the actor system. Zero means
	// the default.
	AskTimeout time.Duration
}

// defaultAskTimeout bounds one API round trip through the actor system.
const defaultAskTimeout = 10 * time.Second

// Server is the HTTP front end.
type Server struct {
	cfg Config

	mux *http.ServeMux
	srv *http.Server
}

// NewServer creates the server and registers its routes.
func NewServer(cfg Config) *Server {
	if cfg.AskTimeout <= 0 {
		cfg.AskTimeout = defaultAskTimeout
	}

	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /api/v1/channels/{id}", s.handleChannel)
	s.mux.HandleFunc("GET /api/v1/videos/{id}/tags", s.handleTags)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)

	return s
}

// Handler returns the server's route handler, usable directly in tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.InfoS(context.Background(), "Web server listening",
		"addr", s.cfg.Addr)

	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server. Active WebSocket sessions end
// as their connections close.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	return s.srv.Shutdown(ctx)
}

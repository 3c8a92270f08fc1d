// Package server exposes isomorphism queries over a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz                  liveness and build version
//	POST /v1/isomorphic            {"g": GRAPH, "h": GRAPH}
//	POST /v1/isomorphisms/count    {"g": GRAPH, "h": GRAPH}
//	POST /v1/automorphisms/count   {"graph": GRAPH}
//
// A GRAPH is either {"graph6": "..."} or {"vertices": n, "edges": [[u, v], ...]}.
// Any request may carry a "config" object overriding the server's
// algorithm settings; budgets can only be tightened, never loosened.
// Answers are cached through a [pipeline.Runner].
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/isotower/pkg/iso"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 4 << 20

// Options configures a [Server].
type Options struct {
	Config       iso.Config       // Defaults and budget ceilings for every query
	Runner       *pipeline.Runner // Answers queries; a cacheless runner if nil
	Logger       *log.Logger
	MaxBodyBytes int64
	TTL          time.Duration // Cache lifetime of answers
}

// Server is the HTTP front end.
type Server struct {
	cfg    iso.Config
	runner *pipeline.Runner
	logger *log.Logger
	limit  int64
	ttl    time.Duration
	router chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, pipeline.DefaultKeyer, opts.Logger)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		cfg:    opts.Config,
		runner: opts.Runner,
		logger: opts.Logger,
		limit:  opts.MaxBodyBytes,
		ttl:    opts.TTL,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/isomorphic", s.handlePair(iso.QueryIsomorphic))
		r.Post("/isomorphisms/count", s.handlePair(iso.QueryIsomorphisms))
		r.Post("/automorphisms/count", s.handleAutomorphisms)
	})
	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight queries up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Package server exposes coverings and globe payloads over HTTP.
//
// Routes:
//
//	GET /healthz                  liveness probe, "ok"
//	GET /version                  build information
//	GET /v1/cover?n=500           cover CSV
//	GET /v1/cover/summary?n=500   {"equatorial_count", "rungs", "points"}
//	GET /v1/rungs?n=500           rung schedule
//	GET /v1/globe?n=500           viewer payload (needs a texture)
//	GET /v1/spots                 place markers (needs a places file)
//
// Errors are JSON objects {"code", "message"} with a status derived from the
// error code. Every response carries an X-Request-Id header.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/globecover/pkg/cache"
	gerrors "github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/pipeline"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// Defaults for [Config].
const (
	DefaultAddr               = ":8080"
	DefaultReadTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 60 * time.Second
	DefaultMaxEquatorialCount = 2000
	shutdownTimeout           = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxEquatorialCount caps ?n= so one request cannot pin the server;
	// the covering grows with its square.
	MaxEquatorialCount int

	// Texture enables /v1/globe. It is decoded once at startup.
	Texture string

	// Spots enables /v1/spots and adds markers to builds.
	Spots string
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxEquatorialCount == 0 {
		c.MaxEquatorialCount = DefaultMaxEquatorialCount
	}
}

// Server is the HTTP API. It is safe for concurrent use.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger

	classifier  *terrain.Classifier
	textureHash string

	router chi.Router
}

// New builds a server around runner. If cfg.Texture is set the texture is
// loaded immediately so a bad path fails at startup, not on first request.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = runner.Logger
	}

	s := &Server{cfg: cfg, runner: runner, logger: logger}

	if cfg.Texture != "" {
		c, err := terrain.Load(cfg.Texture)
		if err != nil {
			return nil, err
		}
		hash, err := cache.HashFile(cfg.Texture)
		if err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "hash texture %s", cfg.Texture)
		}
		w, h := c.Size()
		logger.Info("loaded texture", "path", cfg.Texture, "width", w, "height", h)
		s.classifier, s.textureHash = c, hash
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/cover", s.handleCover)
		r.Get("/cover/summary", s.handleCoverSummary)
		r.Get("/rungs", s.handleRungs)
		r.Get("/globe", s.handleGlobe)
		r.Get("/spots", s.handleSpots)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, gerrors.New(gerrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:      gerrors.ErrCodeUnsupported,
			Message:   fmt.Sprintf("method %s not allowed", r.Method),
			RequestID: RequestIDFromContext(r.Context()),
		})
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

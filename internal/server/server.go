package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/handler/health"
)

// Catalog is the destination source rounds draw from.
type Catalog interface {
	globetrotter.DestinationProvider
	CountDestinations(ctx context.Context) (int, error)
}

// Deps wires the server to its stores.
type Deps struct {
	Players globetrotter.PlayerStore
	Catalog Catalog
	// Admin enables /api/admin when set.
	Admin  AdminStore
	Checks map[string]health.Checker

	PublicURL   string
	OptionCount int
	// Seed feeds the per-session random sources.
	Seed uint64
	// SessionTTL evicts idle sessions; zero disables eviction.
	SessionTTL time.Duration
	SPADir     string
}

type Server struct {
	srv        *http.Server
	sessions   *Sessions
	sessionTTL time.Duration
	logger     *slog.Logger
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	sessions := NewSessions(logger, deps.Players, deps.Catalog, deps.OptionCount, deps.Seed)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           newRouter(logger, deps, sessions),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		sessions:   sessions,
		sessionTTL: deps.SessionTTL,
		logger:     logger,
	}
}

func newRouter(logger *slog.Logger, deps Deps, sessions *Sessions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, deps, sessions)
	return r
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	if s.sessionTTL > 0 {
		go s.sessions.Sweep(ctx, sweepInterval(s.sessionTTL), s.sessionTTL)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, then waits for score writes that are
// still in flight.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if werr := s.sessions.Wait(); werr != nil {
		s.logger.Warn("some scores were not saved", "error", werr)
	}
	return err
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				level := slog.LevelInfo
				if ww.Status() >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log(r.Context(), level, "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

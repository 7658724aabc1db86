// Package server exposes the calendar collections and the maintenance run
// over a small JSON HTTP API consumed by the web client.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/plancal/plancal/internal/scheduler"
	"github.com/plancal/plancal/store"
)

// Options configures a Server.
type Options struct {
	Port int
	// AllowedOrigins is the CORS allowlist. Empty means any origin, which
	// matches the single-user local deployment this serves.
	AllowedOrigins []string
	// Now supplies the current instant for maintenance runs and finish
	// timestamps. Nil means time.Now.
	Now func() time.Time
}

type Server struct {
	store   store.DataStore
	sched   *scheduler.Scheduler
	logger  *slog.Logger
	now     func() time.Time
	origins map[string]struct{}
	server  *http.Server
}

func New(st store.DataStore, sched *scheduler.Scheduler, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		store:  st,
		sched:  sched,
		logger: logger,
		now:    now,
	}
	if len(opts.AllowedOrigins) > 0 {
		s.origins = make(map[string]struct{}, len(opts.AllowedOrigins))
		for _, o := range opts.AllowedOrigins {
			s.origins[o] = struct{}{}
		}
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: s.registerRoutes(),
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the listener on its own goroutine. Listen failures are
// delivered on errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("API server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

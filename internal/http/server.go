// Package http exposes BudgetService as a small JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"budget/internal/log"
	"budget/internal/services"
)

const (
	mutationsPerMinute = 60
	readHeaderTimeout  = 10 * time.Second
)

type Server struct {
	http.Server
	svc          *services.BudgetService
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.BudgetService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Server{
		svc:         svc,
		rateLimiter: newRateLimiter(mutationsPerMinute, time.Minute),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimiter.limitMutations)

		r.Get("/config", s.handleConfig)
		r.Get("/events", s.handleListEvents)
		r.Route("/events/{name}", func(r chi.Router) {
			r.Get("/", s.handleEventSummary)
			r.Post("/expenses", s.handleAddExpense)
			r.Delete("/expenses/{id}", s.handleDeleteExpense)
			r.Post("/export", s.handleExport)
		})
	})

	s.Addr = addr
	s.Handler = r
	s.ReadHeaderTimeout = readHeaderTimeout
	return s
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

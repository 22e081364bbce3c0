// Package server exposes the store over a JSON HTTP API for the dashboard.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/chrisdamba/menusight/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// jsonBodyLimit caps request bodies other than uploads.
	jsonBodyLimit   = 1 << 20
	shutdownTimeout = 10 * time.Second
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server wires HTTP routes to a store.
type Server struct {
	store          *store.Store
	logger         *log.Logger
	addr           string
	allowedOrigins []string
}

func New(st *store.Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:          st,
		logger:         logger,
		addr:           cfg.Addr,
		allowedOrigins: cfg.AllowedOrigins,
	}
}

// Router builds the chi router with every API route mounted.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.stateHandler())
		r.Delete("/state", s.resetHandler())

		r.Get("/items", s.listItemsHandler())
		r.Post("/items", s.addItemHandler())
		r.Put("/items", s.replaceItemsHandler())
		r.Patch("/items/{id}", s.updateItemHandler())
		r.Delete("/items/{id}", s.deleteItemHandler())

		r.Post("/uploads", s.uploadHandler())

		r.Get("/dashboard", s.dashboardHandler())
		r.Get("/analytics/revenue", s.revenueHandler())
		r.Get("/analytics/categories", s.categoriesHandler())
		r.Get("/analytics/waste", s.wasteHandler())

		r.Get("/recommendations", s.recommendationsHandler())
		r.Post("/recommendations/refresh", s.refreshHandler())
		r.Post("/recommendations/{id}/implement", s.implementHandler())

		r.Post("/insights", s.insightsHandler())
		r.Post("/chat", s.chatHandler())

		r.Get("/notifications", s.notificationsHandler())
		r.Post("/notifications/read-all", s.readAllHandler())
		r.Post("/notifications/{id}/read", s.readHandler())
	})
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("action: serve | result: listening | addr: %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Printf("action: serve | result: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			_, listed := allowed[origin]
			if origin == "" || (!allowAll && !listed) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

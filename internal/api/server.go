// Package api serves the layout store over HTTP as JSON.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/v1/tabs
//	PUT    /api/v1/tabs/active                {"tabId": "2"}
//	GET    /api/v1/layouts
//	PUT    /api/v1/layouts                    Layouts
//	POST   /api/v1/charts                     {"chartType": "pie", "layouts": Layouts}
//	DELETE /api/v1/charts/{id}
//	GET    /api/v1/charts/{id}/option
//	GET    /api/v1/chart-types
//	GET    /api/v1/chart-types/{type}/option
//
// Errors are returned as {"code": "...", "message": "..."}.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridboard/pkg/charts"
	"github.com/matzehuels/gridboard/pkg/store"
)

// maxBody bounds request bodies. A full six-tier layout of a few hundred
// widgets is well below this.
const maxBody = 1 << 20

// Server exposes a [store.Store] over HTTP.
type Server struct {
	store    *store.Store
	registry *charts.Registry
	logger   *log.Logger
	router   chi.Router
}

// Options configures a [Server].
type Options struct {
	// Registry resolves chart options. Defaults to [charts.Builtin].
	Registry *charts.Registry
	// Logger receives one line per request. Defaults to discarding.
	Logger *log.Logger
}

// New builds the router for st.
func New(st *store.Store, opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = charts.Builtin()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{store: st, registry: opts.Registry, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tabs", s.listTabs)
		r.Put("/tabs/active", s.setActiveTab)
		r.Get("/layouts", s.getLayouts)
		r.Put("/layouts", s.putLayouts)
		r.Post("/charts", s.addChart)
		r.Delete("/charts/{id}", s.deleteChart)
		r.Get("/charts/{id}/option", s.chartOption)
		r.Get("/chart-types", s.chartTypes)
		r.Get("/chart-types/{type}/option", s.typeOption)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " " + r.URL.Path})
	})

	s.router = r
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("Listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// Package web provides the HTTP server and handlers for the plot visits web UI.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/plot-visits/internal/app"
	"github.com/evcraddock/plot-visits/internal/logging"
	"github.com/evcraddock/plot-visits/internal/plot"
	"github.com/evcraddock/plot-visits/internal/visit"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// HeroImage is the picture shown next to the page heading.
const HeroImage = "https://images.unsplash.com/photo-1629460455571-c943339c4f23?w=1600&auto=format&fit=crop&q=80"

// DefaultRenderWait is how long a handler waits for its operation before
// rendering the in-flight state.
const DefaultRenderWait = 1500 * time.Millisecond

// Config controls server behavior.
type Config struct {
	RenderWait time.Duration
	SessionTTL time.Duration
}

// Server is the web UI HTTP server.
type Server struct {
	sessions   *app.Sessions
	templates  *template.Template
	router     chi.Router
	renderWait time.Duration
	now        func() time.Time
}

// NewServer creates a web server that talks to the plots API through api.
func NewServer(api app.API, cfg Config) (*Server, error) {
	funcMap := template.FuncMap{
		"formatSize":  plot.FormatSize,
		"formatPrice": plot.FormatPrice,
		"pathEscape":  url.PathEscape,
		"minGuests":   func() int { return visit.MinGuests },
		"maxGuests":   func() int { return visit.MaxGuests },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	renderWait := cfg.RenderWait
	if renderWait <= 0 {
		renderWait = DefaultRenderWait
	}

	s := &Server{
		sessions:   app.NewSessions(api, cfg.SessionTTL),
		templates:  tmpl,
		router:     chi.NewRouter(),
		renderWait: renderWait,
		now:        time.Now,
	}

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.RequestLogger)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	r.Get("/health", handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/partial", s.handlePartial)
	r.Post("/refresh", s.handleRefresh)
	r.Post("/seed", s.handleSeed)
	r.Post("/plots/{id}/book", s.handleOpenBooking)
	r.Post("/booking/cancel", s.handleCancelBooking)
	r.Post("/booking", s.handleSubmitBooking)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close cancels all sessions and their in-flight requests.
func (s *Server) Close() {
	s.sessions.Close()
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "addr", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down web UI")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/plot-visits/internal/app"
	"github.com/evcraddock/plot-visits/internal/state"
	"github.com/evcraddock/plot-visits/internal/visit"
)

// sessionCookie names the cookie carrying the browser session ID.
const sessionCookie = "pv_session"

type pageData struct {
	Status    state.Status
	Year      int
	HeroImage string
}

// handleHealth reports that the server is up.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleIndex mounts a fresh client for the browser and starts the
// initial plot load.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, ctrl := s.sessions.Mount(sessionID(r))
	setSessionCookie(w, id)

	s.wait(r, ctrl.LoadPlots())
	s.render(w, "index.html", ctrl.Snapshot())
}

// handlePartial re-renders the dynamic part of the page.
func (s *Server) handlePartial(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	s.respond(w, r, ctrl)
}

// handleRefresh reloads the plot list.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	s.wait(r, ctrl.LoadPlots())
	s.respond(w, r, ctrl)
}

// handleSeed loads sample plots into the backend.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	s.wait(r, ctrl.Seed())
	s.respond(w, r, ctrl)
}

// handleOpenBooking opens the booking form for a plot.
func (s *Server) handleOpenBooking(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	key, err := plotKey(r)
	if err != nil {
		http.Error(w, "Bad plot ID", http.StatusBadRequest)
		return
	}
	if !ctrl.OpenForm(key) {
		slog.Debug("booking requested for unlisted plot", "plot_id", key)
	}
	s.respond(w, r, ctrl)
}

// handleCancelBooking closes the booking form.
func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	ctrl.CloseForm()
	s.respond(w, r, ctrl)
}

// handleSubmitBooking sends the visit request for the selected plot.
func (s *Server) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	s.wait(r, ctrl.Submit(visit.FormFromValues(r.PostForm)))
	s.respond(w, r, ctrl)
}

// controller finds the browser's session. Requests without a live
// session are sent back to the index page to mount a new one.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*app.Controller, bool) {
	if ctrl, ok := s.sessions.Get(sessionID(r)); ok {
		return ctrl, true
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return nil, false
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil, false
}

// wait gives op up to renderWait to finish so the response can show its
// outcome. A slow op keeps running and the page polls for the result.
func (s *Server) wait(r *http.Request, op *app.Op) {
	ctx, cancel := context.WithTimeout(r.Context(), s.renderWait)
	defer cancel()
	if err := op.Wait(ctx); err != nil {
		slog.Debug("rendering before operation finished", "op", op.Name(), "error", err)
	}
}

// respond renders the app partial for HTMX requests and the full page otherwise.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, ctrl *app.Controller) {
	if isHTMX(r) {
		s.renderPartial(w, "app", ctrl.Snapshot())
		return
	}
	s.render(w, "index.html", ctrl.Snapshot())
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, name string, st state.Status) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, s.pageData(st)); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}

// renderPartial executes a named template block (no layout).
func (s *Server) renderPartial(w http.ResponseWriter, name string, st state.Status) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, s.pageData(st)); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering partial: %v", err), http.StatusInternalServerError)
	}
}

func (s *Server) pageData(st state.Status) pageData {
	return pageData{Status: st, Year: s.now().Year(), HeroImage: HeroImage}
}

// plotKey returns the decoded {id} path segment. chi matches on RawPath
// when the request carries one, and the segment is still escaped then.
func plotKey(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	return url.PathUnescape(id)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

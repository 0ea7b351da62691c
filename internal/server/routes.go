package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/script"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

// errNoView is returned for events sent before any sidebar was inserted.
var errNoView = errors.New("no sidebar inserted for this session")

// registerRoutes mounts the sidebar endpoints.
func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/api/variants", s.handleVariants)
	r.Route("/api/sidebar", func(r chi.Router) {
		r.Get("/", s.handleInsert)
		r.Get("/{variant}", s.handleInsert)
		r.Post("/{variant}/events", s.handleEvent)
		r.Get("/{variant}/script.js", s.handleScript)
	})
}

type variantInfo struct {
	Name  string   `json:"name"`
	Match []string `json:"match,omitempty"`
	Links int      `json:"links"`
}

type viewResponse struct {
	Session string           `json:"session"`
	Variant string           `json:"variant"`
	View    sidebar.Snapshot `json:"view"`
}

type eventResponse struct {
	Outcome sidebar.Outcome  `json:"outcome"`
	View    sidebar.Snapshot `json:"view"`
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	var out []variantInfo
	for _, v := range s.registry.Variants() {
		out = append(out, variantInfo{Name: v.Name, Match: v.Match, Links: len(v.Tree().Links())})
	}
	writeJSON(w, http.StatusOK, map[string]any{"variants": out})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := q.Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required")
		return
	}

	v, err := s.lookupVariant(chi.URLParam(r, "variant"), location)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	page := sidebar.Page{
		Location:   location,
		PathToRoot: nav.PathToRoot(location),
		Session:    ensureSession(w, r),
	}
	if q.Has("path_to_root") {
		page.PathToRoot = q.Get("path_to_root")
	}

	format := q.Get("format")
	var body string
	snap := s.insert(r.Context(), v, page, func(view *sidebar.View) {
		switch format {
		case "html":
			body = view.HTML()
		case "outline":
			body = view.Outline()
		}
	})

	switch format {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, body)
	case "outline":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, body)
	default:
		writeJSON(w, http.StatusOK, viewResponse{Session: page.Session, Variant: v.Name, View: snap})
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	v, err := s.registry.Get(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var ev sidebar.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}

	out, snap, err := s.dispatch(r.Context(), v, requestSession(r), ev)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventResponse{Outcome: out, View: snap})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	v, err := s.registry.Get(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	opts := s.cfg.Script
	opts.ScrollKey = v.Navigator.ScrollKey()
	opts.IndexDocument = v.Navigator.IndexDocument()

	var buf bytes.Buffer
	if err := script.Write(&buf, v.Name, v.Tree(), opts); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(buf.Bytes())
}

// lookupVariant returns the named variant, or the variant serving location when
// name is empty.
func (s *Server) lookupVariant(name, location string) (*variant.Variant, error) {
	if name != "" {
		return s.registry.Get(name)
	}
	if v := s.registry.ForLocation(location); v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%w: no variants configured", variant.ErrUnknownVariant)
}

// insert runs an insertion for the session and stores the view as the session's current
// view of the variant. render, when set, runs under the session lock.
func (s *Server) insert(ctx context.Context, v *variant.Variant, page sidebar.Page, render func(*sidebar.View)) sidebar.Snapshot {
	sess := s.sessions.get(page.Session, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := v.Navigator.Insert(ctx, page)
	sess.views[v.Name] = view
	if render != nil {
		render(view)
	}
	return view.Snapshot()
}

// dispatch delivers ev to the session's current view of the variant.
func (s *Server) dispatch(ctx context.Context, v *variant.Variant, sessionID string, ev sidebar.Event) (sidebar.Outcome, sidebar.Snapshot, error) {
	if sessionID == "" {
		return sidebar.Outcome{}, sidebar.Snapshot{}, errNoView
	}
	sess := s.sessions.get(sessionID, false)
	if sess == nil {
		return sidebar.Outcome{}, sidebar.Snapshot{}, errNoView
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := sess.views[v.Name]
	if view == nil {
		return sidebar.Outcome{}, sidebar.Snapshot{}, errNoView
	}
	out, err := view.Dispatch(ctx, ev)
	if err != nil {
		return sidebar.Outcome{}, sidebar.Snapshot{}, err
	}
	return out, view.Snapshot(), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoView):
		return http.StatusConflict
	case errors.Is(err, sidebar.ErrUnknownTarget), errors.Is(err, variant.ErrUnknownVariant):
		return http.StatusNotFound
	case errors.Is(err, sidebar.ErrUnknownEvent):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

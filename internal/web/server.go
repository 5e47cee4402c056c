// Package web serves the dashboard over HTTP: an HTML page with the inline
// orbit map, the standalone SVG, a JSON state endpoint and metrics.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"astraguard-console/internal/header"
	"astraguard-console/internal/logging"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
	"astraguard-console/internal/store"
)

//go:embed templates/index.html
var content embed.FS

const shutdownTimeout = 5 * time.Second

// Options configures the server.
type Options struct {
	Geometry orbit.Geometry
	Header   *header.Header
	Metrics  *metrics.Collector
	Logger   *slog.Logger
	// Refresh is how often the page reloads itself.
	Refresh time.Duration
	// Now overrides the frame clock. Defaults to time.Now.
	Now func() time.Time
}

// Server renders the dashboard from a store.
type Server struct {
	store    *store.Store
	header   *header.Header
	metrics  *metrics.Collector
	log      *slog.Logger
	orbitMap orbit.Map
	refresh  time.Duration
	now      func() time.Time
	tpl      *template.Template
}

// NewServer builds a server reading from st. Selections made on the map are
// recorded in st.
func NewServer(st *store.Store, opts Options) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	if opts.Header == nil {
		opts.Header = header.New(nil, header.DefaultRefresh, header.ClockFormat{})
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Refresh <= 0 {
		opts.Refresh = 5 * time.Second
	}
	return &Server{
		store:    st,
		header:   opts.Header,
		metrics:  opts.Metrics,
		log:      opts.Logger.With("component", "web"),
		orbitMap: orbit.Map{Geometry: opts.Geometry, OnSelect: st.Select},
		refresh:  opts.Refresh,
		now:      opts.Now,
		tpl:      tpl,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/orbit.svg", s.handleSVG)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/select", s.handleSelect)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Start serves on addr until ctx is cancelled. The header clock runs for
// the lifetime of the server.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.header.Mount(ctx, nil)
	defer s.header.Unmount()

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("dashboard listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) frame(snap store.Snapshot) orbit.Frame {
	return s.orbitMap.Layout(snap.State.Satellites, snap.Selection, snap.State.Anomalies, s.now())
}

func selectHref(m orbit.Marker) string {
	return "/select?id=" + url.QueryEscape(m.Satellite.ID)
}

type indexData struct {
	Loaded       bool
	Header       header.View
	Connectivity string
	Map          template.HTML
	Frame        orbit.Frame
	Anomalies    []mission.AnomalyEvent
	Selected     *mission.Satellite
	Refresh      int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.store.Snapshot()
	data := indexData{
		Loaded:       snap.Loaded,
		Connectivity: header.ConnectivityLabel(snap.Connected),
		Refresh:      int(s.refresh / time.Second),
	}
	if data.Refresh < 1 {
		data.Refresh = 1
	}
	if snap.Loaded {
		f := s.frame(snap)
		svg, err := orbit.SVG(f, orbit.SVGOptions{Href: selectHref, Class: "orbit-map"})
		if err != nil {
			s.log.Error("render orbit map", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		s.metrics.ObserveFrame(metrics.SurfaceWeb, f)
		data.Header = s.header.View(snap.State.Mission, snap.Connected)
		data.Map = template.HTML(svg)
		data.Frame = f
		data.Anomalies = snap.State.Anomalies
		if m, ok := f.Selected(); ok {
			sat := m.Satellite
			data.Selected = &sat
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	f := s.frame(s.store.Snapshot())
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := orbit.RenderSVG(w, f, orbit.SVGOptions{Href: selectHref}); err != nil {
		s.log.Error("render svg", "err", err)
		return
	}
	s.metrics.ObserveFrame(metrics.SurfaceSVG, f)
}

type stateResponse struct {
	mission.State
	Connected    bool   `json:"connected"`
	Connectivity string `json:"connectivity"`
	Selected     string `json:"selected,omitempty"`
	Clock        string `json:"clock"`
	Version      uint64 `json:"version"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if !snap.Loaded {
		http.Error(w, "no mission state yet", http.StatusServiceUnavailable)
		return
	}
	resp := stateResponse{
		State:        snap.State,
		Connected:    snap.Connected,
		Connectivity: header.ConnectivityLabel(snap.Connected),
		Clock:        s.header.ClockLabel(),
		Version:      snap.Version,
	}
	if snap.Selection.Set {
		resp.Selected = snap.Selection.ID
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encode state", "err", err)
	}
}

// handleSelect clicks the marker named by ?id=. An empty id clears the
// selection.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.store.ClearSelection()
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	f := s.frame(s.store.Snapshot())
	if !s.orbitMap.Click(f, id) {
		http.Error(w, "unknown satellite", http.StatusNotFound)
		return
	}
	s.log.Info("satellite selected", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

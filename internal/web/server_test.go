package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/text/language"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/header"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
	"astraguard-console/internal/store"
)

type stillTicker struct{}

func (stillTicker) C() <-chan time.Time { return nil }
func (stillTicker) Stop()               {}

type stillClock struct{ now time.Time }

func (c stillClock) Now() time.Time                       { return c.now }
func (c stillClock) NewTicker(time.Duration) clock.Ticker { return stillTicker{} }

func testState() mission.State {
	return mission.State{
		Mission: mission.MissionSnapshot{Name: "ORBITAL-7", Phase: "ASCENT", Status: mission.StatusDegraded},
		Satellites: []mission.Satellite{
			{ID: "sat-1", OrbitSlot: "A1", Status: mission.StatusNominal},
			{ID: "sat-2", OrbitSlot: "B2", Status: mission.StatusCritical},
		},
		Anomalies: []mission.AnomalyEvent{
			{ID: "an-1", Satellite: "SAT-B2", Type: "thermal", Message: "radiator overheating"},
		},
	}
}

func newTestServer(t *testing.T, loaded bool) (*Server, *store.Store, *metrics.Collector) {
	t.Helper()
	reg := prometheus.NewRegistry()
	coll, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	st := store.New(coll)
	if loaded {
		if err := st.Apply(testState()); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		st.SetConnected(true)
	}
	h := header.New(stillClock{now: time.Date(2026, 1, 1, 14, 35, 0, 0, time.UTC)}, time.Minute,
		header.ClockFormat{Tag: language.MustParse("en-IN"), Location: time.UTC})
	h.Mount(context.Background(), nil)
	t.Cleanup(h.Unmount)
	at := time.UnixMilli(0)
	srv := NewServer(st, Options{
		Geometry: orbit.DefaultGeometry,
		Header:   h,
		Metrics:  coll,
		Now:      func() time.Time { return at },
	})
	return srv, st, coll
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIndexWaitingForState(t *testing.T) {
	srv, _, _ := newTestServer(t, false)
	w := get(t, srv.Handler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Waiting for mission state") || !strings.Contains(body, header.LabelOffline) {
		t.Fatalf("unexpected waiting page:\n%s", body)
	}
}

func TestIndexRendersDashboard(t *testing.T) {
	srv, _, coll := newTestServer(t, true)
	w := get(t, srv.Handler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"ORBITAL-7", "[ASCENT]", "🟡", header.LabelOnline, "T_MINUS_NOW", "02:35 pm", "<svg", `class="anomaly"`, "radiator overheating", "/select?id=sat-2"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q", want)
		}
	}
	if got := testutil.ToFloat64(coll.FramesRendered.WithLabelValues(metrics.SurfaceWeb)); got != 1 {
		t.Fatalf("web frames = %v", got)
	}
}

func TestIndexStatusClassesHaveStyles(t *testing.T) {
	srv, _, _ := newTestServer(t, true)
	body := get(t, srv.Handler(), "/").Body.String()
	for _, level := range []mission.StatusLevel{mission.StatusNominal, mission.StatusCritical} {
		if !strings.Contains(body, `<td class="`+string(level)+`">`) {
			t.Fatalf("status cell for %s not tagged", level)
		}
		if !strings.Contains(body, "."+string(level)+" {") {
			t.Fatalf("no style rule for class %s", level)
		}
	}
}

func TestIndexUnknownPath(t *testing.T) {
	srv, _, _ := newTestServer(t, true)
	if w := get(t, srv.Handler(), "/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestOrbitSVG(t *testing.T) {
	srv, _, coll := newTestServer(t, true)
	w := get(t, srv.Handler(), "/orbit.svg")
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("content type %q", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "<svg") || strings.Count(body, `class="satellite`) != 2 {
		t.Fatalf("unexpected svg:\n%s", body)
	}
	if got := testutil.ToFloat64(coll.FramesRendered.WithLabelValues(metrics.SurfaceSVG)); got != 1 {
		t.Fatalf("svg frames = %v", got)
	}
}

func TestSelectFlow(t *testing.T) {
	srv, st, _ := newTestServer(t, true)
	h := srv.Handler()

	w := get(t, h, "/select?id=sat-2")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if sel := st.Snapshot().Selection; !sel.Set || sel.ID != "sat-2" {
		t.Fatalf("selection not stored: %+v", sel)
	}
	svg := get(t, h, "/orbit.svg").Body.String()
	if !strings.Contains(svg, `class="satellite selected" data-id="sat-2"`) || !strings.Contains(svg, "selection-ring") {
		t.Fatalf("selected marker not highlighted:\n%s", svg)
	}

	if w := get(t, h, "/select?id=ghost"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
	if st.Snapshot().Selection.ID != "sat-2" {
		t.Fatalf("unknown id changed the selection")
	}

	get(t, h, "/select")
	if st.Snapshot().Selection.Set {
		t.Fatalf("empty id must clear the selection")
	}
}

func TestAPIState(t *testing.T) {
	srv, st, _ := newTestServer(t, false)
	h := srv.Handler()
	if w := get(t, h, "/api/state"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before state, got %d", w.Code)
	}
	_ = st.Apply(testState())
	st.Select(mission.Satellite{ID: "sat-1"})

	w := get(t, h, "/api/state")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Mission      mission.MissionSnapshot `json:"mission"`
		Satellites   []mission.Satellite     `json:"satellites"`
		Connected    bool                    `json:"connected"`
		Connectivity string                  `json:"connectivity"`
		Selected     string                  `json:"selected"`
		Clock        string                  `json:"clock"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mission.Name != "ORBITAL-7" || len(resp.Satellites) != 2 {
		t.Fatalf("unexpected state %+v", resp)
	}
	if resp.Connected || resp.Connectivity != header.LabelOffline {
		t.Fatalf("unexpected connectivity %+v", resp)
	}
	if resp.Selected != "sat-1" || resp.Clock != "02:35 pm" {
		t.Fatalf("unexpected selection or clock %+v", resp)
	}
}

func TestMetricsRoute(t *testing.T) {
	srv, _, _ := newTestServer(t, true)
	h := srv.Handler()
	get(t, h, "/orbit.svg")
	body := get(t, h, "/metrics").Body.String()
	if !strings.Contains(body, "dashboard_frames_rendered_total") {
		t.Fatalf("metrics missing:\n%s", body)
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	srv, _, _ := newTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop")
	}
}

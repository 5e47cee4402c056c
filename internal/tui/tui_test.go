package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/header"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
)

type fakeProgram struct {
	mu   sync.Mutex
	msgs []tea.Msg
	quit chan struct{}
}

func newFakeProgram() *fakeProgram { return &fakeProgram{quit: make(chan struct{}, 1)} }

func (f *fakeProgram) Send(msg tea.Msg) {
	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()
	if _, ok := msg.(tea.QuitMsg); ok {
		f.quit <- struct{}{}
	}
}

func (f *fakeProgram) sent() []tea.Msg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tea.Msg(nil), f.msgs...)
}

type fakeTicker struct{ ch chan time.Time }

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type fakeClock struct {
	now    time.Time
	ticker *fakeTicker
}

func (f *fakeClock) Now() time.Time                       { return f.now }
func (f *fakeClock) NewTicker(time.Duration) clock.Ticker { return f.ticker }

func testState() mission.State {
	return mission.State{
		Mission: mission.MissionSnapshot{Name: "ORBITAL-7", Phase: "ASCENT", Status: mission.StatusNominal},
		Satellites: []mission.Satellite{
			{ID: "sat-1", OrbitSlot: "A1", Status: mission.StatusNominal},
			{ID: "sat-2", OrbitSlot: "B2", Status: mission.StatusCritical},
		},
		Anomalies: []mission.AnomalyEvent{
			{ID: "an-1", Satellite: "SAT-B2", Type: "thermal", Message: "radiator overheating"},
		},
	}
}

func testHeader() (*header.Header, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC), ticker: &fakeTicker{ch: make(chan time.Time)}}
	return header.New(clk, time.Minute, header.ClockFormat{Tag: language.BritishEnglish, Location: time.UTC}), clk
}

func TestDashboardMessages(t *testing.T) {
	p := newFakeProgram()
	h, _ := testHeader()
	d := newDashboard(p, h)
	d.mount(context.Background())
	if !h.Mounted() {
		t.Fatalf("header not mounted")
	}
	st := testState()
	if err := d.Apply(st); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	st.Satellites[0].ID = "mutated"
	d.SetConnected(true)

	msgs := p.sent()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	sm, ok := msgs[0].(stateMsg)
	if !ok {
		t.Fatalf("expected stateMsg, got %T", msgs[0])
	}
	if sm.Satellites[0].ID != "sat-1" {
		t.Fatalf("stateMsg shares caller storage")
	}
	if c, ok := msgs[1].(connMsg); !ok || !c.connected {
		t.Fatalf("expected connMsg true, got %#v", msgs[1])
	}

	go func() {
		<-p.quit
		d.finish(nil)
	}()
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.Mounted() {
		t.Fatalf("header still mounted after close")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	select {
	case <-d.Done():
	default:
		t.Fatalf("done not closed")
	}
}

func TestDashboardClockTickSendsLabel(t *testing.T) {
	p := newFakeProgram()
	h, clk := testHeader()
	d := newDashboard(p, h)
	d.mount(context.Background())
	clk.ticker.ch <- time.Date(2026, 1, 1, 9, 35, 0, 0, time.UTC)
	deadline := time.After(time.Second)
	for {
		msgs := p.sent()
		if len(msgs) == 1 {
			if c, ok := msgs[0].(clockMsg); !ok || c.label != "09:35" {
				t.Fatalf("unexpected tick message %#v", msgs[0])
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no clock message after tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	d.finish(nil)
	if h.Mounted() {
		t.Fatalf("program exit must unmount the header")
	}
}

func TestDashboardExitBeforeMountLeavesClockStopped(t *testing.T) {
	p := newFakeProgram()
	h, _ := testHeader()
	d := newDashboard(p, h)
	d.finish(nil)
	d.mount(context.Background())
	if h.Mounted() {
		t.Fatalf("clock started after the program exited")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(p.sent()) != 0 {
		t.Fatalf("messages sent to an exited program: %#v", p.sent())
	}
}

func TestStartRunsClockUntilExit(t *testing.T) {
	h, _ := testHeader()
	ctx, cancel := context.WithCancel(context.Background())
	d := Start(ctx, Options{Geometry: orbit.DefaultGeometry, Header: h},
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	if !h.Mounted() {
		t.Fatalf("header clock not running after Start")
	}
	cancel()
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("program did not stop on cancel")
	}
	if err := d.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if h.Mounted() {
		t.Fatalf("program exit must unmount the header")
	}
}

func TestModelStartsWithSeededClock(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	m.clockLabel = "09:05"
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, stateMsg{testState()})
	if !strings.Contains(m.View(), "09:05") {
		t.Fatalf("seeded clock label missing from view")
	}
}

func newTestModel(selected *[]string) model {
	at := time.UnixMilli(1_000_000)
	return newModel(Options{
		Geometry: orbit.DefaultGeometry,
		Now:      func() time.Time { return at },
		OnSelect: func(s mission.Satellite) { *selected = append(*selected, s.ID) },
	})
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return mm
}

func TestModelWaitsForState(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	if v := m.View(); !strings.Contains(v, "Waiting for mission state") {
		t.Fatalf("expected waiting view, got:\n%s", v)
	}
	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(selected) != 0 {
		t.Fatalf("selection without satellites: %v", selected)
	}
}

func TestModelRendersState(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, stateMsg{testState()})
	m = update(t, m, connMsg{connected: true})
	m = update(t, m, clockMsg{label: "09:05"})

	v := m.View()
	for _, want := range []string{"ORBITAL-7", "ASCENT", header.LabelOnline, "T_MINUS_NOW", "09:05", "sat-1", "radiator overheating"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
	if len(m.frame.Markers) != 2 || len(m.frame.Anomalies) != 1 {
		t.Fatalf("unexpected frame %+v", m.frame)
	}
}

func TestModelSelectAndClear(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	m = update(t, m, stateMsg{testState()})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(selected) != 1 || selected[0] != "sat-2" {
		t.Fatalf("expected sat-2 selected, got %v", selected)
	}
	marker, ok := m.frame.Selected()
	if !ok || marker.Satellite.ID != "sat-2" || marker.Radius != orbit.SelectedMarkerRadius {
		t.Fatalf("selected marker not highlighted: %+v", marker)
	}
	if !strings.Contains(m.View(), "slot=B2") {
		t.Fatalf("selection details missing")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.frame.Selected(); ok {
		t.Fatalf("selection not cleared")
	}
}

func TestModelSelectionSurvivesUpdate(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	m = update(t, m, stateMsg{testState()})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	st := testState()
	st.Satellites = st.Satellites[1:]
	m = update(t, m, stateMsg{st})
	if _, ok := m.frame.Selected(); ok {
		t.Fatalf("absent satellite must not be highlighted")
	}
	m = update(t, m, stateMsg{testState()})
	if marker, ok := m.frame.Selected(); !ok || marker.Satellite.ID != "sat-1" {
		t.Fatalf("selection lost after satellite returned")
	}
}

func TestModelFrameTickAndQuit(t *testing.T) {
	var selected []string
	m := newTestModel(&selected)
	if m.Init() == nil {
		t.Fatalf("Init must schedule a frame tick")
	}
	_, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("frame tick must reschedule")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

package header

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/text/language"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/mission"
)

func TestStatusGlyph(t *testing.T) {
	seen := map[string]bool{}
	for _, lvl := range mission.Levels {
		g := StatusGlyph(lvl)
		if g.Symbol == "" {
			t.Fatalf("empty glyph for %q", lvl)
		}
		seen[g.Name] = true
	}
	if len(seen) != 3 || !seen["green"] || !seen["yellow"] || !seen["red"] {
		t.Fatalf("expected green/yellow/red glyphs, got %v", seen)
	}
}

func TestStatusGlyphPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown status")
		}
	}()
	StatusGlyph("Unknown")
}

func TestConnectivityLabel(t *testing.T) {
	if ConnectivityLabel(true) != "SYSTEM_ONLINE" || ConnectivityLabel(false) != "SYSTEM_OFFLINE" {
		t.Fatalf("unexpected connectivity labels")
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cases := []struct {
		tag  string
		loc  *time.Location
		want string
	}{
		{"en-IN", kolkata, "02:35 pm"},
		{"en-US", time.UTC, "09:05 AM"},
		{"en-GB", time.UTC, "09:05"},
		{"de-DE", kolkata, "14:35"},
	}
	for _, c := range cases {
		got := FormatClock(ts, language.MustParse(c.tag), c.loc)
		if got != c.want {
			t.Errorf("FormatClock(%s) = %q want %q", c.tag, got, c.want)
		}
	}
}

func TestNewClockFormat(t *testing.T) {
	if _, err := NewClockFormat("en-GB", "UTC"); err != nil {
		t.Fatalf("NewClockFormat: %v", err)
	}
	if _, err := NewClockFormat("not a tag!", "UTC"); err == nil {
		t.Fatalf("expected locale error")
	}
	if _, err := NewClockFormat("en-GB", "Nowhere/City"); err == nil {
		t.Fatalf("expected timezone error")
	}
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *fakeTicker
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTicker(time.Duration) clock.Ticker { return f.ticker }

func newHeader(t *testing.T) (*Header, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), ticker: &fakeTicker{ch: make(chan time.Time)}}
	format := ClockFormat{Tag: language.BritishEnglish, Location: time.UTC}
	return New(clk, 30*time.Second, format), clk
}

func TestHeaderClockRefresh(t *testing.T) {
	h, clk := newHeader(t)
	if h.ClockLabel() != "" {
		t.Fatalf("label set before mount")
	}
	ticks := make(chan string, 1)
	h.Mount(context.Background(), func(l string) { ticks <- l })
	defer h.Unmount()
	if got := h.ClockLabel(); got != "10:00" {
		t.Fatalf("expected mount label 10:00, got %q", got)
	}

	// wall time moving without a tick must not change the label
	clk.mu.Lock()
	clk.now = clk.now.Add(10 * time.Second)
	clk.mu.Unlock()
	if got := h.ClockLabel(); got != "10:00" {
		t.Fatalf("label changed before interval: %q", got)
	}

	clk.ticker.ch <- time.Date(2026, 1, 1, 10, 1, 0, 0, time.UTC)
	select {
	case l := <-ticks:
		if l != "10:01" {
			t.Fatalf("unexpected tick label %q", l)
		}
	case <-time.After(time.Second):
		t.Fatalf("no refresh after tick")
	}
	if got := h.ClockLabel(); got != "10:01" {
		t.Fatalf("expected refreshed label, got %q", got)
	}
}

func TestHeaderUnmountStopsRefresh(t *testing.T) {
	h, clk := newHeader(t)
	var mu sync.Mutex
	refreshes := 0
	h.Mount(context.Background(), func(string) {
		mu.Lock()
		refreshes++
		mu.Unlock()
	})
	if !h.Mounted() {
		t.Fatalf("expected mounted header")
	}
	h.Unmount()
	h.Unmount()
	if h.Mounted() {
		t.Fatalf("expected unmounted header")
	}
	select {
	case clk.ticker.ch <- time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC):
		t.Fatalf("tick delivered after unmount")
	case <-time.After(50 * time.Millisecond):
	}
	if got := h.ClockLabel(); got != "10:00" {
		t.Fatalf("label changed after unmount: %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if refreshes != 0 {
		t.Fatalf("expected no refreshes, got %d", refreshes)
	}
}

func TestHeaderView(t *testing.T) {
	h, _ := newHeader(t)
	h.Mount(context.Background(), nil)
	defer h.Unmount()
	snap := mission.MissionSnapshot{Name: "ASTRAGUARD-1", Phase: "LEOP", Status: mission.StatusCritical}
	v := h.View(snap, false)
	if v.Glyph.Name != "red" || v.Connectivity != LabelOffline || v.Clock != "10:00" {
		t.Fatalf("unexpected view %+v", v)
	}
	out := Render(v, 80)
	for _, want := range []string{"ASTRAGUARD-1", "LEOP", "SYSTEM_OFFLINE", "10:00", "T_MINUS_NOW"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTruncatesName(t *testing.T) {
	v := BuildView(mission.MissionSnapshot{Name: strings.Repeat("N", 200), Phase: "P", Status: mission.StatusNominal}, true, "10:00")
	out := Render(v, 60)
	if strings.Contains(out, strings.Repeat("N", 100)) {
		t.Fatalf("expected name to be truncated")
	}
	if !strings.Contains(out, "SYSTEM_ONLINE") {
		t.Fatalf("connectivity label cut off:\n%s", out)
	}
}

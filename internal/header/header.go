package header

import (
	"context"
	"sync"
	"time"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/mission"
)

// DefaultRefresh is how often the clock label is refreshed while mounted.
const DefaultRefresh = 30 * time.Second

// View is everything a renderer needs to draw the header.
type View struct {
	Name         string
	Phase        string
	Status       mission.StatusLevel
	Glyph        Glyph
	Connected    bool
	Connectivity string
	ClockCaption string
	Clock        string
}

// Header owns the clock label. The label is set on Mount and refreshed on
// every interval tick until Unmount.
type Header struct {
	clk      clock.Clock
	interval time.Duration
	format   ClockFormat

	mu    sync.Mutex
	label string
	timer *clock.Timer
}

// New creates an unmounted header.
func New(clk clock.Clock, interval time.Duration, format ClockFormat) *Header {
	if clk == nil {
		clk = clock.Real{}
	}
	if interval <= 0 {
		interval = DefaultRefresh
	}
	return &Header{clk: clk, interval: interval, format: format}
}

// Mount reads the clock and starts the refresh timer. onTick, when set, is
// called with the new label after each refresh. Mounting a mounted header
// is a no-op.
func (h *Header) Mount(ctx context.Context, onTick func(label string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		return
	}
	h.label = h.format.Format(h.clk.Now())
	h.timer = clock.Start(ctx, h.clk, h.interval, func(now time.Time) {
		label := h.format.Format(now)
		h.mu.Lock()
		h.label = label
		h.mu.Unlock()
		if onTick != nil {
			onTick(label)
		}
	})
}

// Unmount stops the refresh timer. No refresh is observable after it
// returns. Calling it more than once, or on an unmounted header, is safe.
func (h *Header) Unmount() {
	h.mu.Lock()
	t := h.timer
	h.timer = nil
	h.mu.Unlock()
	// stopped outside the lock, the callback takes it
	t.Stop()
}

// Mounted reports whether the refresh timer is running.
func (h *Header) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timer != nil
}

// ClockLabel returns the current clock label.
func (h *Header) ClockLabel() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.label
}

// View combines the snapshot and connectivity flag with the clock label.
func (h *Header) View(snap mission.MissionSnapshot, connected bool) View {
	return BuildView(snap, connected, h.ClockLabel())
}

// BuildView assembles a header view. It panics on an invalid mission
// status, see StatusGlyph.
func BuildView(snap mission.MissionSnapshot, connected bool, clockLabel string) View {
	return View{
		Name:         snap.Name,
		Phase:        snap.Phase,
		Status:       snap.Status,
		Glyph:        StatusGlyph(snap.Status),
		Connected:    connected,
		Connectivity: ConnectivityLabel(connected),
		ClockCaption: "T_MINUS_NOW",
		Clock:        clockLabel,
	}
}

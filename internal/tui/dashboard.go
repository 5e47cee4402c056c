// Package tui renders the mission dashboard in the terminal.
package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"astraguard-console/internal/header"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// Options configures the dashboard.
type Options struct {
	Geometry      orbit.Geometry
	Header        *header.Header
	FrameInterval time.Duration
	Metrics       *metrics.Collector
	// OnSelect is called with the satellite picked on the orbit map.
	OnSelect func(mission.Satellite)
	// Now overrides the frame clock. Defaults to time.Now.
	Now func() time.Time
}

// Dashboard runs the bubbletea program and forwards feed updates to it.
// It implements feed.Sink.
type Dashboard struct {
	program teaProgram
	header  *header.Header
	done    chan struct{}

	mu     sync.Mutex
	err    error
	closed bool
}

// Start launches the program in the background and mounts the header clock.
func Start(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) *Dashboard {
	if opts.Header == nil {
		opts.Header = header.New(nil, header.DefaultRefresh, header.ClockFormat{})
	}
	d := newDashboard(nil, opts.Header)
	// the timer runs before the program so an early exit always unmounts it
	d.mount(ctx)
	m := newModel(opts)
	m.clockLabel = opts.Header.ClockLabel()
	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)
	p := tea.NewProgram(m, progOpts...)
	d.program = p
	go func() {
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			err = nil
		}
		d.finish(err)
	}()
	return d
}

func newDashboard(p teaProgram, h *header.Header) *Dashboard {
	return &Dashboard{program: p, header: h, done: make(chan struct{})}
}

// mount starts the header clock. Ticks are forwarded to the program. It is
// a no-op once the program has exited.
func (d *Dashboard) mount(ctx context.Context) {
	select {
	case <-d.done:
		return
	default:
	}
	d.header.Mount(ctx, func(label string) {
		d.program.Send(clockMsg{label: label})
	})
}

func (d *Dashboard) finish(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
	d.header.Unmount()
	close(d.done)
}

// Apply implements feed.Sink.
func (d *Dashboard) Apply(st mission.State) error {
	d.program.Send(stateMsg{st.Clone()})
	return nil
}

// SetConnected implements feed.Sink.
func (d *Dashboard) SetConnected(connected bool) {
	d.program.Send(connMsg{connected: connected})
}

// Done is closed when the program exits.
func (d *Dashboard) Done() <-chan struct{} { return d.done }

// Wait blocks until the program exits and returns its error.
func (d *Dashboard) Wait() error {
	<-d.done
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close asks the program to quit and waits for it. The header clock is
// stopped on every path.
func (d *Dashboard) Close() error {
	d.mu.Lock()
	first := !d.closed
	d.closed = true
	d.mu.Unlock()
	defer d.header.Unmount()
	if first {
		select {
		case <-d.done:
		default:
			d.program.Send(tea.Quit())
		}
	}
	return d.Wait()
}

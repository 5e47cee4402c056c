package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"astraguard-console/internal/header"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
)

// stateMsg carries a new mission snapshot.
type stateMsg struct{ mission.State }

// connMsg carries the feed connectivity flag.
type connMsg struct{ connected bool }

// clockMsg carries a refreshed header clock label.
type clockMsg struct{ label string }

// frameMsg redraws the orbit map so the drift is visible.
type frameMsg time.Time

const (
	sidePanelWidth = 42
	minMapWidth    = 20
	minMapHeight   = 8
	chromeHeight   = 6
)

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2dd4bf"))
	anomalyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(orbit.ColorRed)))
	panelStyle   = lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#334155"))
)

type model struct {
	orbitMap      orbit.Map
	now           func() time.Time
	frameInterval time.Duration
	metrics       *metrics.Collector

	state      mission.State
	loaded     bool
	connected  bool
	clockLabel string
	selection  mission.Selection
	frame      orbit.Frame

	table    table.Model
	anomVP   viewport.Model
	keys     keyMap
	help     help.Model
	showHelp bool
	width    int
	height   int
}

func newModel(opts Options) model {
	cols := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Slot", Width: 8},
		{Title: "Status", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(5))
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = time.Second
	}
	m := model{
		now:           now,
		frameInterval: interval,
		metrics:       opts.Metrics,
		table:         t,
		anomVP:        viewport.New(sidePanelWidth, 4),
		keys:          defaultKeys(),
		help:          help.New(),
		width:         80,
		height:        24,
	}
	onSelect, coll := opts.OnSelect, opts.Metrics
	m.orbitMap = orbit.Map{
		Geometry: opts.Geometry,
		OnSelect: func(sat mission.Satellite) {
			coll.ObserveSelection()
			if onSelect != nil {
				onSelect(sat)
			}
		},
	}
	m.relayout()
	return m
}

func frameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) Init() tea.Cmd { return frameTick(m.frameInterval) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		m.refreshAnomalies()
	case stateMsg:
		m.state = msg.State
		m.loaded = true
		m.refreshTable()
		m.refreshFrame()
		m.refreshAnomalies()
	case connMsg:
		m.connected = msg.connected
	case clockMsg:
		m.clockLabel = msg.label
	case frameMsg:
		m.refreshFrame()
		return m, frameTick(m.frameInterval)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			m.relayout()
			return m, nil
		case key.Matches(msg, m.keys.Select):
			m.selectCurrent()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.selection = mission.NoSelection
			m.refreshFrame()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// selectCurrent clicks the marker of the satellite under the table cursor.
func (m *model) selectCurrent() {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.state.Satellites) {
		return
	}
	sat := m.state.Satellites[cursor]
	m.refreshFrame()
	if m.orbitMap.Click(m.frame, sat.ID) {
		m.selection = mission.Select(sat.ID)
		m.refreshFrame()
	}
}

func (m *model) refreshFrame() {
	m.frame = m.orbitMap.Layout(m.state.Satellites, m.selection, m.state.Anomalies, m.now())
	m.metrics.ObserveFrame(metrics.SurfaceTUI, m.frame)
}

func (m *model) refreshTable() {
	rows := make([]table.Row, 0, len(m.state.Satellites))
	for _, s := range m.state.Satellites {
		rows = append(rows, table.Row{s.ID, s.OrbitSlot, string(s.Status)})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *model) refreshAnomalies() {
	if len(m.state.Anomalies) == 0 {
		m.anomVP.SetContent(dimStyle.Render("none"))
		return
	}
	onMap := make(map[string]bool, len(m.frame.Anomalies))
	for _, a := range m.frame.Anomalies {
		onMap[a.Anomaly.ID] = true
	}
	var lines []string
	for _, a := range m.state.Anomalies {
		mark := " "
		if onMap[a.ID] {
			mark = anomalyStyle.Render("◎")
		}
		line := fmt.Sprintf("%s %s %s", mark, a.Satellite, a.Type)
		if a.Message != "" {
			line += " - " + a.Message
		}
		lines = append(lines, wordwrap.String(line, m.anomVP.Width))
	}
	m.anomVP.SetContent(strings.Join(lines, "\n"))
}

func (m *model) relayout() {
	body := m.height - chromeHeight
	if m.showHelp {
		body -= 2
	}
	if body < minMapHeight {
		body = minMapHeight
	}
	tableHeight := body/2 - 1
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(sidePanelWidth)
	anomHeight := body - tableHeight - 3
	if anomHeight < 1 {
		anomHeight = 1
	}
	m.anomVP.Width = sidePanelWidth
	m.anomVP.Height = anomHeight
}

func (m model) mapSize() (int, int) {
	w := m.width - sidePanelWidth - 3
	if w < minMapWidth {
		w = minMapWidth
	}
	h := m.height - chromeHeight
	if m.showHelp {
		h -= 2
	}
	if h < minMapHeight {
		h = minMapHeight
	}
	return w, h
}

func (m model) View() string {
	if !m.loaded {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Waiting for mission state…"),
			dimStyle.Render(header.ConnectivityLabel(m.connected)),
			m.help.View(m.keys),
		)
	}
	top := header.Render(header.BuildView(m.state.Mission, m.connected, m.clockLabel), m.width)

	mw, mh := m.mapSize()
	orbitView := orbit.RenderASCII(m.frame, mw, mh)

	sel := dimStyle.Render("no selection")
	if marker, ok := m.frame.Selected(); ok {
		s := marker.Satellite
		sel = fmt.Sprintf("%s %s slot=%s status=%s", titleStyle.Render("◉"), s.ID, s.OrbitSlot, s.Status)
	}
	side := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Satellites"),
		m.table.View(),
		sel,
		titleStyle.Render("Anomalies"),
		m.anomVP.View(),
	))
	body := lipgloss.JoinHorizontal(lipgloss.Top, orbitView, " ", side)
	return lipgloss.JoinVertical(lipgloss.Left, top, body, m.help.View(m.keys))
}

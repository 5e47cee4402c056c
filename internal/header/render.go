package header

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var (
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#99f6e4"))
	phaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2dd4bf")).Padding(0, 1)
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#14b8a6"))
	clockStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ccfbf1"))
	onlineStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80")).Padding(0, 1)
	offlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")).Padding(0, 1)
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("#14b8a6"))
)

// Render draws the header for a terminal of the given width. The mission
// name is truncated so the status block always fits.
func Render(v View, width int) string {
	conn := offlineStyle.Render(v.Connectivity)
	if v.Connected {
		conn = onlineStyle.Render(v.Connectivity)
	}
	clockBlock := lipgloss.JoinVertical(lipgloss.Right, captionStyle.Render(v.ClockCaption), clockStyle.Render(v.Clock))
	right := lipgloss.JoinHorizontal(lipgloss.Center, conn, "  ", clockBlock)

	nameWidth := width - lipgloss.Width(right) - 8
	name := v.Name
	if nameWidth > 0 && lipgloss.Width(name) > nameWidth {
		name = truncate.StringWithTail(name, uint(nameWidth), "…")
	}
	phase := lipgloss.JoinHorizontal(lipgloss.Center, phaseStyle.Render("["+v.Phase+"]"), " ", v.Glyph.Symbol)
	left := lipgloss.JoinVertical(lipgloss.Left, "🛰  "+nameStyle.Render(name), phase)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	if width > 0 {
		return frameStyle.Width(width).Render(row)
	}
	return frameStyle.Render(row)
}

package orbit

import "astraguard-console/internal/mission"

// Color is a hex RGB color such as "#22c55e".
type Color string

// Palette used by the orbit diagram.
const (
	ColorGreen     Color = "#22c55e"
	ColorYellow    Color = "#eab308"
	ColorRed       Color = "#ef4444"
	ColorNeutral   Color = "#94a3b8"
	ColorHighlight Color = "#f8fafc"
	ColorEarthEdge Color = "#334155"
	ColorEarthCore Color = "#1e293b"
	ColorEarthRim  Color = "#0f172a"
	ColorSpace     Color = "#020617"
)

// StatusColor maps a satellite status to its marker color. Satellite status
// comes from an untrusted feed, so unknown values fall back to neutral.
func StatusColor(s mission.StatusLevel) Color {
	switch s {
	case mission.StatusNominal:
		return ColorGreen
	case mission.StatusDegraded:
		return ColorYellow
	case mission.StatusCritical:
		return ColorRed
	default:
		return ColorNeutral
	}
}

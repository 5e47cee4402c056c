// Package header builds the mission status header: identity, phase, status
// glyph, connectivity and a periodically refreshed clock.
package header

import (
	"fmt"

	"astraguard-console/internal/mission"
)

// Glyph is the status indicator shown next to the mission phase.
type Glyph struct {
	Symbol string
	Color  string
	Name   string
}

var (
	glyphNominal  = Glyph{Symbol: "🟢", Color: "#22c55e", Name: "green"}
	glyphDegraded = Glyph{Symbol: "🟡", Color: "#eab308", Name: "yellow"}
	glyphCritical = Glyph{Symbol: "🔴", Color: "#ef4444", Name: "red"}
)

// StatusGlyph maps a mission status to its glyph. The mapping is total over
// the valid levels; any other value is a programming error, since mission
// snapshots are validated on construction, and panics.
func StatusGlyph(s mission.StatusLevel) Glyph {
	switch s {
	case mission.StatusNominal:
		return glyphNominal
	case mission.StatusDegraded:
		return glyphDegraded
	case mission.StatusCritical:
		return glyphCritical
	}
	panic(fmt.Sprintf("header: unhandled status level %q", string(s)))
}

// Connectivity labels.
const (
	LabelOnline  = "SYSTEM_ONLINE"
	LabelOffline = "SYSTEM_OFFLINE"
)

// ConnectivityLabel returns the label for the connectivity flag.
func ConnectivityLabel(connected bool) string {
	if connected {
		return LabelOnline
	}
	return LabelOffline
}

package orbit

import (
	"time"

	"astraguard-console/internal/mission"
)

// Marker sizes in viewBox units.
const (
	MarkerRadius         = 4.0
	SelectedMarkerRadius = 6.0
	SelectionRingGap     = 4.0
	AnomalyRingRadius    = 12.0
	LabelOffset          = 10.0
)

// Marker is one satellite as drawn on the diagram.
type Marker struct {
	Satellite mission.Satellite
	Index     int
	Pos       Point
	Color     Color
	Radius    float64
	Selected  bool
}

// AnomalyMarker is a pulsing ring drawn over a matched satellite.
type AnomalyMarker struct {
	Anomaly mission.AnomalyEvent
	Index   int
	Pos     Point
}

// Frame is the diagram content computed for one instant.
type Frame struct {
	Geometry         Geometry
	At               time.Time
	Markers          []Marker
	Anomalies        []AnomalyMarker
	DroppedAnomalies int
}

// Layout computes the frame for sats, sel and anomalies at instant now.
func Layout(g Geometry, sats []mission.Satellite, sel mission.Selection, anomalies []mission.AnomalyEvent, now time.Time) Frame {
	f := Frame{Geometry: g, At: now}
	n := len(sats)
	if n > 0 {
		f.Markers = make([]Marker, 0, n)
	}
	for i, sat := range sats {
		pos, ok := g.Position(i, n, now)
		if !ok {
			continue
		}
		selected := sel.Selects(sat)
		radius := MarkerRadius
		if selected {
			radius = SelectedMarkerRadius
		}
		f.Markers = append(f.Markers, Marker{
			Satellite: sat,
			Index:     i,
			Pos:       pos,
			Color:     StatusColor(sat.Status),
			Radius:    radius,
			Selected:  selected,
		})
	}

	matches, dropped := MatchAnomalies(sats, anomalies)
	f.DroppedAnomalies = dropped
	for _, m := range matches {
		// recomputed from the same index and instant as the satellite marker
		pos, ok := g.Position(m.Index, n, now)
		if !ok {
			f.DroppedAnomalies++
			continue
		}
		f.Anomalies = append(f.Anomalies, AnomalyMarker{Anomaly: m.Anomaly, Index: m.Index, Pos: pos})
	}
	return f
}

// Selected returns the selected marker, if any.
func (f Frame) Selected() (Marker, bool) {
	for _, m := range f.Markers {
		if m.Selected {
			return m, true
		}
	}
	return Marker{}, false
}

// Marker returns the marker of the satellite with the given id.
func (f Frame) Marker(id string) (Marker, bool) {
	for _, m := range f.Markers {
		if m.Satellite.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// Map binds a geometry to the selection callback raised when a marker is
// clicked.
type Map struct {
	Geometry Geometry
	OnSelect func(mission.Satellite)
}

// Layout computes the frame for this map's geometry.
func (m Map) Layout(sats []mission.Satellite, sel mission.Selection, anomalies []mission.AnomalyEvent, now time.Time) Frame {
	return Layout(m.Geometry, sats, sel, anomalies, now)
}

// Click forwards the full record of the clicked satellite to OnSelect. It
// returns false when id is not on the frame.
func (m Map) Click(f Frame, id string) bool {
	marker, ok := f.Marker(id)
	if !ok {
		return false
	}
	if m.OnSelect != nil {
		m.OnSelect(marker.Satellite)
	}
	return true
}

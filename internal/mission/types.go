// Mission state model shared by the header and orbit map
package mission

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidStatus is returned when a mission status is not one of the known levels.
	ErrInvalidStatus = errors.New("invalid status level")
	// ErrDuplicateID is returned when two records in a rendered set share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// StatusLevel is the health level reported for a mission or a satellite.
type StatusLevel string

// Status levels.
const (
	StatusNominal  StatusLevel = "Nominal"
	StatusDegraded StatusLevel = "Degraded"
	StatusCritical StatusLevel = "Critical"
)

// Levels lists every valid status level.
var Levels = []StatusLevel{StatusNominal, StatusDegraded, StatusCritical}

// Valid reports whether s is one of the known levels.
func (s StatusLevel) Valid() bool {
	switch s {
	case StatusNominal, StatusDegraded, StatusCritical:
		return true
	}
	return false
}

// ParseStatusLevel converts s to a StatusLevel, rejecting unknown values.
func ParseStatusLevel(s string) (StatusLevel, error) {
	lvl := StatusLevel(strings.TrimSpace(s))
	if !lvl.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return lvl, nil
}

// MissionSnapshot identifies the mission and its current phase and status.
type MissionSnapshot struct {
	Name   string      `yaml:"name" json:"name"`
	Phase  string      `yaml:"phase" json:"phase"`
	Status StatusLevel `yaml:"status" json:"status"`
}

// NewMissionSnapshot builds a snapshot, rejecting an unknown status.
func NewMissionSnapshot(name, phase, status string) (MissionSnapshot, error) {
	lvl, err := ParseStatusLevel(status)
	if err != nil {
		return MissionSnapshot{}, err
	}
	return MissionSnapshot{Name: name, Phase: phase, Status: lvl}, nil
}

// Validate checks the mission status.
func (m MissionSnapshot) Validate() error {
	if !m.Status.Valid() {
		return fmt.Errorf("mission %q: %w: %q", m.Name, ErrInvalidStatus, m.Status)
	}
	return nil
}

// Satellite is one constellation member. Status comes from a less trusted
// feed and is not validated.
type Satellite struct {
	ID        string      `yaml:"id" json:"id"`
	OrbitSlot string      `yaml:"orbit_slot" json:"orbitSlot"`
	Status    StatusLevel `yaml:"status" json:"status"`
}

// AnomalyEvent is an anomaly raised against a satellite. Satellite holds a
// slot reference of the form "<prefix>-<slot>".
type AnomalyEvent struct {
	ID         string    `yaml:"id" json:"id"`
	Satellite  string    `yaml:"satellite" json:"satellite"`
	Type       string    `yaml:"type,omitempty" json:"type,omitempty"`
	Message    string    `yaml:"message,omitempty" json:"message,omitempty"`
	DetectedAt time.Time `yaml:"detected_at,omitempty" json:"detectedAt,omitempty"`
}

// SlotRef returns the segment after the first "-" of the satellite
// reference, up to the next "-". ok is false when there is no separator.
func (a AnomalyEvent) SlotRef() (slot string, ok bool) {
	parts := strings.Split(a.Satellite, "-")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// Selection is a weak reference to at most one satellite, by id.
type Selection struct {
	ID  string
	Set bool
}

// Select returns a selection of the satellite with the given id.
func Select(id string) Selection { return Selection{ID: id, Set: true} }

// NoSelection is the empty selection.
var NoSelection = Selection{}

// Selects reports whether sat is the selected satellite.
func (s Selection) Selects(sat Satellite) bool {
	return s.Set && s.ID == sat.ID
}

// State is the mission state delivered once per refresh cycle.
type State struct {
	Mission    MissionSnapshot `yaml:"mission" json:"mission"`
	Satellites []Satellite     `yaml:"satellites" json:"satellites"`
	Anomalies  []AnomalyEvent  `yaml:"anomalies" json:"anomalies"`
}

// Validate checks the mission snapshot and id uniqueness.
func (s State) Validate() error {
	if err := s.Mission.Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Satellites))
	for _, sat := range s.Satellites {
		if _, ok := seen[sat.ID]; ok {
			return fmt.Errorf("satellite %q: %w", sat.ID, ErrDuplicateID)
		}
		seen[sat.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(s.Anomalies))
	for _, a := range s.Anomalies {
		if a.ID == "" {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			return fmt.Errorf("anomaly %q: %w", a.ID, ErrDuplicateID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{Mission: s.Mission}
	if s.Satellites != nil {
		out.Satellites = append([]Satellite(nil), s.Satellites...)
	}
	if s.Anomalies != nil {
		out.Anomalies = append([]AnomalyEvent(nil), s.Anomalies...)
	}
	return out
}

// SatelliteByID returns the satellite with the given id.
func (s State) SatelliteByID(id string) (Satellite, bool) {
	for _, sat := range s.Satellites {
		if sat.ID == id {
			return sat, true
		}
	}
	return Satellite{}, false
}

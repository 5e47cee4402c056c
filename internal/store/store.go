// Package store holds the dashboard context: the latest mission snapshot,
// the feed connectivity flag and the current satellite selection.
package store

import (
	"sync"

	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
)

// Snapshot is an immutable copy of the store contents.
type Snapshot struct {
	State     mission.State
	Connected bool
	Selection mission.Selection
	Version   uint64
	Loaded    bool
}

// Store is safe for concurrent use. It implements feed.Sink.
type Store struct {
	mu        sync.RWMutex
	state     mission.State
	loaded    bool
	connected bool
	selection mission.Selection
	version   uint64
	metrics   *metrics.Collector
}

// New creates an empty store. m may be nil.
func New(m *metrics.Collector) *Store {
	return &Store{metrics: m}
}

// Apply replaces the mission snapshot. The selection is kept by id even if
// the satellite is absent from the new snapshot.
func (s *Store) Apply(st mission.State) error {
	s.mu.Lock()
	s.state = st.Clone()
	s.loaded = true
	s.version++
	s.mu.Unlock()
	s.metrics.ObserveUpdate(len(st.Satellites))
	return nil
}

// SetConnected updates the connectivity flag.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.version++
	s.mu.Unlock()
	s.metrics.SetConnected(connected)
}

// Select records sat as the selected satellite.
func (s *Store) Select(sat mission.Satellite) {
	s.mu.Lock()
	s.selection = mission.Select(sat.ID)
	s.version++
	s.mu.Unlock()
	s.metrics.ObserveSelection()
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = mission.NoSelection
	s.version++
	s.mu.Unlock()
}

// Snapshot returns a copy of the store contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:     s.state.Clone(),
		Connected: s.connected,
		Selection: s.selection,
		Version:   s.version,
		Loaded:    s.loaded,
	}
}

package feed

import "astraguard-console/internal/mission"

// MultiSink fan-outs snapshots and connectivity to multiple sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a new MultiSink.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Apply sends a snapshot to all sinks, stopping at the first error.
func (m *MultiSink) Apply(st mission.State) error {
	for _, s := range m.sinks {
		if err := s.Apply(st); err != nil {
			return err
		}
	}
	return nil
}

// SetConnected forwards the connectivity flag to all sinks.
func (m *MultiSink) SetConnected(connected bool) {
	for _, s := range m.sinks {
		s.SetConnected(connected)
	}
}

package orbit

import "astraguard-console/internal/mission"

// MaxAnomalyMarkers caps the number of anomalies considered for markers.
// The first ones in input order are taken; there is no prioritisation.
const MaxAnomalyMarkers = 3

// AnomalyMatch pairs an anomaly with the index of the satellite it refers to.
type AnomalyMatch struct {
	Anomaly mission.AnomalyEvent
	Index   int
}

// MatchAnomalies resolves the first MaxAnomalyMarkers anomalies against the
// satellites' orbit slots. The first satellite whose slot matches wins.
// Anomalies without a usable reference or without a matching slot are
// dropped; dropped reports how many.
func MatchAnomalies(sats []mission.Satellite, anomalies []mission.AnomalyEvent) (matches []AnomalyMatch, dropped int) {
	if len(anomalies) > MaxAnomalyMarkers {
		anomalies = anomalies[:MaxAnomalyMarkers]
	}
	for _, a := range anomalies {
		idx := slotIndex(sats, a)
		if idx < 0 {
			dropped++
			continue
		}
		matches = append(matches, AnomalyMatch{Anomaly: a, Index: idx})
	}
	return matches, dropped
}

func slotIndex(sats []mission.Satellite, a mission.AnomalyEvent) int {
	slot, ok := a.SlotRef()
	if !ok {
		return -1
	}
	for i, s := range sats {
		if s.OrbitSlot == slot {
			return i
		}
	}
	return -1
}

// Package feed delivers mission state snapshots to the dashboard from a
// state file or a recorded JSONL stream.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"astraguard-console/internal/logging"
	"astraguard-console/internal/mission"
)

// Record is one line of a feed file.
type Record struct {
	Timestamp time.Time     `json:"ts"`
	State     mission.State `json:"state"`
}

// Sink receives snapshots and the connectivity flag.
type Sink interface {
	Apply(mission.State) error
	SetConnected(bool)
}

// Prepare assigns ids to anomalies that arrived without one and validates
// the snapshot. The input is not modified.
func Prepare(st mission.State) (mission.State, error) {
	out := st.Clone()
	for i := range out.Anomalies {
		if out.Anomalies[i].ID == "" {
			out.Anomalies[i].ID = uuid.NewString()
		}
	}
	if err := out.Validate(); err != nil {
		return mission.State{}, err
	}
	return out, nil
}

// Static delivers a single snapshot. A static snapshot has no live source,
// so the sink is marked disconnected.
func Static(st mission.State, sink Sink) error {
	sink.SetConnected(false)
	prepared, err := Prepare(st)
	if err != nil {
		return err
	}
	return sink.Apply(prepared)
}

// Replay streams records from r to sink. The sink is connected while the
// stream is read and disconnected when it ends, fails or ctx is cancelled.
// A speed > 0 scales the recorded gaps between records; speed <= 0 replays
// without delay. Records that fail validation are skipped.
func Replay(ctx context.Context, r io.Reader, sink Sink, speed float64) error {
	log := logging.FromContext(ctx).With("component", "feed")
	sink.SetConnected(true)
	defer sink.SetConnected(false)

	dec := json.NewDecoder(r)
	var prev time.Time
	for n := 1; ; n++ {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode record %d: %w", n, err)
		}
		if !prev.IsZero() && speed > 0 {
			diff := rec.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if err := sleep(ctx, diff); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		prev = rec.Timestamp

		st, err := Prepare(rec.State)
		if err != nil {
			log.Warn("skipping invalid record", "record", n, "err", err)
			continue
		}
		if err := sink.Apply(st); err != nil {
			return err
		}
	}
}

// ReplayFile opens a file and replays its records.
func ReplayFile(ctx context.Context, path string, sink Sink, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Replay(ctx, f, sink, speed)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

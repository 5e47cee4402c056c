package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"astraguard-console/internal/config"
	"astraguard-console/internal/feed"
	"astraguard-console/internal/header"
	"astraguard-console/internal/logging"
	"astraguard-console/internal/orbit"
)

var errNoSource = errors.New("no mission source: set state_file or feed_file (or --state / --feed)")

// source delivers mission snapshots to a sink until it runs dry or ctx ends.
type source func(ctx context.Context, sink feed.Sink) error

// newSource picks the replay feed when configured, else the static state
// file. The state file is loaded eagerly so bad input fails before any UI
// starts.
func newSource(cfg *config.Config, schema string) (source, error) {
	switch {
	case cfg.FeedFile != "":
		path, speed := cfg.FeedFile, cfg.FeedSpeed
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("feed: %w", err)
		}
		return func(ctx context.Context, sink feed.Sink) error {
			return feed.ReplayFile(ctx, path, sink, speed)
		}, nil
	case cfg.StateFile != "":
		st, err := config.LoadState(cfg.StateFile, schema)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, sink feed.Sink) error {
			return feed.Static(*st, sink)
		}, nil
	}
	return nil, errNoSource
}

// newLogger builds the command logger. With quiet set and no log file the
// logger discards, since the terminal belongs to the TUI.
func newLogger(cfg *config.Config, quiet bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stdout
	cleanup := func() {}
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { f.Close() }
	case quiet:
		w = io.Discard
	}
	l, err := logging.New(w, cfg.Log.Level)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return l, cleanup, nil
}

func geometry(cfg *config.Config) orbit.Geometry {
	return orbit.Geometry{
		CenterX:       cfg.Orbit.CenterX,
		CenterY:       cfg.Orbit.CenterY,
		Radius:        cfg.Orbit.Radius,
		DriftPerMilli: cfg.Orbit.DriftPerMs,
	}
}

func clockFormat(cfg *config.Config) (header.ClockFormat, error) {
	return header.NewClockFormat(cfg.Locale, cfg.Timezone)
}

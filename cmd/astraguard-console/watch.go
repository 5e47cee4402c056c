package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/feed"
	"astraguard-console/internal/header"
	"astraguard-console/internal/logging"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/store"
	"astraguard-console/internal/tui"
	"astraguard-console/internal/web"
)

var watchServe bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the dashboard in the terminal",
	Long:  "watch renders the mission header, orbit map and anomalies in a full-screen terminal UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, err := newSource(cfg, schemaPath)
		if err != nil {
			return err
		}
		format, err := clockFormat(cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		coll, err := metrics.NewCollector(nil)
		if err != nil {
			return err
		}
		geo := geometry(cfg)

		var sink feed.Sink
		dash := tui.Start(ctx, tui.Options{
			Geometry:      geo,
			Header:        header.New(clock.Real{}, cfg.RefreshInterval, format),
			FrameInterval: cfg.FrameInterval,
			Metrics:       coll,
			OnSelect: func(sat mission.Satellite) {
				log.Info("satellite selected", "component", "tui", "id", sat.ID, "slot", sat.OrbitSlot)
			},
		})
		defer dash.Close()
		sink = dash

		if watchServe {
			st := store.New(coll)
			sink = feed.NewMultiSink(dash, st)
			srv := web.NewServer(st, web.Options{
				Geometry: geo,
				Header:   header.New(clock.Real{}, cfg.RefreshInterval, format),
				Metrics:  coll,
				Logger:   log,
				Refresh:  cfg.FrameInterval,
			})
			go func() {
				if err := srv.Start(ctx, cfg.Web.Addr); err != nil {
					log.Error("web server failed", "err", err)
				}
			}()
		}

		go func() {
			if err := src(ctx, sink); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("feed stopped", "err", err)
			}
		}()

		select {
		case <-dash.Done():
		case <-ctx.Done():
		}
		return dash.Close()
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchServe, "serve", false, "Also serve the web dashboard on web.addr")
}

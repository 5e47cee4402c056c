package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"astraguard-console/internal/clock"
	"astraguard-console/internal/header"
	"astraguard-console/internal/logging"
	"astraguard-console/internal/metrics"
	"astraguard-console/internal/store"
	"astraguard-console/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long:  "serve exposes the dashboard page, the orbit map SVG, a JSON state endpoint and Prometheus metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Web.Addr = serveAddr
		}
		src, err := newSource(cfg, schemaPath)
		if err != nil {
			return err
		}
		format, err := clockFormat(cfg)
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cfg, false)
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
		st := store.New(coll)
		srv := web.NewServer(st, web.Options{
			Geometry: geometry(cfg),
			Header:   header.New(clock.Real{}, cfg.RefreshInterval, format),
			Metrics:  coll,
			Logger:   log,
			Refresh:  cfg.FrameInterval,
		})

		go func() {
			if err := src(ctx, st); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("feed stopped", "err", err)
			}
		}()

		err = srv.Start(ctx, cfg.Web.Addr)
		log.Info("dashboard stopped")
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides web.addr")
}

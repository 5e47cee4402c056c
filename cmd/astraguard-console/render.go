package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"astraguard-console/internal/config"
	"astraguard-console/internal/feed"
	"astraguard-console/internal/mission"
	"astraguard-console/internal/orbit"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 30
)

var (
	renderOut    string
	renderASCII  bool
	renderAt     string
	renderSelect string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one orbit map frame",
	Long:  "render draws the orbit map for a state file as SVG or as a character grid.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.StateFile == "" {
			return fmt.Errorf("render needs a state file (--state or state_file)")
		}
		st, err := config.LoadState(cfg.StateFile, schemaPath)
		if err != nil {
			return err
		}
		prepared, err := feed.Prepare(*st)
		if err != nil {
			return err
		}
		at, err := parseAt(renderAt)
		if err != nil {
			return err
		}
		sel := mission.NoSelection
		if renderSelect != "" {
			sel = mission.Select(renderSelect)
		}
		f := orbit.Layout(geometry(cfg), prepared.Satellites, sel, prepared.Anomalies, at)

		var w io.Writer = cmd.OutOrStdout()
		if renderOut != "" {
			file, err := os.Create(renderOut)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer file.Close()
			w = file
		}
		if renderASCII {
			width, height := asciiSize(renderOut == "")
			_, err = fmt.Fprintln(w, orbit.PlainASCII(f, width, height))
			return err
		}
		return orbit.RenderSVG(w, f, orbit.SVGOptions{})
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output file (default STDOUT)")
	renderCmd.Flags().BoolVar(&renderASCII, "ascii", false, "Render a character grid instead of SVG")
	renderCmd.Flags().StringVar(&renderAt, "at", "", "Frame time in RFC3339 (default now)")
	renderCmd.Flags().StringVar(&renderSelect, "select", "", "Satellite id to highlight")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Grid width for --ascii (default terminal width)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Grid height for --ascii (default terminal height)")
}

func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

// asciiSize resolves the grid size from flags, then the terminal when
// writing to it, then a fixed fallback.
func asciiSize(toTerminal bool) (int, int) {
	width, height := renderWidth, renderHeight
	if toTerminal && (width <= 0 || height <= 0) {
		if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width <= 0 {
				width = tw
			}
			if height <= 0 {
				height = th - 1
			}
		}
	}
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}
	return width, height
}

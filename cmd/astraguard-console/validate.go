package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"astraguard-console/internal/config"
	"astraguard-console/internal/feed"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and mission input",
	Long:  "validate checks the config file against the CUE schema, then the state file or every record of the feed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if configPath != "" {
			fmt.Fprintf(out, "config %s: ok\n", configPath)
		}
		if cfg.StateFile != "" {
			if _, err := config.LoadState(cfg.StateFile, schemaPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "state %s: ok\n", cfg.StateFile)
		}
		if cfg.FeedFile != "" {
			n, err := validateFeed(cfg.FeedFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "feed %s: %d records ok\n", cfg.FeedFile, n)
		}
		return nil
	},
}

// validateFeed checks that every line of a feed file decodes and holds a
// valid snapshot.
func validateFeed(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n, line := 0, 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec feed.Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return n, fmt.Errorf("feed line %d: %w", line, err)
		}
		if _, err := feed.Prepare(rec.State); err != nil {
			return n, fmt.Errorf("feed line %d: %w", line, err)
		}
		n++
	}
	return n, sc.Err()
}

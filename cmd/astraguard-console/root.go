package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"astraguard-console/internal/config"
)

var (
	configPath string
	schemaPath string
	statePath  string
	feedPath   string
	feedSpeed  float64
)

var rootCmd = &cobra.Command{
	Use:          "astraguard-console",
	Short:        "Mission telemetry dashboard",
	Long:         "astraguard-console shows mission status, an orbit map and anomalies in the terminal or a browser.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to dashboard configuration YAML")
	pf.StringVar(&schemaPath, "schema", "", "Path to CUE schema file (defaults to the built-in schema)")
	pf.StringVar(&statePath, "state", "", "Mission state file (YAML or JSON), overrides state_file")
	pf.StringVar(&feedPath, "feed", "", "JSONL feed to replay, overrides feed_file")
	pf.Float64Var(&feedSpeed, "speed", 0, "Feed playback speed multiplier, overrides feed_speed")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfig reads the config file and applies the source flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		return nil, err
	}
	if statePath != "" {
		cfg.StateFile = statePath
		cfg.FeedFile = ""
	}
	if feedPath != "" {
		cfg.FeedFile = feedPath
	}
	if cmd.Flags().Changed("speed") {
		cfg.FeedSpeed = feedSpeed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	settings     Settings // values a settings file may supply
	configPath   string   // TOML settings file
	protocolPath string   // protocol file to simulate
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "stepgen",
	Short: "Protocol step-generation simulator for liquid-handling robots",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := loadSettings(cmd); err != nil {
			logrus.Fatalf("Invalid settings: %v", err)
		}
		level, err := logrus.ParseLevel(settings.LogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", settings.LogLevel)
		}
		logrus.SetLevel(level)
	},
}

// loadSettings applies the settings file to every flag not given on the
// command line. A missing file is only an error when --config was given.
func loadSettings(cmd *cobra.Command) error {
	path := configPath
	explicit := cmd.Flags().Changed("config")
	if !explicit {
		path = DefaultSettingsPath()
	}
	if path == "" || (!explicit && !fileExists(path)) {
		return nil
	}
	fs, err := LoadFileSettings(path)
	if err != nil {
		return err
	}
	changed := make(map[string]bool)
	for _, name := range []string{"log", "db", "metrics-file", "trace", "validate", "strip-noops", "debounce"} {
		changed[name] = cmd.Flags().Changed(name)
	}
	logrus.Debugf("Applying settings from %s", path)
	return ApplyFileSettings(&settings, fs, changed)
}

// runCmd simulates a protocol file and prints its timeline
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a protocol and print its timeline as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		tl, err := runOnce(cmd.Context(), protocolPath, settings)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := WriteTimeline(cmd.OutOrStdout(), tl); err != nil {
			logrus.Fatalf("Writing timeline: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// watchCmd re-simulates a protocol every time it is saved
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-simulate a protocol whenever the file changes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		report := func() {
			tl, err := runOnce(ctx, protocolPath, settings)
			if err != nil {
				logrus.Errorf("Simulation failed: %v", err)
				return
			}
			fmt.Fprintln(out, StatusLine(tl))
		}
		report()
		logrus.Infof("Watching %s", protocolPath)
		if err := WatchFile(ctx, protocolPath, settings.Debounce, report); err != nil {
			logrus.Fatalf("Watch failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// requireDB fails when no history database was configured.
func requireDB() error {
	if settings.DBPath == "" {
		return errors.New("no history database: pass --db or set db in the settings file")
	}
	return nil
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&settings.LogLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML settings file (default ~/.stepgen/config.toml)")
	rootCmd.PersistentFlags().StringVar(&settings.DBPath, "db", "", "SQLite run history database; runs are saved when set")

	for _, c := range []*cobra.Command{runCmd, watchCmd} {
		c.Flags().StringVar(&protocolPath, "protocol", "", "Protocol file (YAML or JSON)")
		c.Flags().BoolVar(&settings.Validate, "validate", false, "Run every command through its command creator and halt at the first error")
		c.Flags().BoolVar(&settings.StripNoOps, "strip-noops", false, "Skip no-op commands when replaying (ignored with --validate)")
		c.Flags().StringVar(&settings.Trace, "trace", "none", "Decision trace level (none, decisions)")
		c.Flags().StringVar(&settings.MetricsFile, "metrics-file", "", "Write Prometheus metrics of each run to this textfile")
		_ = c.MarkFlagRequired("protocol")
	}
	watchCmd.Flags().DurationVar(&settings.Debounce, "debounce", DefaultDebounce, "Quiet period after a change before re-simulating")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(convertCmd)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/specgrade/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "specgrade",
	Short: "Audio library quality scanner",
	Long: `specgrade scans a music library, measures the real spectral ceiling
of each file, reads container metadata, and scores everything against
reference targets. Results are cached by content fingerprint so only
new or changed files are re-analyzed.`,
	SilenceUsage: true,
}

var (
	flagState   string
	flagReport  string
	flagLog     string
	flagWorkers int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagState, "state", "", "state file path (overrides SPECGRADE_STATE_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagReport, "report", "", "report file path, .csv or .json (overrides SPECGRADE_REPORT_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "also write diagnostics to this file (overrides SPECGRADE_LOG_FILE)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "concurrent analysis workers (overrides SPECGRADE_WORKERS)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(inspectCmd)
}

// loadConfig layers CLI flags over the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if flagState != "" {
		cfg.StateFile = flagState
	}
	if flagReport != "" {
		cfg.ReportFile = flagReport
	}
	if flagLog != "" {
		cfg.LogFile = flagLog
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	return cfg
}

func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, nil)), closer, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

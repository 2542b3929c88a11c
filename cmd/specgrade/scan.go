package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/specgrade/internal/decode"
	"github.com/satindergrewal/specgrade/internal/metadata"
	"github.com/satindergrewal/specgrade/internal/rating"
	"github.com/satindergrewal/specgrade/internal/scan"
	"github.com/satindergrewal/specgrade/internal/spectral"
	"github.com/satindergrewal/specgrade/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a music library and refresh its quality report",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	caps := decode.Probe()
	if !caps.FFmpeg || !caps.FFprobe {
		log.Warn("ffmpeg and ffprobe not both found on PATH; only .wav files will be analyzed")
	}

	paths, skipped, err := scan.Walk(args[0], caps)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	for _, p := range skipped {
		log.Warn("skipping file, no decoder backend", "path", p)
	}

	st := store.Load(cfg.StateFile, log)
	runner := scan.NewRunner(
		st,
		decode.NewDecoder(caps),
		metadata.NewExtractor(caps.FFprobe, log),
		spectral.NewEstimator(spectral.Params{
			FFTSize:     cfg.FFTSize,
			HopSize:     cfg.HopSize,
			ThresholdDB: cfg.ThresholdDB,
			MinPresence: cfg.MinPresence,
		}),
		rating.NewCalculator(rating.Params{
			Weights: rating.Weights{
				Ceiling:    cfg.WeightCeiling,
				Bitrate:    cfg.WeightBitrate,
				SampleRate: cfg.WeightSampleRate,
				BitDepth:   cfg.WeightBitDepth,
			},
			References: rating.References{
				CeilingHz:    cfg.RefCeilingHz,
				BitrateBPS:   cfg.RefBitrateBPS,
				SampleRateHz: cfg.RefSampleRateHz,
				BitDepth:     cfg.RefBitDepth,
			},
		}),
		log,
		scan.RunnerConfig{
			Workers:    cfg.Workers,
			StateFile:  cfg.StateFile,
			ReportFile: cfg.ReportFile,
			Progress: func(e scan.Event) {
				fmt.Printf("%-10s %s\n", e.Outcome, e.Path)
			},
		},
	)

	sum, err := runner.Scan(cmd.Context(), paths)
	if err != nil {
		return err
	}

	fmt.Printf("\nrun %s: %d files, %d analyzed, %d cached, %d failed\n",
		sum.RunID, sum.Total, sum.Analyzed, sum.CacheHits, sum.Failures)
	if sum.Changed {
		fmt.Printf("report: %s\nstate:  %s\n", cfg.ReportFile, cfg.StateFile)
	} else {
		fmt.Println("library unchanged, nothing written")
	}
	return nil
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satindergrewal/specgrade/internal/analysis"
	"github.com/satindergrewal/specgrade/internal/decode"
	"github.com/satindergrewal/specgrade/internal/fingerprint"
	"github.com/satindergrewal/specgrade/internal/metadata"
	"github.com/satindergrewal/specgrade/internal/rating"
	"github.com/satindergrewal/specgrade/internal/scan"
	"github.com/satindergrewal/specgrade/internal/spectral"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Analyze a single file without touching the state store",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	path := args[0]
	ext := strings.ToLower(filepath.Ext(path))
	if !scan.Supported(ext) {
		return fmt.Errorf("unsupported file type %q", ext)
	}

	caps := decode.Probe()
	if !caps.CanDecode(ext) {
		return fmt.Errorf("no decoder backend for %s files (ffmpeg not on PATH)", ext)
	}

	fp, err := fingerprint.File(path)
	if err != nil {
		return err
	}

	duration := analysis.Failed()
	ceiling := analysis.Failed()
	samples, rate, err := decode.NewDecoder(caps).File(path)
	if err != nil {
		log.Warn("decode failed", "path", path, "err", err)
	} else {
		duration = analysis.Known(float64(len(samples)) / float64(rate))
		est := spectral.NewEstimator(spectral.Params{
			FFTSize:     cfg.FFTSize,
			HopSize:     cfg.HopSize,
			ThresholdDB: cfg.ThresholdDB,
			MinPresence: cfg.MinPresence,
		})
		if c, err := est.Ceiling(samples, rate); err != nil {
			log.Warn("ceiling estimation failed", "path", path, "err", err)
		} else {
			ceiling = analysis.Known(c)
		}
	}

	info := metadata.NewExtractor(caps.FFprobe, log).Extract(path)
	calc := rating.NewCalculator(rating.Params{
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
	})
	score := calc.Score(ceiling, info.BitrateBPS, info.SampleRateHz, info.BitDepth)

	fmt.Printf("file:           %s\n", path)
	fmt.Printf("fingerprint:    %s\n", fp)
	fmt.Printf("duration_sec:   %s\n", duration)
	fmt.Printf("ceiling_hz:     %s\n", ceiling)
	fmt.Printf("bitrate_bps:    %s\n", info.BitrateBPS)
	fmt.Printf("sample_rate_hz: %s\n", info.SampleRateHz)
	fmt.Printf("bit_depth:      %s\n", info.BitDepth)
	fmt.Printf("rating:         %.1f\n", score)
	return nil
}

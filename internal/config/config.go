package config

import (
	"os"
	"strconv"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment
// variables. The struct is built once at startup and passed by value;
// nothing mutates it afterwards.
type Config struct {
	// File locations
	StateFile  string // fingerprint-keyed analysis store
	ReportFile string // CSV or JSON report, chosen by extension
	LogFile    string // optional diagnostics log, stderr only when empty

	// Scan behavior
	Workers int // concurrent analysis workers

	// Spectral analysis
	FFTSize     int     // STFT frame length in samples
	HopSize     int     // stride between frames
	ThresholdDB float64 // presence threshold relative to global peak
	MinPresence float64 // fraction of frames a bin must clear the threshold

	// Rating weights
	WeightCeiling    float64
	WeightBitrate    float64
	WeightSampleRate float64
	WeightBitDepth   float64

	// Rating reference targets (full marks at or above these)
	RefCeilingHz    float64
	RefBitrateBPS   float64
	RefSampleRateHz float64
	RefBitDepth     float64
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		StateFile:  envStr("SPECGRADE_STATE_FILE", "specgrade_state.json"),
		ReportFile: envStr("SPECGRADE_REPORT_FILE", "specgrade_report.csv"),
		LogFile:    envStr("SPECGRADE_LOG_FILE", ""),

		Workers: envInt("SPECGRADE_WORKERS", 1),

		FFTSize:     envInt("SPECGRADE_FFT_SIZE", 4096),
		HopSize:     envInt("SPECGRADE_HOP_SIZE", 1024),
		ThresholdDB: envFloat("SPECGRADE_THRESHOLD_DB", -60),
		MinPresence: envFloat("SPECGRADE_MIN_PRESENCE", 0.05),

		WeightCeiling:    envFloat("SPECGRADE_WEIGHT_CEILING", 40),
		WeightBitrate:    envFloat("SPECGRADE_WEIGHT_BITRATE", 30),
		WeightSampleRate: envFloat("SPECGRADE_WEIGHT_SAMPLE_RATE", 20),
		WeightBitDepth:   envFloat("SPECGRADE_WEIGHT_BIT_DEPTH", 10),

		RefCeilingHz:    envFloat("SPECGRADE_REF_CEILING_HZ", 20000),
		RefBitrateBPS:   envFloat("SPECGRADE_REF_BITRATE_BPS", 320000),
		RefSampleRateHz: envFloat("SPECGRADE_REF_SAMPLE_RATE_HZ", 48000),
		RefBitDepth:     envFloat("SPECGRADE_REF_BIT_DEPTH", 24),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

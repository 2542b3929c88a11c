package rating

import (
	"testing"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

func TestScoreFullMarks(t *testing.T) {
	c := NewCalculator(DefaultParams())
	got := c.Score(
		analysis.Known(20000),
		analysis.Known(320000),
		analysis.Known(48000),
		analysis.Known(24),
	)
	if got != 100 {
		t.Errorf("Score = %v, want 100", got)
	}
}

func TestScoreClampsAboveReference(t *testing.T) {
	// A 96kHz/32-bit master must not exceed the scale.
	c := NewCalculator(DefaultParams())
	got := c.Score(
		analysis.Known(45000),
		analysis.Known(4608000),
		analysis.Known(96000),
		analysis.Known(32),
	)
	if got != 100 {
		t.Errorf("Score = %v, want clamp at 100", got)
	}
}

func TestScoreAllMissing(t *testing.T) {
	c := NewCalculator(DefaultParams())
	got := c.Score(analysis.Failed(), analysis.Unavailable(), analysis.Unavailable(), analysis.Unavailable())
	if got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

// The scale is fixed at the summed weights. A perfect file with no bit
// depth (every lossy format) tops out at 90, not 100.
func TestScoreFixedDenominator(t *testing.T) {
	c := NewCalculator(DefaultParams())
	got := c.Score(
		analysis.Known(20000),
		analysis.Known(320000),
		analysis.Known(48000),
		analysis.Unavailable(),
	)
	if got != 90 {
		t.Errorf("Score = %v, want 90 (missing bit depth contributes zero)", got)
	}
}

func TestScorePartial(t *testing.T) {
	c := NewCalculator(DefaultParams())
	// Ceiling at half reference: 20, bitrate half: 15, rest missing.
	got := c.Score(
		analysis.Known(10000),
		analysis.Known(160000),
		analysis.Unavailable(),
		analysis.Unavailable(),
	)
	if got != 35 {
		t.Errorf("Score = %v, want 35", got)
	}
}

func TestScoreRounding(t *testing.T) {
	c := NewCalculator(DefaultParams())
	// 1/3 of the ceiling reference: 40/3 = 13.333... rounds to 13.3.
	got := c.Score(
		analysis.Known(20000.0/3.0),
		analysis.Unavailable(),
		analysis.Unavailable(),
		analysis.Unavailable(),
	)
	if got != 13.3 {
		t.Errorf("Score = %v, want 13.3", got)
	}
}

func TestScoreZeroCeiling(t *testing.T) {
	// Digital silence has a known ceiling of 0Hz and earns nothing for it.
	c := NewCalculator(DefaultParams())
	got := c.Score(
		analysis.Known(0),
		analysis.Known(320000),
		analysis.Unavailable(),
		analysis.Unavailable(),
	)
	if got != 30 {
		t.Errorf("Score = %v, want 30", got)
	}
}

func TestScoreBounds(t *testing.T) {
	c := NewCalculator(DefaultParams())
	cases := []struct {
		name                          string
		ceiling, bitrate, rate, depth analysis.Metric
	}{
		{"all known low", analysis.Known(100), analysis.Known(8000), analysis.Known(8000), analysis.Known(8)},
		{"mixed", analysis.Known(16000), analysis.Failed(), analysis.Known(44100), analysis.Unavailable()},
		{"all max", analysis.Known(1e9), analysis.Known(1e9), analysis.Known(1e9), analysis.Known(1e9)},
	}
	for _, tc := range cases {
		got := c.Score(tc.ceiling, tc.bitrate, tc.rate, tc.depth)
		if got < 0 || got > 100 {
			t.Errorf("%s: Score = %v, want within [0, 100]", tc.name, got)
		}
	}
}

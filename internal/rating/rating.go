// Package rating scores audio files against reference targets.
package rating

import (
	"math"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// Weights apportion the score across the four metrics. With the
// defaults they sum to 100, which is also the reporting scale.
type Weights struct {
	Ceiling    float64
	Bitrate    float64
	SampleRate float64
	BitDepth   float64
}

// References are the values that earn a metric its full weight.
// Anything at or above the reference is clamped to full marks.
type References struct {
	CeilingHz    float64
	BitrateBPS   float64
	SampleRateHz float64
	BitDepth     float64
}

type Params struct {
	Weights    Weights
	References References
}

func DefaultParams() Params {
	return Params{
		Weights:    Weights{Ceiling: 40, Bitrate: 30, SampleRate: 20, BitDepth: 10},
		References: References{CeilingHz: 20000, BitrateBPS: 320000, SampleRateHz: 48000, BitDepth: 24},
	}
}

type Calculator struct {
	p Params
}

func NewCalculator(p Params) Calculator {
	return Calculator{p: p}
}

// Score combines the metrics into a single number on a fixed scale of
// the summed weights (100 with defaults). A metric that is unavailable
// or failed contributes zero: absent metadata genuinely lowers the
// score rather than renormalizing the remaining metrics, so a file
// nobody could inspect never outranks a fully verified one.
// The result is rounded to one decimal.
func (c Calculator) Score(ceiling, bitrate, sampleRate, bitDepth analysis.Metric) float64 {
	total := contribution(ceiling, c.p.References.CeilingHz, c.p.Weights.Ceiling) +
		contribution(bitrate, c.p.References.BitrateBPS, c.p.Weights.Bitrate) +
		contribution(sampleRate, c.p.References.SampleRateHz, c.p.Weights.SampleRate) +
		contribution(bitDepth, c.p.References.BitDepth, c.p.Weights.BitDepth)
	return math.Round(total*10) / 10
}

func contribution(m analysis.Metric, ref, weight float64) float64 {
	v, ok := m.Float()
	if !ok || ref <= 0 {
		return 0
	}
	ratio := v / ref
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * weight
}

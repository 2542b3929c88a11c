// Package spectral estimates the effective frequency ceiling of audio
// content: the highest frequency with sustained energy, which exposes
// upsampled or transcoded files whose containers promise more than the
// signal delivers.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Params control the short-time analysis. Zero fields take defaults,
// including ThresholdDB: a literal 0dB threshold is not configurable,
// and would anyway admit only the single peak bin. Thresholds must be
// negative, relative to the loudest point in the file.
type Params struct {
	FFTSize     int     // frame length in samples
	HopSize     int     // stride between frames
	ThresholdDB float64 // presence threshold relative to the global peak
	MinPresence float64 // fraction of frames a bin must clear the threshold
}

func DefaultParams() Params {
	return Params{FFTSize: 4096, HopSize: 1024, ThresholdDB: -60, MinPresence: 0.05}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.FFTSize <= 0 {
		p.FFTSize = def.FFTSize
	}
	if p.HopSize <= 0 {
		p.HopSize = def.HopSize
	}
	if p.ThresholdDB == 0 {
		p.ThresholdDB = def.ThresholdDB
	}
	if p.MinPresence <= 0 {
		p.MinPresence = def.MinPresence
	}
	return p
}

type Estimator struct {
	p      Params
	window []float64
}

func NewEstimator(p Params) *Estimator {
	p = p.withDefaults()
	return &Estimator{p: p, window: hannWindow(p.FFTSize)}
}

// Ceiling returns the highest frequency in Hz that carries sustained
// energy: the top bin whose magnitude clears ThresholdDB (relative to
// the loudest point anywhere in the file) in at least MinPresence of
// the analysis frames. Digital silence yields 0Hz with no error; the
// result is otherwise within (0, sampleRate/2]. The estimate only
// depends on the spectral shape, so uniform gain changes do not move it.
func (e *Estimator) Ceiling(samples []float64, sampleRate int) (float64, error) {
	if len(samples) == 0 {
		return 0, errors.New("spectral: empty sample buffer")
	}
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectral: invalid sample rate %d", sampleRate)
	}

	binCount := e.p.FFTSize/2 + 1
	frames := e.frameCount(len(samples))

	// First pass finds the global peak magnitude; the second counts
	// bins above the derived linear threshold. Two passes keep memory
	// flat instead of holding every frame's spectrum for a long file.
	fft := fourier.NewFFT(e.p.FFTSize)

	peak := 0.0
	e.eachFrame(fft, samples, frames, func(mags []float64) {
		for _, m := range mags {
			if m > peak {
				peak = m
			}
		}
	})
	if peak == 0 {
		// Pure silence has no content above any threshold.
		return 0, nil
	}

	// mag/peak in dB > ThresholdDB is equivalent to mag > peak*10^(dB/20).
	linThreshold := peak * math.Pow(10, e.p.ThresholdDB/20)
	above := make([]int, binCount)
	e.eachFrame(fft, samples, frames, func(mags []float64) {
		for k, m := range mags {
			if m > linThreshold {
				above[k]++
			}
		}
	})

	needed := int(math.Ceil(e.p.MinPresence * float64(frames)))
	if needed < 1 {
		needed = 1
	}
	for k := binCount - 1; k >= 0; k-- {
		if above[k] >= needed {
			return float64(k) * float64(sampleRate) / float64(e.p.FFTSize), nil
		}
	}
	return 0, nil
}

func (e *Estimator) frameCount(n int) int {
	if n <= e.p.FFTSize {
		return 1
	}
	return 1 + (n-e.p.FFTSize)/e.p.HopSize
}

func (e *Estimator) eachFrame(fft *fourier.FFT, samples []float64, frames int, fn func(mags []float64)) {
	frame := make([]float64, e.p.FFTSize)
	coeffs := make([]complex128, e.p.FFTSize/2+1)
	mags := make([]float64, len(coeffs))

	for i := 0; i < frames; i++ {
		start := i * e.p.HopSize
		for j := range frame {
			if start+j < len(samples) {
				frame[j] = samples[start+j] * e.window[j]
			} else {
				frame[j] = 0
			}
		}
		fft.Coefficients(coeffs, frame)
		for k, c := range coeffs {
			mags[k] = cmplx.Abs(c)
		}
		fn(mags)
	}
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

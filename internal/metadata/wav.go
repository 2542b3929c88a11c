package metadata

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// extractWAV reads the RIFF header only; the data chunk stays untouched.
func extractWAV(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening wav %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Info{}, fmt.Errorf("reading wav header %s: %w", path, err)
	}
	if d.SampleRate == 0 {
		return Info{}, fmt.Errorf("wav header %s: no sample rate", path)
	}

	info := unavailable()
	info.SampleRateHz = analysis.Known(float64(d.SampleRate))
	if d.BitDepth > 0 {
		info.BitDepth = analysis.Known(float64(d.BitDepth))
	}
	if d.AvgBytesPerSec > 0 {
		info.BitrateBPS = analysis.Known(float64(d.AvgBytesPerSec) * 8)
	}
	return info, nil
}

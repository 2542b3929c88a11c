package metadata

import (
	"fmt"
	"os"

	flac "github.com/go-flac/go-flac"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// extractFLAC reads the STREAMINFO block directly. FLAC carries no
// bitrate field, so it is derived from file size over duration.
func extractFLAC(path string) (Info, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("parsing flac %s: %w", path, err)
	}
	si, err := f.GetStreamInfo()
	if err != nil {
		return Info{}, fmt.Errorf("flac streaminfo %s: %w", path, err)
	}

	info := unavailable()
	if si.SampleRate > 0 {
		info.SampleRateHz = analysis.Known(float64(si.SampleRate))
	}
	if si.BitDepth > 0 {
		info.BitDepth = analysis.Known(float64(si.BitDepth))
	}
	if si.SampleRate > 0 && si.SampleCount > 0 {
		if fi, err := os.Stat(path); err == nil {
			seconds := float64(si.SampleCount) / float64(si.SampleRate)
			info.BitrateBPS = analysis.Known(float64(fi.Size()) * 8 / seconds)
		}
	}
	return info, nil
}

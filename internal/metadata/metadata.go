// Package metadata extracts container-level properties (bitrate,
// sample rate, bit depth) without decoding audio payloads. Each
// property is independently optional: lossy formats have no bit depth,
// stripped headers may hide the bitrate, and none of that is an error.
package metadata

import (
	"encoding/json"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// Info carries the three container properties as tagged metrics.
type Info struct {
	BitrateBPS   analysis.Metric
	SampleRateHz analysis.Metric
	BitDepth     analysis.Metric
}

func unavailable() Info {
	return Info{
		BitrateBPS:   analysis.Unavailable(),
		SampleRateHz: analysis.Unavailable(),
		BitDepth:     analysis.Unavailable(),
	}
}

// runFFprobe is a var so tests can substitute canned output.
var runFFprobe = func(path string) ([]byte, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)
	return cmd.Output()
}

type Extractor struct {
	ffprobe bool
	log     *slog.Logger
}

// NewExtractor builds an extractor. When ffprobe is unavailable the
// native header readers cover .flac and .wav; other formats report all
// properties unavailable.
func NewExtractor(hasFFprobe bool, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{ffprobe: hasFFprobe, log: log}
}

// Extract never fails the scan: any extraction problem degrades to
// unavailable properties and a logged warning.
func (e *Extractor) Extract(path string) Info {
	if e.ffprobe {
		info, err := extractFFprobe(path)
		if err == nil {
			return info
		}
		e.log.Warn("ffprobe extraction failed, trying native readers",
			"path", path, "stage", analysis.StageMetadata, "err", err)
	}

	var (
		info Info
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		info, err = extractFLAC(path)
	case ".wav":
		info, err = extractWAV(path)
	default:
		return unavailable()
	}
	if err != nil {
		e.log.Warn("native metadata extraction failed",
			"path", path, "stage", analysis.StageMetadata, "err", err)
		return unavailable()
	}
	return info
}

func extractFFprobe(path string) (Info, error) {
	out, err := runFFprobe(path)
	if err != nil {
		return Info{}, err
	}

	var probe struct {
		Format struct {
			BitRate string `json:"bit_rate"`
		} `json:"format"`
		Streams []struct {
			CodecType        string `json:"codec_type"`
			SampleRate       string `json:"sample_rate"`
			BitsPerRawSample string `json:"bits_per_raw_sample"`
			BitsPerSample    int    `json:"bits_per_sample"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return Info{}, err
	}

	info := unavailable()
	if v, err := strconv.Atoi(probe.Format.BitRate); err == nil && v > 0 {
		info.BitrateBPS = analysis.Known(float64(v))
	}
	for _, s := range probe.Streams {
		if s.CodecType != "audio" {
			continue
		}
		if v, err := strconv.Atoi(s.SampleRate); err == nil && v > 0 {
			info.SampleRateHz = analysis.Known(float64(v))
		}
		if s.BitsPerSample > 0 {
			info.BitDepth = analysis.Known(float64(s.BitsPerSample))
		} else if v, err := strconv.Atoi(s.BitsPerRawSample); err == nil && v > 0 {
			info.BitDepth = analysis.Known(float64(v))
		}
		break
	}
	return info, nil
}

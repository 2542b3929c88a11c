// Package decode turns audio files into mono float64 PCM at the
// stream's native sample rate, for spectral analysis.
package decode

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// ffmpegDecode runs FFmpeg to decode an audio file to raw PCM, mixed
// down to one channel and left at the native sample rate.
var ffmpegDecode = func(path string) ([]byte, error) {
	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)
	return cmd.Output()
}

// ffprobeRate asks ffprobe for the first audio stream's sample rate.
var ffprobeRate = func(path string) (int, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe rate %s: %w", path, err)
	}
	rate, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("ffprobe rate %s: unparseable output %q", path, out)
	}
	return rate, nil
}

type Decoder struct {
	cap Capability
}

func NewDecoder(cap Capability) *Decoder {
	return &Decoder{cap: cap}
}

// File decodes the whole file to mono samples in [-1, 1] and returns
// them with the native sample rate. WAV goes through the native reader;
// other formats go through ffmpeg. All failures are decode-stage errors.
func (d *Decoder) File(path string) ([]float64, int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".wav" {
		return decodeWAV(path)
	}
	if !d.cap.CanDecode(ext) {
		return nil, 0, &analysis.StageError{
			Stage: analysis.StageDecode,
			Path:  path,
			Err:   fmt.Errorf("no decoder backend for %s files (ffmpeg and ffprobe required on PATH)", ext),
		}
	}
	return decodeFFmpeg(path)
}

func decodeFFmpeg(path string) ([]float64, int, error) {
	rate, err := ffprobeRate(path)
	if err != nil {
		return nil, 0, &analysis.StageError{Stage: analysis.StageDecode, Path: path, Err: err}
	}

	out, err := ffmpegDecode(path)
	if err != nil {
		return nil, 0, &analysis.StageError{
			Stage: analysis.StageDecode,
			Path:  path,
			Err:   fmt.Errorf("ffmpeg decode: %w", err),
		}
	}

	// Ensure 8-byte alignment for float64 frames
	if rem := len(out) % 8; rem != 0 {
		out = out[:len(out)-rem]
	}
	if len(out) == 0 {
		return nil, 0, &analysis.StageError{
			Stage: analysis.StageDecode,
			Path:  path,
			Err:   fmt.Errorf("ffmpeg produced no samples"),
		}
	}

	samples := make([]float64, len(out)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(out[i*8 : i*8+8]))
	}
	return samples, rate, nil
}

func decodeWAV(path string) ([]float64, int, error) {
	fail := func(err error) ([]float64, int, error) {
		return nil, 0, &analysis.StageError{Stage: analysis.StageDecode, Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fail(fmt.Errorf("not a valid wav file"))
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fail(fmt.Errorf("reading pcm: %w", err))
	}
	if buf == nil || len(buf.Data) == 0 || buf.Format == nil || buf.Format.SampleRate <= 0 {
		return fail(fmt.Errorf("empty or malformed pcm payload"))
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))

	// Average channels down to mono.
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = sum / float64(channels)
	}
	return samples, buf.Format.SampleRate, nil
}

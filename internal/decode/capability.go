package decode

import "os/exec"

// lookPath is a var so tests can fake the environment.
var lookPath = exec.LookPath

// Capability records which decoder backends were found on PATH. It is
// probed once at startup; availability never changes mid-scan.
type Capability struct {
	FFmpeg  bool
	FFprobe bool
}

// Probe checks PATH for the external tools.
func Probe() Capability {
	var c Capability
	if _, err := lookPath("ffmpeg"); err == nil {
		c.FFmpeg = true
	}
	if _, err := lookPath("ffprobe"); err == nil {
		c.FFprobe = true
	}
	return c
}

// CanDecode reports whether files with the given extension (lowercase,
// dot included) can be fully decoded. WAV decodes natively; everything
// else needs ffmpeg for the samples and ffprobe for the native rate.
func (c Capability) CanDecode(ext string) bool {
	if ext == ".wav" {
		return true
	}
	return c.FFmpeg && c.FFprobe
}

package analysis

// Record is the persisted analysis result for one piece of audio
// content, keyed in the store by its fingerprint. MTime is stored in
// unix nanoseconds so the cache comparison is exact.
type Record struct {
	Path         string  `json:"path"`
	MTime        int64   `json:"mtime"`
	Size         int64   `json:"size"`
	Duration     Metric  `json:"duration_sec"`
	CeilingHz    Metric  `json:"ceiling_hz"`
	BitrateBPS   Metric  `json:"bitrate_bps"`
	SampleRateHz Metric  `json:"sample_rate_hz"`
	BitDepth     Metric  `json:"bit_depth"`
	Rating       float64 `json:"rating"`
}

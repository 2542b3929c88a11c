package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Sentinel strings used in the on-disk store and in reports.
const (
	SentinelFailed      = "ERROR"
	SentinelUnavailable = "N/A"
)

type metricState int

const (
	stateUnavailable metricState = iota // zero value: not provided by the source
	stateKnown
	stateFailed
)

// Metric is a measurement that is either known, unavailable at the
// source, or failed during measurement. The three states are distinct:
// a lossy file has no bit depth (unavailable), while a truncated file
// that would not decode has a failed ceiling. Only failed metrics
// invalidate a cached record.
type Metric struct {
	state metricState
	value float64
}

func Known(v float64) Metric { return Metric{state: stateKnown, value: v} }
func Unavailable() Metric    { return Metric{state: stateUnavailable} }
func Failed() Metric         { return Metric{state: stateFailed} }

// Float returns the measured value and whether it is known.
func (m Metric) Float() (float64, bool) { return m.value, m.state == stateKnown }

func (m Metric) IsKnown() bool  { return m.state == stateKnown }
func (m Metric) IsFailed() bool { return m.state == stateFailed }

func (m Metric) String() string {
	switch m.state {
	case stateKnown:
		return strconv.FormatFloat(m.value, 'f', -1, 64)
	case stateFailed:
		return SentinelFailed
	default:
		return SentinelUnavailable
	}
}

// MarshalJSON encodes a known metric as a bare number and the other
// states as the sentinel strings, keeping the store human-diffable.
func (m Metric) MarshalJSON() ([]byte, error) {
	switch m.state {
	case stateKnown:
		return json.Marshal(m.value)
	case stateFailed:
		return json.Marshal(SentinelFailed)
	default:
		return json.Marshal(SentinelUnavailable)
	}
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Known(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("metric: expected number or sentinel, got %s", data)
	}
	switch s {
	case SentinelFailed:
		*m = Failed()
	case SentinelUnavailable:
		*m = Unavailable()
	default:
		return fmt.Errorf("metric: unknown sentinel %q", s)
	}
	return nil
}

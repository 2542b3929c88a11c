package analysis

import (
	"encoding/json"
	"testing"
)

func TestMetricZeroValueIsUnavailable(t *testing.T) {
	var m Metric
	if m.IsKnown() || m.IsFailed() {
		t.Errorf("zero Metric = %v, want unavailable", m)
	}
}

func TestMetricStates(t *testing.T) {
	k := Known(44100)
	if v, ok := k.Float(); !ok || v != 44100 {
		t.Errorf("Known(44100).Float() = %v, %v", v, ok)
	}
	if _, ok := Unavailable().Float(); ok {
		t.Error("Unavailable().Float() reported a value")
	}
	if !Failed().IsFailed() {
		t.Error("Failed().IsFailed() = false")
	}
}

func TestMetricJSONSentinels(t *testing.T) {
	tests := []struct {
		m    Metric
		want string
	}{
		{Known(19953.5), "19953.5"},
		{Known(0), "0"},
		{Unavailable(), `"N/A"`},
		{Failed(), `"ERROR"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.m)
		if err != nil {
			t.Fatalf("Marshal(%v) error: %v", tt.m, err)
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.m, data, tt.want)
		}

		var back Metric
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", data, err)
		}
		if back != tt.m {
			t.Errorf("round trip of %v gave %v", tt.m, back)
		}
	}
}

func TestMetricUnmarshalRejectsUnknownSentinel(t *testing.T) {
	var m Metric
	if err := json.Unmarshal([]byte(`"MAYBE"`), &m); err == nil {
		t.Error("expected error for unknown sentinel string")
	}
	if err := json.Unmarshal([]byte(`[1]`), &m); err == nil {
		t.Error("expected error for non-scalar value")
	}
}

func TestStageErrorUnwraps(t *testing.T) {
	cause := json.Unmarshal([]byte("{"), &struct{}{})
	err := &StageError{Stage: StageDecode, Path: "x.flac", Err: cause}
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the cause")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}

package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

func sampleRecord(path string) analysis.Record {
	return analysis.Record{
		Path:         path,
		MTime:        1724760000000000000,
		Size:         4096,
		Duration:     analysis.Known(183.4),
		CeilingHz:    analysis.Known(19870.5),
		BitrateBPS:   analysis.Known(960000),
		SampleRateHz: analysis.Known(44100),
		BitDepth:     analysis.Unavailable(),
		Rating:       84.2,
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "absent.json"), nil)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 for missing state file", s.Len())
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Load(path, nil)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 for corrupt state file", s.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New()
	s.Put("fp-aaa", sampleRecord("music/a.flac"))
	failed := sampleRecord("music/b.mp3")
	failed.CeilingHz = analysis.Failed()
	failed.BitDepth = analysis.Unavailable()
	s.Put("fp-bbb", failed)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded := Load(path, nil)
	if loaded.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after reload", loaded.Len())
	}

	a, ok := loaded.Get("fp-aaa")
	if !ok {
		t.Fatal("record fp-aaa missing after reload")
	}
	if a.Path != "music/a.flac" || a.Rating != 84.2 {
		t.Errorf("record fp-aaa = %+v, want original values", a)
	}
	if v, known := a.CeilingHz.Float(); !known || v != 19870.5 {
		t.Errorf("CeilingHz = %v, want 19870.5", a.CeilingHz)
	}

	b, _ := loaded.Get("fp-bbb")
	if !b.CeilingHz.IsFailed() {
		t.Errorf("CeilingHz = %v, want failed sentinel to survive reload", b.CeilingHz)
	}
	if b.BitDepth.IsKnown() || b.BitDepth.IsFailed() {
		t.Errorf("BitDepth = %v, want unavailable to survive reload", b.BitDepth)
	}
}

func TestSaveSentinelStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	rec := sampleRecord("music/x.mp3")
	rec.CeilingHz = analysis.Failed()
	s := New()
	s.Put("fp-x", rec)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"ERROR"`) {
		t.Error("failed metric not stored as \"ERROR\" sentinel")
	}
	if !strings.Contains(string(data), `"N/A"`) {
		t.Error("unavailable metric not stored as \"N/A\" sentinel")
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	s := New()
	s.Put("fp-1", sampleRecord("a.wav"))
	if err := s.Save(path); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	s.Put("fp-2", sampleRecord("b.wav"))
	if err := s.Save(path); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	loaded := Load(path, nil)
	if loaded.Len() != 2 {
		t.Errorf("Len = %d, want 2 after overwrite", loaded.Len())
	}

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".specgrade-state-") {
			t.Errorf("stale temp file left behind: %s", e.Name())
		}
	}
}

func TestPutReplacesByFingerprint(t *testing.T) {
	s := New()
	s.Put("fp", sampleRecord("old/location.flac"))
	s.Put("fp", sampleRecord("new/location.flac"))
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 for duplicate content", s.Len())
	}
	r, _ := s.Get("fp")
	if r.Path != "new/location.flac" {
		t.Errorf("Path = %q, want last scanned path to win", r.Path)
	}
}

func TestRecordsSortedByPath(t *testing.T) {
	s := New()
	s.Put("fp-z", sampleRecord("zebra.wav"))
	s.Put("fp-a", sampleRecord("alpha.wav"))
	s.Put("fp-m", sampleRecord("mid.wav"))

	recs := s.Records()
	if len(recs) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Path > recs[i].Path {
			t.Errorf("records out of order: %q before %q", recs[i-1].Path, recs[i].Path)
		}
	}
}

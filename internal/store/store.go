// Package store persists analysis records keyed by content
// fingerprint, as a single human-diffable JSON document.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

type Store struct {
	records map[string]analysis.Record
}

func New() *Store {
	return &Store{records: make(map[string]analysis.Record)}
}

// Load reads the store from disk. A missing file is a normal first
// run and a corrupt file degrades to an empty store with a warning;
// neither stops a scan.
func Load(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("state file unreadable, starting fresh", "path", path, "err", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		log.Warn("state file corrupt, starting fresh", "path", path, "err", err)
		s.records = make(map[string]analysis.Record)
	}
	return s
}

// Save writes the store atomically: the document lands in a temp file
// in the target directory and is renamed into place, so a crash leaves
// either the old store or the new one, never a partial write.
func (s *Store) Save(path string) error {
	fail := func(err error) error {
		return &analysis.StageError{Stage: analysis.StagePersistence, Path: path, Err: err}
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fail(err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".specgrade-state-*")
	if err != nil {
		return fail(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(fmt.Errorf("replacing state file: %w", err))
	}
	return nil
}

// Get returns the record for a fingerprint.
func (s *Store) Get(fingerprint string) (analysis.Record, bool) {
	r, ok := s.records[fingerprint]
	return r, ok
}

// Put inserts or replaces the record for a fingerprint. Duplicate
// content shares a single record; the last scanned path wins.
func (s *Store) Put(fingerprint string, r analysis.Record) {
	s.records[fingerprint] = r
}

func (s *Store) Len() int { return len(s.records) }

// Records returns all records sorted by path, for deterministic
// reporting regardless of scan order.
func (s *Store) Records() []analysis.Record {
	out := make([]analysis.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

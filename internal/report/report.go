// Package report renders the analyzed library for humans: CSV for
// spreadsheets, JSON for tooling. Failed metrics render as ERROR and
// unavailable ones as N/A, matching the store sentinels.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

var csvHeader = []string{
	"path", "duration_sec", "ceiling_hz", "bitrate_bps",
	"sample_rate_hz", "bit_depth", "rating",
}

// WriteCSV emits one row per record, in the order given.
func WriteCSV(w io.Writer, records []analysis.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Path,
			r.Duration.String(),
			r.CeilingHz.String(),
			r.BitrateBPS.String(),
			r.SampleRateHz.String(),
			r.BitDepth.String(),
			fmt.Sprintf("%.1f", r.Rating),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", r.Path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON emits the records as an indented array; metric sentinels
// appear exactly as they do in the store.
func WriteJSON(w io.Writer, records []analysis.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteFile renders to the path, picking the format from the
// extension: .json gets JSON, anything else CSV.
func WriteFile(path string, records []analysis.Record) error {
	fail := func(err error) error {
		return &analysis.StageError{Stage: analysis.StagePersistence, Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return fail(err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = WriteJSON(f, records)
	} else {
		err = WriteCSV(f, records)
	}
	if err != nil {
		f.Close()
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	return nil
}

// Package scan drives the per-file analysis lifecycle over a music
// library: discover, identify by content, reuse cached results where
// valid, analyze the rest, then commit the report and state once for
// the whole batch.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/satindergrewal/specgrade/internal/analysis"
	"github.com/satindergrewal/specgrade/internal/decode"
	"github.com/satindergrewal/specgrade/internal/fingerprint"
	"github.com/satindergrewal/specgrade/internal/metadata"
	"github.com/satindergrewal/specgrade/internal/rating"
	"github.com/satindergrewal/specgrade/internal/report"
	"github.com/satindergrewal/specgrade/internal/spectral"
	"github.com/satindergrewal/specgrade/internal/store"
)

var supportedExtensions = map[string]bool{
	".flac": true,
	".aiff": true,
	".aif":  true,
	".m4a":  true,
	".mp3":  true,
	".wav":  true,
}

// Supported reports whether the extension (lowercase, dot included)
// belongs to a scannable format.
func Supported(ext string) bool { return supportedExtensions[ext] }

// Walk discovers audio files under root in deterministic order.
// Files whose format has no decoder backend are returned separately
// so the caller can tell the user what was left out.
func Walk(root string, cap decode.Capability) (paths, skipped []string, err error) {
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if !supportedExtensions[ext] {
			return nil
		}
		if !cap.CanDecode(ext) {
			skipped = append(skipped, p)
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)
	sort.Strings(skipped)
	return paths, skipped, nil
}

type Outcome string

const (
	OutcomeAnalyzed Outcome = "analyzed"
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeFailed   Outcome = "failed"
)

// Event reports per-file progress to an optional callback.
type Event struct {
	Path    string
	Outcome Outcome
}

// Summary describes one scan run.
type Summary struct {
	RunID     string
	Total     int
	Analyzed  int
	CacheHits int
	Failures  int
	Changed   bool
}

// RunnerConfig carries the scan tunables.
type RunnerConfig struct {
	Workers    int    // concurrent analysis workers, minimum 1
	StateFile  string // store location
	ReportFile string // report location, format by extension
	Progress   func(Event)
}

type Runner struct {
	store     *store.Store
	decoder   *decode.Decoder
	extractor *metadata.Extractor
	estimator *spectral.Estimator
	calc      rating.Calculator
	log       *slog.Logger
	cfg       RunnerConfig
}

func NewRunner(st *store.Store, dec *decode.Decoder, ext *metadata.Extractor,
	est *spectral.Estimator, calc rating.Calculator, log *slog.Logger, cfg RunnerConfig) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{
		store:     st,
		decoder:   dec,
		extractor: ext,
		estimator: est,
		calc:      calc,
		log:       log,
		cfg:       cfg,
	}
}

// Scan processes the batch and commits the results. One file's failure
// never aborts the run. When anything changed, the report is written
// first and the state store only after it succeeds: a failed report
// leaves the old state intact, so the next run simply re-analyzes.
// When nothing changed, neither file is touched. Cancellation aborts
// the whole batch: nothing is persisted and the on-disk state stays
// exactly as it was, so an interrupted run is indistinguishable from
// one that never started.
func (r *Runner) Scan(ctx context.Context, paths []string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Total: len(paths)}
	log := r.log.With("run_id", sum.RunID)
	log.Info("scan starting", "files", len(paths), "workers", r.cfg.Workers)

	var mu sync.Mutex // guards store and summary counters
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				r.processOne(log, path, &mu, &sum)
			}
		}()
	}

dispatch:
	for _, p := range paths {
		select {
		case jobs <- p:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("scan aborted, discarding uncommitted work",
			"analyzed", sum.Analyzed, "err", err)
		return sum, err
	}

	if !sum.Changed {
		log.Info("scan finished, nothing changed",
			"cache_hits", sum.CacheHits, "failures", sum.Failures)
		return sum, nil
	}

	records := r.store.Records()
	if err := report.WriteFile(r.cfg.ReportFile, records); err != nil {
		log.Error("report write failed, state not committed",
			"path", r.cfg.ReportFile, "err", err)
		return sum, err
	}
	if err := r.store.Save(r.cfg.StateFile); err != nil {
		log.Error("state write failed", "path", r.cfg.StateFile, "err", err)
		return sum, err
	}

	log.Info("scan committed",
		"analyzed", sum.Analyzed,
		"cache_hits", sum.CacheHits,
		"failures", sum.Failures,
		"records", len(records))
	return sum, nil
}

func (r *Runner) processOne(log *slog.Logger, path string, mu *sync.Mutex, sum *Summary) {
	emit := func(o Outcome) {
		if r.cfg.Progress != nil {
			r.cfg.Progress(Event{Path: path, Outcome: o})
		}
	}
	countFailure := func() {
		mu.Lock()
		sum.Failures++
		mu.Unlock()
		emit(OutcomeFailed)
	}

	fi, err := os.Stat(path)
	if err != nil {
		log.Warn("cannot stat file", "path", path, "stage", analysis.StageAccess, "err", err)
		countFailure()
		return
	}
	fp, err := fingerprint.File(path)
	if err != nil {
		log.Warn("fingerprint failed", "path", path, "err", err)
		countFailure()
		return
	}
	mtime := fi.ModTime().UnixNano()
	size := fi.Size()

	mu.Lock()
	prev, cached := r.store.Get(fp)
	mu.Unlock()
	// A cached record is reusable only when the file on disk looks
	// untouched and the previous run left no error sentinels behind;
	// failed analyses always get another chance.
	if cached && prev.MTime == mtime && prev.Size == size &&
		!prev.Duration.IsFailed() && !prev.CeilingHz.IsFailed() {
		mu.Lock()
		sum.CacheHits++
		mu.Unlock()
		emit(OutcomeCacheHit)
		return
	}

	rec := r.analyze(log, path, mtime, size)
	mu.Lock()
	r.store.Put(fp, rec)
	sum.Analyzed++
	sum.Changed = true
	mu.Unlock()
	emit(OutcomeAnalyzed)
}

// analyze builds a record from whatever succeeds. A decode failure
// fails duration and ceiling but metadata is still attempted, so a
// damaged file keeps a partial record.
func (r *Runner) analyze(log *slog.Logger, path string, mtime, size int64) analysis.Record {
	rec := analysis.Record{Path: path, MTime: mtime, Size: size}

	samples, rate, err := r.decoder.File(path)
	if err != nil {
		log.Warn("decode failed", "path", path, "stage", analysis.StageDecode, "err", err)
		rec.Duration = analysis.Failed()
		rec.CeilingHz = analysis.Failed()
	} else {
		rec.Duration = analysis.Known(float64(len(samples)) / float64(rate))
		ceiling, err := r.estimator.Ceiling(samples, rate)
		if err != nil {
			log.Warn("ceiling estimation failed", "path", path, "err", err)
			rec.CeilingHz = analysis.Failed()
		} else {
			rec.CeilingHz = analysis.Known(ceiling)
		}
	}

	info := r.extractor.Extract(path)
	rec.BitrateBPS = info.BitrateBPS
	rec.SampleRateHz = info.SampleRateHz
	rec.BitDepth = info.BitDepth

	rec.Rating = r.calc.Score(rec.CeilingHz, rec.BitrateBPS, rec.SampleRateHz, rec.BitDepth)
	return rec
}

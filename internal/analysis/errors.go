package analysis

import "fmt"

// Stage identifies where in the per-file pipeline a failure happened.
type Stage string

const (
	StageAccess      Stage = "access"
	StageHash        Stage = "hash"
	StageDecode      Stage = "decode"
	StageMetadata    Stage = "metadata"
	StagePersistence Stage = "persistence"
)

// StageError wraps a failure with the pipeline stage and the file it
// belongs to, so callers can log and count failures uniformly.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

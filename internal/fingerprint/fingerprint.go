// Package fingerprint identifies audio files by content so that
// renamed or moved files keep their analysis results.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/satindergrewal/specgrade/internal/analysis"
)

// blockSize keeps memory bounded regardless of file size.
const blockSize = 64 * 1024

// File returns the lowercase hex SHA-256 digest of the file's bytes.
// The digest depends only on content: path, name and timestamps do
// not affect it.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &analysis.StageError{Stage: analysis.StageAccess, Path: path, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, blockSize)); err != nil {
		return "", &analysis.StageError{Stage: analysis.StageHash, Path: path, Err: err}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

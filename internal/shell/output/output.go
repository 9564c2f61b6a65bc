// Package output writes generated workflow documents to disk and reports
// drift between a committed document and a fresh generation.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/k14s/difflib"
	"github.com/nkuhn-vmw/mcp-server-deployment/internal/core/workflow"
)

// ErrNotFound is returned by Read when no document exists yet.
var ErrNotFound = errors.New("document not found")

// Writer stores documents in a single directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer for dir. A nil logger discards log output.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{dir: dir, logger: logger}
}

// Path returns the path a document named name is written to.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// =============================================================================
// Write / Read
// =============================================================================

// Write stores the result's content under its document name. The file is
// replaced atomically: readers see the old document or the new one.
func (w *Writer) Write(result *workflow.Result) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := w.Path(result.Name)
	tmp, err := os.CreateTemp(w.dir, "."+result.Name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(result.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", result.Name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", result.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", result.Name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", path, err)
	}

	w.logger.Debug("wrote workflow",
		"path", path,
		"bytes", len(result.Content),
	)
	return path, nil
}

// Read returns the stored document named name, or ErrNotFound.
func (w *Writer) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(w.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, w.Path(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// =============================================================================
// Drift
// =============================================================================

// Drift compares a stored document with a fresh generation. The generation
// date comment is ignored. When the documents differ the returned report is
// a line diff of stored against generated.
func Drift(stored, generated []byte) (string, bool) {
	a := comparableLines(stored)
	b := comparableLines(generated)
	if slices.Equal(a, b) {
		return "", false
	}
	return difflib.PPDiff(a, b), true
}

func comparableLines(content []byte) []string {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, workflow.DateCommentPrefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

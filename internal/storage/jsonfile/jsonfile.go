// Package jsonfile persists the grade book as a single JSON document.
//
// The document maps year label -> course name -> {target, categories}, where
// each category is {weight, grades}. It is rewritten in full on every save.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gradetracker/internal/core"
	applog "gradetracker/internal/log"
	"gradetracker/internal/storage"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "grades_data.json"

var _ storage.Repository = (*Store)(nil)

type Store struct {
	path string
}

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the file. A missing file yields an empty grade book; a file
// that exists but does not decode is returned as an error.
func (s *Store) Load(ctx context.Context) (core.Data, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Grade file not found, starting empty", applog.FieldPath, s.path)
		return core.Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read grade file: %w", err)
	}

	var d core.Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode grade file %s: %w", s.path, err)
	}
	if d == nil {
		d = core.Data{}
	}
	d.Normalize()

	slog.DebugContext(ctx, "Grade file loaded", applog.FieldPath, s.path, "years", len(d))
	return d, nil
}

// Save overwrites the file with the whole grade book.
func (s *Store) Save(ctx context.Context, d core.Data) error {
	if d == nil {
		d = core.Data{}
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode grade file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create grade file directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write grade file: %w", err)
	}

	slog.DebugContext(ctx, "Grade file saved", applog.FieldPath, s.path, "bytes", len(b))
	return nil
}

// Package memory provides an in-process SummaryWriter used for dry runs
// and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"gradetracker/internal/core"
	ports "gradetracker/internal/sheets"
)

var _ ports.SummaryWriter = (*Writer)(nil)

type Writer struct {
	mu     sync.Mutex
	years  map[string][]core.CourseRow
	writes int
}

func New() *Writer {
	return &Writer{years: map[string][]core.CourseRow{}}
}

// WriteYear stores a copy of rows under year.
func (w *Writer) WriteYear(_ context.Context, year string, rows []core.CourseRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.years[year] = append([]core.CourseRow(nil), rows...)
	w.writes++
	return nil
}

// DeleteYear forgets year.
func (w *Writer) DeleteYear(_ context.Context, year string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.years, year)
	return nil
}

// Year returns the rows last written for year.
func (w *Writer) Year(year string) ([]core.CourseRow, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.years[year]
	return append([]core.CourseRow(nil), rows...), ok
}

// Years returns the years currently held, sorted.
func (w *Writer) Years() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.years))
	for y := range w.years {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}

// Writes counts WriteYear calls.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

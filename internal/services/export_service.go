package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gradetracker/internal/cache"
	"gradetracker/internal/core"
	applog "gradetracker/internal/log"
	"gradetracker/internal/sheets"
)

// DefaultExportConcurrency bounds how many years are written at once.
const DefaultExportConcurrency = 4

// ExportService pushes computed course summaries to a SummaryWriter.
type ExportService struct {
	writer      sheets.SummaryWriter
	concurrency int
	// written maps a year to the fingerprint of its last written rows.
	written     cache.Cache[string]
}

func NewExportService(writer sheets.SummaryWriter, concurrency int) *ExportService {
	if concurrency < 1 {
		concurrency = DefaultExportConcurrency
	}
	return &ExportService{
		writer:      writer,
		concurrency: concurrency,
	}
}

// WithCache skips writes of years whose rows are unchanged since the last
// successful write still held by c.
func (s *ExportService) WithCache(c cache.Cache[string]) *ExportService {
	s.written = c
	return s
}

// ExportYear writes the summary of one year. A year missing from data is
// deleted from the destination.
func (s *ExportService) ExportYear(ctx context.Context, data core.Data, year string) error {
	y, ok := data[year]
	if !ok {
		if s.written != nil {
			s.written.Delete(year)
		}
		if err := s.writer.DeleteYear(ctx, year); err != nil {
			return fmt.Errorf("delete year %q: %w", year, err)
		}
		slog.InfoContext(ctx, "Removed exported year", applog.FieldYear, year)
		return nil
	}

	rows := core.YearRows(y)
	fp := fingerprint(rows)
	if s.written != nil && fp != "" {
		if prev, ok := s.written.Get(year); ok && prev == fp {
			slog.DebugContext(ctx, "Year unchanged, skipping export", applog.FieldYear, year)
			return nil
		}
	}

	if err := s.writer.WriteYear(ctx, year, rows); err != nil {
		return fmt.Errorf("export year %q: %w", year, err)
	}
	if s.written != nil && fp != "" {
		s.written.Set(year, fp)
	}

	slog.InfoContext(ctx, "Exported year", applog.FieldYear, year, applog.FieldRows, len(rows))
	return nil
}

// ExportAll writes every year of data concurrently. The first failure
// cancels the remaining writes and is returned.
func (s *ExportService) ExportAll(ctx context.Context, data core.Data) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, year := range data.YearLabels() {
		g.Go(func() error {
			return s.ExportYear(ctx, data, year)
		})
	}

	return g.Wait()
}

func fingerprint(rows []core.CourseRow) string {
	b, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	return string(b)
}

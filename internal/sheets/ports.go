package sheets

import (
	"context"

	"gradetracker/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryWriter publishes per-year course summaries.
	SummaryWriter interface {
		// WriteYear replaces the year's summary with rows.
		WriteYear(ctx context.Context, year string, rows []core.CourseRow) error
		// DeleteYear removes the year's summary. Unknown years are ignored.
		DeleteYear(ctx context.Context, year string) error
	}
)

// Header is the first row of every year summary.
var Header = []string{"Course", "Target", "Current", "Graded Weight", "Remaining Weight", "Needed"}

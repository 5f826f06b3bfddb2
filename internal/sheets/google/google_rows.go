package google

import (
	"math"
	"strings"

	"gradetracker/internal/core"
	ports "gradetracker/internal/sheets"
)

// buildValues converts course rows into a values matrix, header first.
// Missing targets and needed averages are written as empty cells.
func buildValues(rows []core.CourseRow) [][]any {
	values := make([][]any, 0, len(rows)+1)

	header := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	values = append(values, header)

	for _, r := range rows {
		values = append(values, []any{
			r.Course,
			optional(r.Target),
			round2(r.CurrentScore),
			round2(r.GradedWeight),
			round2(r.RemainingWeight),
			optional(r.Needed),
		})
	}
	return values
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return round2(*v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// quoteSheet returns the sheet name in A1 notation form, e.g. 'First Year'.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnRange covers every column written for a year.
func columnRange(sheet string) string {
	return quoteSheet(sheet) + "!A:" + string(rune('A'+len(ports.Header)-1))
}

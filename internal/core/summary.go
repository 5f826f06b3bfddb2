package core

import (
	"fmt"
	"strings"
)

// CategorySummary is the computed breakdown of one category.
type CategorySummary struct {
	Name         string
	Weight       float64
	Grades       []float64
	Graded       bool
	Average      float64 // mean of Grades; zero when not Graded
	Contribution float64 // Average * Weight / 100
}

// CourseSummary is what the display shows for a selected course.
type CourseSummary struct {
	Categories      []CategorySummary
	CurrentScore    float64
	GradedWeight    float64
	RemainingWeight float64
	TotalWeight     float64
	Target          *float64
	// Needed is the average still required over the ungraded weight to
	// reach Target. Nil when there is no target or nothing left ungraded.
	Needed *float64
}

// CourseRow is a flattened course summary used by exports.
type CourseRow struct {
	Course          string
	Target          *float64
	CurrentScore    float64
	GradedWeight    float64
	RemainingWeight float64
	Needed          *float64
}

// Text renders the summary lines shown under the course title.
func (s CourseSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Grade: %.2f%%", s.CurrentScore)
	if s.Needed != nil && s.Target != nil {
		fmt.Fprintf(&b, "\nTarget: %.2f%% → Need: %.2f%%", *s.Target, *s.Needed)
	}
	return b.String()
}

// Row flattens the summary for the given course name.
func (s CourseSummary) Row(course string) CourseRow {
	return CourseRow{
		Course:          course,
		Target:          s.Target,
		CurrentScore:    s.CurrentScore,
		GradedWeight:    s.GradedWeight,
		RemainingWeight: s.RemainingWeight,
		Needed:          s.Needed,
	}
}

// YearRows summarizes every course of a year, sorted by course name.
func YearRows(y Year) []CourseRow {
	rows := make([]CourseRow, 0, len(y))
	for _, name := range y.CourseNames() {
		rows = append(rows, Summarize(y[name]).Row(name))
	}
	return rows
}

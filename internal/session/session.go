// Package session turns user actions into grade book mutations.
//
// A Session remembers the selected year and course, asks the Prompter for
// input, applies the change through the tracker, reports problems through
// the Notifier and redraws through the Display. Cancelled prompts are no-ops.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gradetracker/internal/core"
	"gradetracker/internal/tracker"
)

// Collaborators provided by the user interface.
type (
	Prompter interface {
		// AskString returns ok=false when the user cancelled.
		AskString(title, prompt string) (value string, ok bool)
		// AskFloat returns ok=false when the user cancelled.
		AskFloat(title, prompt string) (value float64, ok bool)
		Confirm(title, prompt string) bool
	}

	Display interface {
		ShowYears(years []string, selected string)
		ShowCourses(courses []string, selected string)
		// ShowCourse renders the selected course; a nil summary means no
		// course is selected.
		ShowCourse(name string, summary *core.CourseSummary)
	}

	Notifier interface {
		Warn(title, msg string)
		Error(title, msg string)
	}
)

// Notification titles.
const (
	TitleNoYear         = "No Year Selected"
	TitleNoCourse       = "No Course Selected"
	TitleWeightExceeded = "Weight Limit Exceeded"
	TitleError          = "Error"
	TitleAlreadyExists  = "Already Exists"
	TitleInvalidInput   = "Invalid Input"
)

type Session struct {
	store    *tracker.Store
	prompter Prompter
	display  Display
	notifier Notifier

	year   string
	course string
}

func New(store *tracker.Store, prompter Prompter, display Display, notifier Notifier) *Session {
	return &Session{
		store:    store,
		prompter: prompter,
		display:  display,
		notifier: notifier,
	}
}

// SelectedYear returns the selected year label, empty when none.
func (s *Session) SelectedYear() string { return s.year }

// SelectedCourse returns the selected course name, empty when none.
func (s *Session) SelectedCourse() string { return s.course }

// Refresh redraws years, courses and the selected course.
func (s *Session) Refresh() {
	s.display.ShowYears(s.store.Years(), s.year)
	s.refreshCourses()
	s.refreshCourse()
}

func (s *Session) refreshCourses() {
	var courses []string
	if s.year != "" {
		courses, _ = s.store.Courses(s.year)
	}
	s.display.ShowCourses(courses, s.course)
}

func (s *Session) refreshCourse() {
	if s.year == "" || s.course == "" {
		s.display.ShowCourse("", nil)
		return
	}
	sum, err := s.store.Summary(s.year, s.course)
	if err != nil {
		s.display.ShowCourse("", nil)
		return
	}
	s.display.ShowCourse(s.course, &sum)
}

// AddYear prompts for a label and creates the year, selecting it.
func (s *Session) AddYear(ctx context.Context) error {
	label, ok := s.askName("New Year", "Enter year (e.g., First Year, Second Year):")
	if !ok {
		return nil
	}
	if err := s.store.AddYear(ctx, label); err != nil {
		return s.report(ctx, err)
	}
	s.year = label
	s.course = ""
	s.Refresh()
	return nil
}

// SelectYear makes label the current year and clears the course selection.
func (s *Session) SelectYear(label string) {
	if !s.store.HasYear(label) {
		s.notifier.Error(TitleError, fmt.Sprintf("Year '%s' not found.", label))
		return
	}
	s.year = label
	s.course = ""
	s.Refresh()
}

// DeleteYear removes the selected year without confirmation.
func (s *Session) DeleteYear(ctx context.Context) error {
	if err := s.requireYear(); err != nil {
		return s.report(ctx, err)
	}
	if err := s.store.DeleteYear(ctx, s.year); err != nil {
		return s.report(ctx, err)
	}
	s.year = ""
	s.course = ""
	s.Refresh()
	return nil
}

// AddCourse prompts for a name and an optional target. Cancelling the
// target prompt creates the course without a target.
func (s *Session) AddCourse(ctx context.Context) error {
	if err := s.requireYear(); err != nil {
		return s.report(ctx, err)
	}
	name, ok := s.askName("New Course", "Enter course name:")
	if !ok {
		return nil
	}
	courses, _ := s.store.Courses(s.year)
	for _, c := range courses {
		if c == name {
			return s.report(ctx, fmt.Errorf("%w: %s", core.ErrCourseExists, name))
		}
	}

	var target *float64
	if v, ok := s.prompter.AskFloat("Target Grade", fmt.Sprintf("Enter your target grade for %s (%%):", name)); ok {
		target = core.Float(v)
	}
	if err := s.store.AddCourse(ctx, s.year, name, target); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourses()
	return nil
}

// SelectCourse makes name the current course of the selected year.
func (s *Session) SelectCourse(name string) {
	if s.requireYear() != nil {
		s.notifier.Warn(TitleNoYear, "Please select a year first.")
		return
	}
	if _, err := s.store.Course(s.year, name); err != nil {
		s.notifier.Error(TitleError, fmt.Sprintf("Course '%s' not found.", name))
		return
	}
	s.course = name
	s.refreshCourse()
}

// DeleteCourse removes the selected course after confirmation.
func (s *Session) DeleteCourse(ctx context.Context) error {
	if s.year == "" || s.course == "" {
		return nil
	}
	if !s.prompter.Confirm("Delete Course", fmt.Sprintf("Are you sure you want to delete '%s'?", s.course)) {
		return nil
	}
	if err := s.store.DeleteCourse(ctx, s.year, s.course); err != nil {
		return s.report(ctx, err)
	}
	s.course = ""
	s.refreshCourses()
	s.refreshCourse()
	return nil
}

// SetTarget prompts for a new target for the selected course. Cancelling
// leaves the target unchanged; use ClearTarget to remove it.
func (s *Session) SetTarget(ctx context.Context) error {
	if err := s.requireCourse(); err != nil {
		return s.report(ctx, err)
	}
	v, ok := s.prompter.AskFloat("Target Grade", fmt.Sprintf("Enter your target grade for %s (%%):", s.course))
	if !ok {
		return nil
	}
	return s.applyTarget(ctx, core.Float(v))
}

// ClearTarget removes the target of the selected course.
func (s *Session) ClearTarget(ctx context.Context) error {
	if err := s.requireCourse(); err != nil {
		return s.report(ctx, err)
	}
	return s.applyTarget(ctx, nil)
}

func (s *Session) applyTarget(ctx context.Context, target *float64) error {
	if err := s.store.SetTarget(ctx, s.year, s.course, target); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourse()
	return nil
}

// AddCategory prompts for a name and a weight; both are required.
func (s *Session) AddCategory(ctx context.Context) error {
	if err := s.requireCourse(); err != nil {
		return s.report(ctx, err)
	}
	name, nameOK := s.askName("New Category", "Enter category name:")
	weight, weightOK := s.prompter.AskFloat("Category Weight", "Enter category weight (%):")
	if !nameOK || !weightOK {
		return nil
	}
	if err := s.store.AddCategory(ctx, s.year, s.course, name, weight); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourse()
	return nil
}

// DeleteCategory removes a category of the selected course after
// confirmation.
func (s *Session) DeleteCategory(ctx context.Context, category string) error {
	if s.course == "" {
		return nil
	}
	if !s.prompter.Confirm("Delete Category", fmt.Sprintf("Delete category '%s'?", category)) {
		return nil
	}
	if err := s.store.DeleteCategory(ctx, s.year, s.course, category); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourse()
	return nil
}

// AddGrade prompts for a grade and appends it to category.
func (s *Session) AddGrade(ctx context.Context, category string) error {
	if err := s.requireCourse(); err != nil {
		return s.report(ctx, err)
	}
	grade, ok := s.prompter.AskFloat("New Grade", fmt.Sprintf("Enter grade for %s:", category))
	if !ok {
		return nil
	}
	if err := s.store.AddGrade(ctx, s.year, s.course, category, grade); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourse()
	return nil
}

// DeleteGrade removes the grade at position index (0-based) of category.
func (s *Session) DeleteGrade(ctx context.Context, category string, index int) error {
	if s.course == "" {
		return nil
	}
	if err := s.store.DeleteGrade(ctx, s.year, s.course, category, index); err != nil {
		return s.report(ctx, err)
	}
	s.refreshCourse()
	return nil
}

func (s *Session) requireYear() error {
	if s.year == "" {
		return core.ErrNoYearSelected
	}
	return nil
}

func (s *Session) requireCourse() error {
	if err := s.requireYear(); err != nil {
		return err
	}
	if s.course == "" {
		return core.ErrNoCourseSelected
	}
	return nil
}

func (s *Session) askName(title, prompt string) (string, bool) {
	v, ok := s.prompter.AskString(title, prompt)
	if !ok {
		return "", false
	}
	name, err := core.ValidateName(v)
	if err != nil {
		return "", false
	}
	return name, true
}

// report shows a recoverable error to the user. Anything that is not a
// known domain error (persistence failures) is also returned.
func (s *Session) report(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrNoYearSelected):
		s.notifier.Warn(TitleNoYear, "Please select a year first.")
	case errors.Is(err, core.ErrNoCourseSelected):
		s.notifier.Warn(TitleNoCourse, "Please select a course first.")
	case errors.Is(err, core.ErrWeightLimitExceeded):
		s.notifier.Error(TitleWeightExceeded, "Total category weight cannot exceed 100%.")
	case errors.Is(err, core.ErrGradeNotFound):
		s.notifier.Error(TitleError, "Grade not found.")
	case errors.Is(err, core.ErrYearExists),
		errors.Is(err, core.ErrCourseExists),
		errors.Is(err, core.ErrCategoryExists):
		s.notifier.Warn(TitleAlreadyExists, capitalize(err.Error())+".")
	case errors.Is(err, core.ErrInvalidWeight),
		errors.Is(err, core.ErrInvalidNumber),
		errors.Is(err, core.ErrEmptyName):
		s.notifier.Error(TitleInvalidInput, capitalize(err.Error())+".")
	case errors.Is(err, core.ErrYearNotFound),
		errors.Is(err, core.ErrCourseNotFound),
		errors.Is(err, core.ErrCategoryNotFound):
		s.notifier.Error(TitleError, capitalize(err.Error())+".")
	default:
		slog.ErrorContext(ctx, "Action failed", "year", s.year, "course", s.course, "error", err)
		s.notifier.Error(TitleError, err.Error())
		return err
	}
	return nil
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	if c := msg[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + msg[1:]
	}
	return msg
}

package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gradetracker/internal/core"
	"gradetracker/internal/storage/memory"
	"gradetracker/internal/tracker"
)

// scriptedPrompter answers prompts from queues; an exhausted queue cancels.
type scriptedPrompter struct {
	strings  []string
	floats   []float64
	confirms []bool
}

func (p *scriptedPrompter) AskString(_, _ string) (string, bool) {
	if len(p.strings) == 0 {
		return "", false
	}
	v := p.strings[0]
	p.strings = p.strings[1:]
	return v, true
}

func (p *scriptedPrompter) AskFloat(_, _ string) (float64, bool) {
	if len(p.floats) == 0 {
		return 0, false
	}
	v := p.floats[0]
	p.floats = p.floats[1:]
	return v, true
}

func (p *scriptedPrompter) Confirm(_, _ string) bool {
	if len(p.confirms) == 0 {
		return false
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v
}

type recordingDisplay struct {
	years   []string
	courses []string
	course  string
	summary *core.CourseSummary
	draws   int
}

func (d *recordingDisplay) ShowYears(years []string, _ string) { d.years = years }
func (d *recordingDisplay) ShowCourses(courses []string, _ string) {
	d.courses = courses
}
func (d *recordingDisplay) ShowCourse(name string, summary *core.CourseSummary) {
	d.course = name
	d.summary = summary
	d.draws++
}

type note struct {
	level, title, msg string
}

type recordingNotifier struct {
	notes []note
}

func (n *recordingNotifier) Warn(title, msg string)  { n.notes = append(n.notes, note{"warn", title, msg}) }
func (n *recordingNotifier) Error(title, msg string) { n.notes = append(n.notes, note{"error", title, msg}) }

func (n *recordingNotifier) last() note {
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

type fixture struct {
	sess     *Session
	store    *tracker.Store
	repo     *memory.Store
	prompter *scriptedPrompter
	display  *recordingDisplay
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.New(nil)
	store, err := tracker.Open(context.Background(), repo, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f := &fixture{
		store:    store,
		repo:     repo,
		prompter: &scriptedPrompter{},
		display:  &recordingDisplay{},
		notifier: &recordingNotifier{},
	}
	f.sess = New(store, f.prompter, f.display, f.notifier)
	return f
}

// withCourse creates and selects "First Year" / "Math" with target 90.
func (f *fixture) withCourse(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	f.prompter.strings = append(f.prompter.strings, "First Year", "Math")
	f.prompter.floats = append(f.prompter.floats, 90)
	if err := f.sess.AddYear(ctx); err != nil {
		t.Fatalf("add year: %v", err)
	}
	if err := f.sess.AddCourse(ctx); err != nil {
		t.Fatalf("add course: %v", err)
	}
	f.sess.SelectCourse("Math")
}

func TestAddYearSelectsIt(t *testing.T) {
	f := newFixture(t)
	f.prompter.strings = []string{"  First Year "}
	if err := f.sess.AddYear(context.Background()); err != nil {
		t.Fatalf("add year: %v", err)
	}
	if f.sess.SelectedYear() != "First Year" {
		t.Fatalf("selected year = %q", f.sess.SelectedYear())
	}
	if !reflect.DeepEqual(f.display.years, []string{"First Year"}) {
		t.Fatalf("display years = %v", f.display.years)
	}
	if f.repo.Saves() != 1 {
		t.Fatalf("expected one save, got %d", f.repo.Saves())
	}
}

func TestCancelledPromptsAreNoOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.sess.AddYear(ctx); err != nil {
		t.Fatalf("add year: %v", err)
	}
	f.prompter.strings = []string{"   "}
	if err := f.sess.AddYear(ctx); err != nil {
		t.Fatalf("add year: %v", err)
	}
	if f.repo.Saves() != 0 || len(f.notifier.notes) != 0 {
		t.Fatalf("cancelled prompt changed state: saves=%d notes=%v", f.repo.Saves(), f.notifier.notes)
	}

	f.withCourse(t)
	saves := f.repo.Saves()

	// name given, weight cancelled
	f.prompter.strings = []string{"Homework"}
	if err := f.sess.AddCategory(ctx); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := f.sess.AddGrade(ctx, "Homework"); err != nil {
		t.Fatalf("add grade: %v", err)
	}
	if f.repo.Saves() != saves {
		t.Fatalf("cancelled prompts saved")
	}
}

func TestAddCourseWithoutYearWarns(t *testing.T) {
	f := newFixture(t)
	f.prompter.strings = []string{"Math"}
	if err := f.sess.AddCourse(context.Background()); err != nil {
		t.Fatalf("add course: %v", err)
	}
	if got := f.notifier.last(); got.level != "warn" || got.title != TitleNoYear {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if len(f.prompter.strings) != 1 {
		t.Fatalf("must not prompt without a year")
	}
}

func TestAddCategoryWithoutCourseWarns(t *testing.T) {
	f := newFixture(t)
	f.prompter.strings = []string{"First Year"}
	if err := f.sess.AddYear(context.Background()); err != nil {
		t.Fatalf("add year: %v", err)
	}
	if err := f.sess.AddCategory(context.Background()); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if got := f.notifier.last(); got.level != "warn" || got.title != TitleNoCourse {
		t.Fatalf("unexpected notification: %+v", got)
	}
}

func TestAddCourseTargetOptional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.prompter.strings = []string{"First Year", "Art"}
	if err := f.sess.AddYear(ctx); err != nil {
		t.Fatalf("add year: %v", err)
	}
	if err := f.sess.AddCourse(ctx); err != nil {
		t.Fatalf("add course: %v", err)
	}
	c, err := f.store.Course("First Year", "Art")
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if c.Target != nil {
		t.Fatalf("expected no target, got %v", *c.Target)
	}
	if !reflect.DeepEqual(f.display.courses, []string{"Art"}) {
		t.Fatalf("display courses = %v", f.display.courses)
	}
}

func TestDuplicateCourseWarnsBeforeTargetPrompt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)

	f.prompter.strings = []string{"Math"}
	f.prompter.floats = []float64{50}
	if err := f.sess.AddCourse(ctx); err != nil {
		t.Fatalf("add course: %v", err)
	}
	if got := f.notifier.last(); got.level != "warn" || got.title != TitleAlreadyExists {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if len(f.prompter.floats) != 1 {
		t.Fatalf("target prompt should not be shown for a duplicate")
	}
}

func TestCategoryWeightLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)

	f.prompter.strings = []string{"Exams", "Homework"}
	f.prompter.floats = []float64{70, 40}
	if err := f.sess.AddCategory(ctx); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := f.sess.AddCategory(ctx); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if got := f.notifier.last(); got.level != "error" || got.title != TitleWeightExceeded {
		t.Fatalf("unexpected notification: %+v", got)
	}
	names, _ := f.store.Categories("First Year", "Math")
	if !reflect.DeepEqual(names, []string{"Exams"}) {
		t.Fatalf("categories = %v", names)
	}
}

func TestGradesUpdateDisplayedSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)

	f.prompter.strings = []string{"A", "B"}
	f.prompter.floats = []float64{50, 50, 80}
	for i := 0; i < 2; i++ {
		if err := f.sess.AddCategory(ctx); err != nil {
			t.Fatalf("add category: %v", err)
		}
	}
	if err := f.sess.AddGrade(ctx, "A"); err != nil {
		t.Fatalf("add grade: %v", err)
	}

	s := f.display.summary
	if f.display.course != "Math" || s == nil {
		t.Fatalf("course not displayed")
	}
	if s.CurrentScore != 40 || s.Needed == nil || *s.Needed != 100 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDeleteGradeNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)
	f.prompter.strings = []string{"A"}
	f.prompter.floats = []float64{50, 80}
	if err := f.sess.AddCategory(ctx); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := f.sess.AddGrade(ctx, "A"); err != nil {
		t.Fatalf("add grade: %v", err)
	}

	if err := f.sess.DeleteGrade(ctx, "A", 3); err != nil {
		t.Fatalf("delete grade returned %v", err)
	}
	if got := f.notifier.last(); got.level != "error" || got.msg != "Grade not found." {
		t.Fatalf("unexpected notification: %+v", got)
	}

	if err := f.sess.DeleteGrade(ctx, "A", 0); err != nil {
		t.Fatalf("delete grade: %v", err)
	}
	c, _ := f.store.Course("First Year", "Math")
	if len(c.Categories["A"].Grades) != 0 {
		t.Fatalf("grade not deleted: %v", c.Categories["A"].Grades)
	}
}

func TestDeletionsNeedConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)
	f.prompter.strings = []string{"A"}
	f.prompter.floats = []float64{50}
	if err := f.sess.AddCategory(ctx); err != nil {
		t.Fatalf("add category: %v", err)
	}

	f.prompter.confirms = []bool{false, true}
	if err := f.sess.DeleteCategory(ctx, "A"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if names, _ := f.store.Categories("First Year", "Math"); len(names) != 1 {
		t.Fatalf("declined deletion removed category")
	}
	if err := f.sess.DeleteCategory(ctx, "A"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if names, _ := f.store.Categories("First Year", "Math"); len(names) != 0 {
		t.Fatalf("confirmed deletion kept category")
	}

	f.prompter.confirms = []bool{true}
	if err := f.sess.DeleteCourse(ctx); err != nil {
		t.Fatalf("delete course: %v", err)
	}
	if f.sess.SelectedCourse() != "" || f.display.summary != nil {
		t.Fatalf("deleted course still selected")
	}

	// Years go without confirmation.
	if err := f.sess.DeleteYear(ctx); err != nil {
		t.Fatalf("delete year: %v", err)
	}
	if f.sess.SelectedYear() != "" || len(f.store.Years()) != 0 {
		t.Fatalf("year not deleted")
	}
}

func TestTargetEditing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.withCourse(t)

	f.prompter.floats = []float64{75}
	if err := f.sess.SetTarget(ctx); err != nil {
		t.Fatalf("set target: %v", err)
	}
	if s := f.display.summary; s == nil || s.Target == nil || *s.Target != 75 {
		t.Fatalf("target not updated: %+v", s)
	}
	if err := f.sess.ClearTarget(ctx); err != nil {
		t.Fatalf("clear target: %v", err)
	}
	if s := f.display.summary; s == nil || s.Target != nil {
		t.Fatalf("target not cleared: %+v", s)
	}
}

func TestSelectUnknown(t *testing.T) {
	f := newFixture(t)
	f.sess.SelectYear("Nope")
	if got := f.notifier.last(); got.level != "error" {
		t.Fatalf("expected error notification, got %+v", got)
	}
	f.sess.SelectCourse("Math")
	if got := f.notifier.last(); got.title != TitleNoYear {
		t.Fatalf("expected no-year warning, got %+v", got)
	}
}

type brokenRepo struct{}

func (brokenRepo) Load(context.Context) (core.Data, error) { return core.Data{}, nil }
func (brokenRepo) Save(context.Context, core.Data) error   { return errors.New("read-only file system") }

func TestPersistenceFailureIsReturned(t *testing.T) {
	store, err := tracker.Open(context.Background(), brokenRepo{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	n := &recordingNotifier{}
	sess := New(store, &scriptedPrompter{strings: []string{"Y1"}}, &recordingDisplay{}, n)

	if err := sess.AddYear(context.Background()); err == nil {
		t.Fatal("expected persistence error")
	}
	if got := n.last(); got.level != "error" {
		t.Fatalf("expected error notification, got %+v", got)
	}
}

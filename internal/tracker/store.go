// Package tracker owns the in-memory grade book.
//
// A Store is created from a storage.Repository at startup, mutated in place
// by user actions and written back in full after every mutation.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gradetracker/internal/core"
	applog "gradetracker/internal/log"
	"gradetracker/internal/storage"
)

// Publisher is notified after a mutation has been saved.
type Publisher interface {
	PublishChange(ctx context.Context, c core.Change) error
}

type Store struct {
	mu        sync.Mutex
	data      core.Data
	repo      storage.Repository
	publisher Publisher
}

// Open loads the grade book from repo. A nil publisher disables change
// notifications.
func Open(ctx context.Context, repo storage.Repository, publisher Publisher) (*Store, error) {
	d, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load grade book: %w", err)
	}
	if d == nil {
		d = core.Data{}
	}
	d.Normalize()

	slog.InfoContext(ctx, "Grade book opened", "years", len(d))

	return &Store{
		data:      d,
		repo:      repo,
		publisher: publisher,
	}, nil
}

// Save writes the whole grade book through the repository.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.data); err != nil {
		return fmt.Errorf("save grade book: %w", err)
	}
	return nil
}

// mutate runs fn under the store lock and persists the result. The change
// is announced after the lock is released, so a slow publisher never blocks
// readers or the next action. Publish failures are logged only; the
// mutation is already durable.
func (s *Store) mutate(ctx context.Context, fn func() (core.Change, error)) error {
	c, err := s.commit(ctx, fn)
	if err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishChange(ctx, c); err != nil {
		slog.WarnContext(ctx, "Failed to publish change",
			applog.FieldOperation, c.Operation, applog.FieldYear, c.Year, applog.FieldError, err)
	}
	return nil
}

func (s *Store) commit(ctx context.Context, fn func() (core.Change, error)) (core.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := fn()
	if err != nil {
		return core.Change{}, err
	}
	if err := s.save(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to save grade book",
			applog.FieldOperation, c.Operation, applog.FieldYear, c.Year, applog.FieldCourse, c.Course, applog.FieldError, err)
		return core.Change{}, fmt.Errorf("%s: %w", c.Operation, err)
	}

	slog.DebugContext(ctx, "Grade book saved",
		applog.FieldOperation, c.Operation, applog.FieldYear, c.Year, applog.FieldCourse, c.Course, applog.FieldCategory, c.Category)
	return c, nil
}

// AddYear creates an empty year.
func (s *Store) AddYear(ctx context.Context, label string) error {
	label, err := core.ValidateName(label)
	if err != nil {
		return err
	}

	return s.mutate(ctx, func() (core.Change, error) {
		if _, ok := s.data[label]; ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrYearExists, label)
		}
		s.data[label] = core.Year{}
		return core.Change{Operation: core.OpAddYear, Year: label}, nil
	})
}

// DeleteYear removes a year with all of its courses.
func (s *Store) DeleteYear(ctx context.Context, label string) error {
	return s.mutate(ctx, func() (core.Change, error) {
		if _, ok := s.data[label]; !ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrYearNotFound, label)
		}
		delete(s.data, label)
		return core.Change{Operation: core.OpDeleteYear, Year: label}, nil
	})
}

// AddCourse creates a course in year. target may be nil.
func (s *Store) AddCourse(ctx context.Context, year, name string, target *float64) error {
	name, err := core.ValidateName(name)
	if err != nil {
		return err
	}
	if err := core.ValidateTarget(target); err != nil {
		return err
	}

	return s.mutate(ctx, func() (core.Change, error) {
		y, err := s.year(year)
		if err != nil {
			return core.Change{}, err
		}
		if _, ok := y[name]; ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrCourseExists, name)
		}
		y[name] = core.NewCourse(copyFloat(target))
		return core.Change{Operation: core.OpAddCourse, Year: year, Course: name}, nil
	})
}

// DeleteCourse removes a course from year.
func (s *Store) DeleteCourse(ctx context.Context, year, name string) error {
	return s.mutate(ctx, func() (core.Change, error) {
		y, err := s.year(year)
		if err != nil {
			return core.Change{}, err
		}
		if _, ok := y[name]; !ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrCourseNotFound, name)
		}
		delete(y, name)
		return core.Change{Operation: core.OpDeleteCourse, Year: year, Course: name}, nil
	})
}

// SetTarget changes or clears (nil) the target of a course.
func (s *Store) SetTarget(ctx context.Context, year, course string, target *float64) error {
	if err := core.ValidateTarget(target); err != nil {
		return err
	}

	return s.mutate(ctx, func() (core.Change, error) {
		c, err := s.course(year, course)
		if err != nil {
			return core.Change{}, err
		}
		c.Target = copyFloat(target)
		return core.Change{Operation: core.OpSetTarget, Year: year, Course: course}, nil
	})
}

// AddCategory creates a weighted category. The new weight plus the weights
// already in the course may not exceed 100; on rejection nothing changes.
func (s *Store) AddCategory(ctx context.Context, year, course, name string, weight float64) error {
	name, err := core.ValidateName(name)
	if err != nil {
		return err
	}

	return s.mutate(ctx, func() (core.Change, error) {
		c, err := s.course(year, course)
		if err != nil {
			return core.Change{}, err
		}
		if _, ok := c.Categories[name]; ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrCategoryExists, name)
		}
		if err := c.CheckNewWeight(weight); err != nil {
			return core.Change{}, err
		}
		c.Categories[name] = core.NewCategory(weight)
		return core.Change{Operation: core.OpAddCategory, Year: year, Course: course, Category: name}, nil
	})
}

// DeleteCategory removes a category and its grades. Remaining weights are
// not re-validated.
func (s *Store) DeleteCategory(ctx context.Context, year, course, name string) error {
	return s.mutate(ctx, func() (core.Change, error) {
		c, err := s.course(year, course)
		if err != nil {
			return core.Change{}, err
		}
		if _, ok := c.Categories[name]; !ok {
			return core.Change{}, fmt.Errorf("%w: %s", core.ErrCategoryNotFound, name)
		}
		delete(c.Categories, name)
		return core.Change{Operation: core.OpDeleteCategory, Year: year, Course: course, Category: name}, nil
	})
}

// AddGrade appends a grade to a category.
func (s *Store) AddGrade(ctx context.Context, year, course, category string, grade float64) error {
	if err := core.ValidateNumber(grade); err != nil {
		return err
	}

	return s.mutate(ctx, func() (core.Change, error) {
		cat, err := s.category(year, course, category)
		if err != nil {
			return core.Change{}, err
		}
		cat.Grades = append(cat.Grades, grade)
		return core.Change{Operation: core.OpAddGrade, Year: year, Course: course, Category: category}, nil
	})
}

// DeleteGrade removes the grade at position index (0-based, entry order).
func (s *Store) DeleteGrade(ctx context.Context, year, course, category string, index int) error {
	return s.mutate(ctx, func() (core.Change, error) {
		cat, err := s.category(year, course, category)
		if err != nil {
			return core.Change{}, err
		}
		if index < 0 || index >= len(cat.Grades) {
			return core.Change{}, fmt.Errorf("%w: index %d of %d", core.ErrGradeNotFound, index, len(cat.Grades))
		}
		cat.Grades = append(cat.Grades[:index], cat.Grades[index+1:]...)
		return core.Change{Operation: core.OpDeleteGrade, Year: year, Course: course, Category: category}, nil
	})
}

// Years returns the year labels, sorted.
func (s *Store) Years() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.YearLabels()
}

// HasYear reports whether the year exists.
func (s *Store) HasYear(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[label]
	return ok
}

// Courses returns the course names of a year, sorted.
func (s *Store) Courses(year string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	y, err := s.year(year)
	if err != nil {
		return nil, err
	}
	return y.CourseNames(), nil
}

// Categories returns the category names of a course, sorted.
func (s *Store) Categories(year, course string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.course(year, course)
	if err != nil {
		return nil, err
	}
	return c.CategoryNames(), nil
}

// Course returns a copy of a course.
func (s *Store) Course(year, name string) (*core.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.course(year, name)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Summary computes the score breakdown of a course.
func (s *Store) Summary(year, course string) (core.CourseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.course(year, course)
	if err != nil {
		return core.CourseSummary{}, err
	}
	return core.Summarize(c), nil
}

// Snapshot returns a deep copy of the whole grade book.
func (s *Store) Snapshot() core.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *Store) year(label string) (core.Year, error) {
	y, ok := s.data[label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrYearNotFound, label)
	}
	return y, nil
}

func (s *Store) course(year, name string) (*core.Course, error) {
	y, err := s.year(year)
	if err != nil {
		return nil, err
	}
	c, ok := y[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCourseNotFound, name)
	}
	return c, nil
}

func (s *Store) category(year, course, name string) (*core.Category, error) {
	c, err := s.course(year, course)
	if err != nil {
		return nil, err
	}
	cat, ok := c.Categories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCategoryNotFound, name)
	}
	return cat, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return core.Float(*v)
}

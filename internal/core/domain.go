package core

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
)

// MaxTotalWeight is the ceiling for the summed category weights of a course.
const MaxTotalWeight = 100.0

type (
	// Data is the whole store: year label -> courses.
	Data map[string]Year

	// Year maps course names to courses.
	Year map[string]*Course

	Course struct {
		Target     *float64             `json:"target"`
		Categories map[string]*Category `json:"categories"`
	}

	Category struct {
		Weight float64   `json:"weight"`
		Grades []float64 `json:"grades"`
	}
)

var (
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidNumber       = errors.New("number must be finite")
	ErrInvalidWeight       = errors.New("weight cannot be negative")
	ErrWeightLimitExceeded = errors.New("total category weight cannot exceed 100%")

	ErrNoYearSelected   = errors.New("no year selected")
	ErrNoCourseSelected = errors.New("no course selected")

	ErrYearNotFound     = errors.New("year not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGradeNotFound    = errors.New("grade not found")

	ErrYearExists     = errors.New("year already exists")
	ErrCourseExists   = errors.New("course already exists")
	ErrCategoryExists = errors.New("category already exists")
)

// NewCourse returns a course with no categories.
func NewCourse(target *float64) *Course {
	return &Course{Target: target, Categories: map[string]*Category{}}
}

// NewCategory returns a category with an empty grade list.
func NewCategory(weight float64) *Category {
	return &Category{Weight: weight, Grades: []float64{}}
}

// MarshalJSON keeps grades encoded as an array even when no grade was ever added.
func (c Category) MarshalJSON() ([]byte, error) {
	type plain Category
	p := plain(c)
	if p.Grades == nil {
		p.Grades = []float64{}
	}
	return json.Marshal(p)
}

// MarshalJSON keeps categories encoded as an object.
func (c Course) MarshalJSON() ([]byte, error) {
	type plain Course
	p := plain(c)
	if p.Categories == nil {
		p.Categories = map[string]*Category{}
	}
	return json.Marshal(p)
}

// ValidateName trims and checks a year, course or category name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// ValidateNumber rejects values that cannot be persisted.
func ValidateNumber(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidNumber
	}
	return nil
}

// ValidateTarget accepts an absent target or any finite number.
func ValidateTarget(target *float64) error {
	if target == nil {
		return nil
	}
	return ValidateNumber(*target)
}

// ValidateWeight checks a single category weight in isolation.
func ValidateWeight(w float64) error {
	if err := ValidateNumber(w); err != nil {
		return err
	}
	if w < 0 {
		return ErrInvalidWeight
	}
	return nil
}

// TotalWeight sums the weights of all categories in the course, in sorted
// name order so the result does not depend on map iteration.
func (c *Course) TotalWeight() float64 {
	var total float64
	for _, name := range c.CategoryNames() {
		total += c.Categories[name].Weight
	}
	return total
}

// CheckNewWeight reports whether a category of the given weight still fits in
// the course. Only called when a category is created; existing categories are
// never re-checked.
func (c *Course) CheckNewWeight(w float64) error {
	if err := ValidateWeight(w); err != nil {
		return err
	}
	if c.TotalWeight()+w > MaxTotalWeight {
		return ErrWeightLimitExceeded
	}
	return nil
}

// CategoryNames returns the category names sorted.
func (c *Course) CategoryNames() []string {
	return sortedKeys(c.Categories)
}

// CourseNames returns the course names of the year sorted.
func (y Year) CourseNames() []string {
	return sortedKeys(y)
}

// YearLabels returns the year labels sorted.
func (d Data) YearLabels() []string {
	return sortedKeys(d)
}

// Clone returns a deep copy of the category.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	grades := make([]float64, len(c.Grades))
	copy(grades, c.Grades)
	return &Category{Weight: c.Weight, Grades: grades}
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := NewCourse(nil)
	if c.Target != nil {
		t := *c.Target
		out.Target = &t
	}
	for name, cat := range c.Categories {
		out.Categories[name] = cat.Clone()
	}
	return out
}

// Clone returns a deep copy of the year.
func (y Year) Clone() Year {
	out := make(Year, len(y))
	for name, c := range y {
		out[name] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the whole store.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for label, y := range d {
		out[label] = y.Clone()
	}
	return out
}

// Normalize fills nil maps and slices left by a decoded document so the
// store can be mutated without further nil checks.
func (d Data) Normalize() {
	for label, y := range d {
		if y == nil {
			y = Year{}
			d[label] = y
		}
		for name, c := range y {
			if c == nil {
				c = NewCourse(nil)
				y[name] = c
			}
			if c.Categories == nil {
				c.Categories = map[string]*Category{}
			}
			for cname, cat := range c.Categories {
				if cat == nil {
					cat = NewCategory(0)
					c.Categories[cname] = cat
				}
				if cat.Grades == nil {
					cat.Grades = []float64{}
				}
			}
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns a pointer to v; handy for optional targets.
func Float(v float64) *float64 {
	return &v
}

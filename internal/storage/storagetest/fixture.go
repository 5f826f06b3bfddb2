// Package storagetest holds fixtures shared by the backend tests.
package storagetest

import "gradetracker/internal/core"

// Sample returns a grade book that exercises every field of the format:
// absent and present targets, empty and ordered grade lists, empty years.
func Sample() core.Data {
	return core.Data{
		"First Year": core.Year{
			"Math": &core.Course{
				Target: core.Float(90),
				Categories: map[string]*core.Category{
					"Homework": {Weight: 30, Grades: []float64{100, 80, 90.5}},
					"Exams":    {Weight: 70, Grades: []float64{}},
				},
			},
			"History": &core.Course{
				Target:     nil,
				Categories: map[string]*core.Category{},
			},
		},
		"Second Year": core.Year{
			"Physics": &core.Course{
				Target: core.Float(72.5),
				Categories: map[string]*core.Category{
					"Labs": {Weight: 25, Grades: []float64{60, 95, 70, 88}},
				},
			},
		},
		"Third Year": core.Year{},
	}
}

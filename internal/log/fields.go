package log

import "gradetracker/internal/core"

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldYear      = "year"
	FieldCourse    = "course"
	FieldCategory  = "category"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldQueue     = "queue"
	FieldExchange  = "exchange"
	FieldRows      = "rows"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithChange adds the fields describing a grade book change. Empty course
// and category names are left out.
func (f LogFields) WithChange(c core.Change) LogFields {
	f[FieldOperation] = string(c.Operation)
	f[FieldYear] = c.Year
	if c.Course != "" {
		f[FieldCourse] = c.Course
	}
	if c.Category != "" {
		f[FieldCategory] = c.Category
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

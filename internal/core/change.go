package core

// Operation names the mutation that changed the grade book.
type Operation string

const (
	OpAddYear        Operation = "add_year"
	OpDeleteYear     Operation = "delete_year"
	OpAddCourse      Operation = "add_course"
	OpDeleteCourse   Operation = "delete_course"
	OpSetTarget      Operation = "set_target"
	OpAddCategory    Operation = "add_category"
	OpDeleteCategory Operation = "delete_category"
	OpAddGrade       Operation = "add_grade"
	OpDeleteGrade    Operation = "delete_grade"
)

// Change describes one persisted mutation. Course and Category are empty
// when the operation does not concern them.
type Change struct {
	Operation Operation
	Year      string
	Course    string
	Category  string
}

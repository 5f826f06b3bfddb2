// Package terminal is a line-oriented front end for the grade tracker.
//
// Console implements the session collaborators on top of an io.Reader and an
// io.Writer: prompts read one line (an empty line cancels), notifications and
// course breakdowns are printed as plain text.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gradetracker/internal/core"
	"gradetracker/internal/session"
)

var (
	_ session.Prompter = (*Console)(nil)
	_ session.Display  = (*Console)(nil)
	_ session.Notifier = (*Console)(nil)
)

type Console struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// readLine returns the next trimmed input line; ok is false at end of input.
func (c *Console) readLine() (string, bool) {
	if c.eof {
		return "", false
	}
	if !c.in.Scan() {
		c.eof = true
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// AskString prints the prompt and reads a line. An empty line cancels.
func (c *Console) AskString(title, prompt string) (string, bool) {
	c.printf("%s - %s ", title, prompt)
	line, ok := c.readLine()
	if !ok || line == "" {
		return "", false
	}
	return line, true
}

// AskFloat reads a number, asking again on invalid input. An empty line
// cancels.
func (c *Console) AskFloat(title, prompt string) (float64, bool) {
	for {
		c.printf("%s - %s ", title, prompt)
		line, ok := c.readLine()
		if !ok || line == "" {
			return 0, false
		}
		v, err := core.ParseNumber(line)
		if err == nil {
			return v, true
		}
		c.printf("Not a valid number: %q\n", line)
	}
}

// Confirm accepts y or yes (any case); anything else declines.
func (c *Console) Confirm(title, prompt string) bool {
	c.printf("%s - %s [y/N] ", title, prompt)
	line, ok := c.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *Console) Warn(title, msg string) {
	c.printf("[warning] %s: %s\n", title, msg)
}

func (c *Console) Error(title, msg string) {
	c.printf("[error] %s: %s\n", title, msg)
}

func (c *Console) ShowYears(years []string, selected string) {
	c.printf("Years:\n")
	printList(c.out, years, selected, "(no years)")
}

func (c *Console) ShowCourses(courses []string, selected string) {
	c.printf("Courses:\n")
	printList(c.out, courses, selected, "(no courses)")
}

func (c *Console) ShowCourse(name string, summary *core.CourseSummary) {
	if summary == nil {
		c.printf("Select a course\n")
		return
	}
	c.printf("%s", RenderCourse(name, *summary))
}

func printList(w io.Writer, items []string, selected, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, item := range items {
		marker := " "
		if item == selected {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s\n", marker, item)
	}
}

// RenderCourse formats a course breakdown: title, summary lines, then one
// block per category with its grades numbered from 1.
func RenderCourse(name string, s core.CourseSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", name, s.Text())
	if len(s.Categories) == 0 {
		b.WriteString("  (no categories)\n")
	}
	for _, cat := range s.Categories {
		fmt.Fprintf(&b, "  %s (%s%%)", cat.Name, core.FormatNumber(cat.Weight))
		if cat.Graded {
			fmt.Fprintf(&b, "  avg %s", core.FormatPercent(cat.Average))
		}
		b.WriteString("\n")
		if len(cat.Grades) == 0 {
			b.WriteString("    (no grades)\n")
			continue
		}
		b.WriteString("   ")
		for i, g := range cat.Grades {
			fmt.Fprintf(&b, " [%d] %s", i+1, core.FormatNumber(g))
		}
		b.WriteString("\n")
	}
	return b.String()
}

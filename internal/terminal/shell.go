package terminal

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"gradetracker/internal/session"
)

const helpText = `Commands:
  years                     list years
  year add                  add a year and select it
  year use <label>          select a year
  year rm                   delete the selected year
  courses                   list courses of the selected year
  course add                add a course to the selected year
  course use <name>         select a course
  course rm                 delete the selected course
  target [clear]            set or clear the selected course's target
  cat add                   add a category to the selected course
  cat rm <name>             delete a category
  grade add <category>      add a grade
  grade rm <category> <n>   delete the n-th grade (1-based)
  show                      show the selected course
  help                      show this help
  quit                      exit
`

// Shell reads commands from the console and dispatches them to a session.
type Shell struct {
	console *Console
	sess    *session.Session
}

func NewShell(console *Console, sess *session.Session) *Shell {
	return &Shell{console: console, sess: sess}
}

// Run processes commands until quit, end of input or context cancellation.
// Only persistence failures are returned; everything else is reported to
// the user and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	s.console.printf("Grade Tracker - type 'help' for commands.\n")
	s.sess.Refresh()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.console.printf("> ")
		line, ok := s.console.readLine()
		if !ok {
			s.console.printf("\n")
			return nil
		}
		if line == "" {
			continue
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line. quit is true for the quit command.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	// Names keep their inner spacing, so arguments come from the raw line.
	rest := func(from int) string {
		return afterTokens(line, 1+from)
	}
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		s.console.printf("%s", helpText)
	case "years", "courses", "show":
		s.sess.Refresh()
	case "year":
		switch sub {
		case "add":
			return false, s.sess.AddYear(ctx)
		case "use":
			s.requireArg(rest(1), "year use <label>", s.sess.SelectYear)
		case "rm", "delete":
			return false, s.sess.DeleteYear(ctx)
		default:
			s.usage("year add|use|rm")
		}
	case "course":
		switch sub {
		case "add":
			return false, s.sess.AddCourse(ctx)
		case "use":
			s.requireArg(rest(1), "course use <name>", s.sess.SelectCourse)
		case "rm", "delete":
			return false, s.sess.DeleteCourse(ctx)
		default:
			s.usage("course add|use|rm")
		}
	case "target":
		if sub == "clear" {
			return false, s.sess.ClearTarget(ctx)
		}
		return false, s.sess.SetTarget(ctx)
	case "cat", "category":
		switch sub {
		case "add":
			return false, s.sess.AddCategory(ctx)
		case "rm", "delete":
			name := rest(1)
			if name == "" {
				s.usage("cat rm <name>")
				return false, nil
			}
			return false, s.sess.DeleteCategory(ctx, name)
		default:
			s.usage("cat add|rm")
		}
	case "grade":
		switch sub {
		case "add":
			name := rest(1)
			if name == "" {
				s.usage("grade add <category>")
				return false, nil
			}
			return false, s.sess.AddGrade(ctx, name)
		case "rm", "delete":
			arg := rest(1)
			cut := strings.LastIndexFunc(arg, unicode.IsSpace)
			if cut < 0 {
				s.usage("grade rm <category> <n>")
				return false, nil
			}
			n, convErr := strconv.Atoi(arg[cut+1:])
			if convErr != nil {
				s.usage("grade rm <category> <n>")
				return false, nil
			}
			name := strings.TrimRightFunc(arg[:cut], unicode.IsSpace)
			return false, s.sess.DeleteGrade(ctx, name, n-1)
		default:
			s.usage("grade add|rm")
		}
	default:
		s.console.printf("Unknown command %q - type 'help'.\n", cmd)
	}
	return false, nil
}

// afterTokens drops the first n whitespace-separated tokens of line and
// returns the remainder with its inner spacing intact.
func afterTokens(line string, n int) string {
	rem := strings.TrimLeftFunc(line, unicode.IsSpace)
	for i := 0; i < n; i++ {
		end := strings.IndexFunc(rem, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rem = strings.TrimLeftFunc(rem[end:], unicode.IsSpace)
	}
	return strings.TrimRightFunc(rem, unicode.IsSpace)
}

func (s *Shell) requireArg(arg, usage string, fn func(string)) {
	if arg == "" {
		s.usage(usage)
		return
	}
	fn(arg)
}

func (s *Shell) usage(u string) {
	s.console.printf("Usage: %s\n", u)
}

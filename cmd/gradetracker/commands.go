package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gradetracker/internal/backend"
	"gradetracker/internal/cli"
	"gradetracker/internal/core"
	"gradetracker/internal/services"
	"gradetracker/internal/session"
	"gradetracker/internal/sheets"
	gsheet "gradetracker/internal/sheets/google"
	sheetsmem "gradetracker/internal/sheets/memory"
	"gradetracker/internal/terminal"
)

// NewRootCommand creates the gradetracker command tree. Without a
// subcommand it starts the interactive shell.
func NewRootCommand() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:          "gradetracker",
		Short:        "Track weighted course grades by school year",
		Long:         "Record grades per course category, see the current weighted grade and the average still needed to reach a target.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.file, "file", "", "grades JSON file (implies --backend file)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", fmt.Sprintf("storage backend %v", backend.GetBackendTypeStrings()))

	root.AddCommand(
		NewShellCommand(&opts),
		NewSummaryCommand(&opts),
		NewExportCommand(&opts),
	)
	return root
}

// NewShellCommand creates the shell command
func NewShellCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive grade tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, *opts)
		},
	}
}

// NewSummaryCommand creates the summary command
func NewSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [year] [course]",
		Short: "Print course summaries",
		Long:  "Print the breakdown of every course, the courses of one year, or a single course.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()
			return printSummaries(cmd.OutOrStdout(), a, args)
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every year's summary to Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := cli.SignalContext(cmd.Context(), a.logger)
			defer cancel()

			var writer sheets.SummaryWriter
			var recorder *sheetsmem.Writer
			switch {
			case dryRun:
				recorder = sheetsmem.New()
				writer = recorder
			case !a.cfg.ExportEnabled():
				return errors.New("export needs GOOGLE_SPREADSHEET_ID (or use --dry-run)")
			default:
				client, err := gsheet.New(ctx, a.cfg.GoogleSpreadsheetID)
				if err != nil {
					return err
				}
				writer = client
			}

			data := a.store.Snapshot()
			svc := services.NewExportService(writer, a.cfg.ExportConcurrency)
			if err := svc.ExportAll(ctx, data); err != nil {
				return err
			}

			if recorder != nil {
				return printRows(cmd.OutOrStdout(), recorder)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d year(s).\n", len(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rows instead of writing them")
	return cmd
}

func runShell(cmd *cobra.Command, opts options) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, opts, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	console := terminal.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	sess := session.New(a.store, console, console, console)
	return terminal.NewShell(console, sess).Run(ctx)
}

func printSummaries(w io.Writer, a *app, args []string) error {
	years := a.store.Years()
	if len(args) > 0 {
		if !a.store.HasYear(args[0]) {
			return fmt.Errorf("%q: %w", args[0], core.ErrYearNotFound)
		}
		years = []string{args[0]}
	}

	for i, year := range years {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", year)

		courses, err := a.store.Courses(year)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			courses = []string{args[1]}
		}
		if len(courses) == 0 {
			fmt.Fprintln(w, "(no courses)")
		}
		for _, course := range courses {
			s, err := a.store.Summary(year, course)
			if err != nil {
				return fmt.Errorf("%q: %w", course, err)
			}
			fmt.Fprint(w, terminal.RenderCourse(course, s))
		}
	}
	return nil
}

func printRows(w io.Writer, rec *sheetsmem.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, year := range rec.Years() {
		rows, _ := rec.Year(year)
		fmt.Fprintf(tw, "== %s ==\n", year)
		for i, h := range sheets.Header {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, h)
		}
		fmt.Fprintln(tw)
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Course,
				optionalPercent(r.Target),
				core.FormatPercent(r.CurrentScore),
				core.FormatNumber(r.GradedWeight),
				core.FormatNumber(r.RemainingWeight),
				optionalPercent(r.Needed))
		}
	}
	return tw.Flush()
}

func optionalPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return core.FormatPercent(*v)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/watcher"
)

var flagWatch bool

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"board", "summary"},
	Short:   "Show the project dashboard",
	Long: `Displays the dashboard: project counts per status, how many open projects
are at risk or delayed, and one row per project with its progress.

Use --watch to keep the display live-updating. The dashboard re-renders
whenever the storage changes on disk (e.g., from another terminal).
Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	addFilterFlags(dashboardCmd)
	dashboardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the dashboard on storage changes")
	dashboardCmd.Flags().String("group-by", "", "group dashboard by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	location, err := renderDashboard(cmd, groupBy)
	if err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchDashboard(cmd, groupBy, location)
}

// renderDashboard loads a fresh session, prints the dashboard and returns
// the storage location for the watcher.
func renderDashboard(cmd *cobra.Command, groupBy string) (string, error) {
	var location string
	err := withSession(false, func(s *session) error {
		location = s.store.Location()
		projects, err := selectProjects(cmd, s)
		if err != nil {
			return err
		}
		ref := s.engine.Today()

		if groupBy != "" {
			grouped := board.GroupBy(projects, groupBy, ref)
			switch outputFormat() {
			case output.FormatJSON:
				return output.JSON(os.Stdout, grouped)
			case output.FormatCompact:
				output.GroupedCompact(os.Stdout, grouped)
			default:
				output.GroupedTable(os.Stdout, grouped)
			}
			return nil
		}

		summary := board.Summary(s.cfg.Name, projects, ref)
		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, summary)
		case output.FormatCompact:
			output.DashboardCompact(os.Stdout, summary)
		default:
			output.DashboardTable(os.Stdout, summary)
		}
		return nil
	})
	return location, err
}

func watchDashboard(cmd *cobra.Command, groupBy, location string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.ForStorage(location, func() {
		clearScreen()
		if _, renderErr := renderDashboard(cmd, groupBy); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering dashboard: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}

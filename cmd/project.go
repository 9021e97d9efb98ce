package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Create, inspect and change projects",
	Long: `Projects are referenced by id, by a unique id prefix (as shown in listings),
or by their name.`,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long:    `Lists projects with their progress and schedule, with optional filtering and sorting.`,
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show PROJECT",
	Short: "Show a project with its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

func init() {
	addFilterFlags(projectListCmd)
	projectListCmd.Flags().IntP("limit", "n", 0, "limit number of results")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}

// addFilterFlags registers the project filter and sort flags shared by
// list and dashboard.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	cmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	cmd.Flags().StringSlice("schedule", nil, "filter by schedule (on_track, at_risk, delayed)")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("owner", "", "filter by owner")
	cmd.Flags().StringP("search", "s", "", "search name, description and owner (case-insensitive)")
	cmd.Flags().String("sort", "", "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	cmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
}

// selectProjects applies the filter and sort flags to the snapshot.
func selectProjects(cmd *cobra.Command, s *session) ([]project.Project, error) {
	statusArgs, _ := cmd.Flags().GetStringSlice("status")
	priorityArgs, _ := cmd.Flags().GetStringSlice("priority")
	scheduleArgs, _ := cmd.Flags().GetStringSlice("schedule")
	category, _ := cmd.Flags().GetString("category")
	owner, _ := cmd.Flags().GetString("owner")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")

	opts := board.FilterOptions{
		Search:   search,
		Category: category,
		Owner:    owner,
		Ref:      s.engine.Today(),
	}
	for _, arg := range statusArgs {
		st, err := project.ParseStatus(arg)
		if err != nil {
			return nil, err
		}
		opts.Statuses = append(opts.Statuses, st)
	}
	for _, arg := range priorityArgs {
		p, err := project.ParsePriority(arg)
		if err != nil {
			return nil, err
		}
		opts.Priorities = append(opts.Priorities, p)
	}
	for _, arg := range scheduleArgs {
		sc := board.Schedule(strings.ReplaceAll(strings.ToLower(arg), "-", "_"))
		if !slices.Contains(board.Schedules, sc) {
			return nil, clierr.Newf(clierr.InvalidInput, "invalid schedule %q", arg).
				WithDetails(map[string]any{"allowed": board.Schedules})
		}
		opts.Schedules = append(opts.Schedules, sc)
	}
	if sortBy != "" && !slices.Contains(board.ValidSortFields(), sortBy) {
		return nil, clierr.Newf(clierr.InvalidSortField, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}

	projects := board.Filter(s.engine.Snapshot(), opts)
	if sortBy != "" {
		board.Sort(projects, sortBy, reverse)
	}
	return projects, nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	return withSession(false, func(s *session) error {
		projects, err := selectProjects(cmd, s)
		if err != nil {
			return err
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(projects) > limit {
			projects = projects[:limit]
		}

		rows := make([]board.ProjectRow, 0, len(projects))
		for _, p := range projects {
			rows = append(rows, board.Row(p, s.engine.Today()))
		}

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, rows)
		case output.FormatCompact:
			output.ProjectCompact(os.Stdout, rows)
		default:
			output.ProjectTable(os.Stdout, rows)
		}
		return nil
	})
}

// projectDetail is the JSON form of project show.
type projectDetail struct {
	project.Project
	Progress int            `json:"progress"`
	Schedule board.Schedule `json:"schedule"`
}

func runProjectShow(_ *cobra.Command, args []string) error {
	return withSession(false, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}
		ref := s.engine.Today()

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, projectDetail{
				Project:  p,
				Progress: board.CompletionPercentage(p.Tasks),
				Schedule: board.ProjectSchedule(p, ref),
			})
		case output.FormatCompact:
			output.ProjectDetailCompact(os.Stdout, p, ref)
		default:
			output.ProjectDetail(os.Stdout, p, ref)
		}
		return nil
	})
}

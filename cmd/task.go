package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Add, move and change tasks",
	Long: `Tasks belong to a project. Every task change derives the project's status
and completion date again. Tasks are referenced by id or a unique id prefix.`,
}

var taskListCmd = &cobra.Command{
	Use:     "list PROJECT",
	Aliases: []string{"ls"},
	Short:   "List the tasks of a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskList,
}

func init() {
	taskListCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	taskCmd.AddCommand(taskListCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	statusArgs, _ := cmd.Flags().GetStringSlice("status")
	statuses := make([]project.Status, 0, len(statusArgs))
	for _, arg := range statusArgs {
		st, err := project.ParseStatus(arg)
		if err != nil {
			return err
		}
		statuses = append(statuses, st)
	}

	return withSession(false, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}
		tasks := board.FilterTasks(p.Tasks, statuses)
		if tasks == nil {
			tasks = []project.Task{}
		}

		switch outputFormat() {
		case output.FormatJSON:
			return output.JSON(os.Stdout, tasks)
		case output.FormatCompact:
			output.TaskCompact(os.Stdout, tasks, s.engine.Today())
		default:
			output.TaskTable(os.Stdout, tasks, s.engine.Today())
		}
		return nil
	})
}

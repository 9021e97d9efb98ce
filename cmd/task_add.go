package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var taskAddCmd = &cobra.Command{
	Use:     "add PROJECT NAME",
	Aliases: []string{"create", "new"},
	Short:   "Add a task to a project",
	Long:    `Adds a todo task to the project. A completed project is reopened.`,
	Args:    cobra.ExactArgs(2), //nolint:mnd // project and name
	RunE:    runTaskAdd,
}

func init() {
	taskAddCmd.Flags().String("description", "", "task description")
	taskAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD, required)")
	taskAddCmd.Flags().SetNormalizeFunc(normalizeFieldFlags)
	taskCmd.AddCommand(taskAddCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	due, _, err := dateFlag(cmd, "due")
	if err != nil {
		return err
	}
	form := project.TaskForm{Name: args[1], DueDate: due}
	form.Description, _ = cmd.Flags().GetString("description")
	if err := form.Validate(); err != nil {
		return err
	}

	return withSession(true, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}
		res, err := s.engine.Dispatch(tracker.CreateTask{ProjectID: p.ID, Form: form})
		if err != nil {
			return err
		}
		t, _ := res.Task()
		return printMutation(s, res, t, "Added task %s to %s: %s", output.ShortID(t.ID), p.Name, t.Name)
	})
}

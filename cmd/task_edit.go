package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var taskEditCmd = &cobra.Command{
	Use:   "edit TASK",
	Short: "Edit a task",
	Long:  `Modifies the name, description or due date of a task. Use 'task move' to change its status.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

func init() {
	taskEditCmd.Flags().String("name", "", "new name")
	taskEditCmd.Flags().String("description", "", "new description")
	taskEditCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	taskEditCmd.Flags().SetNormalizeFunc(normalizeFieldFlags)
	taskCmd.AddCommand(taskEditCmd)
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	patch := project.TaskPatch{
		Name:        stringFlag(cmd, "name"),
		Description: stringFlag(cmd, "description"),
	}
	due, ok, err := dateFlag(cmd, "due")
	if err != nil {
		return err
	}
	if ok {
		patch.DueDate = &due
	}
	if patch.IsEmpty() {
		return clierr.New(clierr.NoChanges, "no changes specified")
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	return withSession(true, func(s *session) error {
		p, t, err := tracker.FindTask(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}
		res, err := s.engine.Dispatch(tracker.UpdateTask{ProjectID: p.ID, TaskID: t.ID, Patch: patch})
		if err != nil {
			return err
		}
		updated, _ := res.Task()
		return printMutation(s, res, updated, "Updated task %s: %s (%s)",
			output.ShortID(updated.ID), updated.Name, res.Detail)
	})
}

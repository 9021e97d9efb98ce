package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var taskDeleteCmd = &cobra.Command{
	Use:     "delete TASK",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Removes a task from its project. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

func init() {
	taskDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	taskCmd.AddCommand(taskDeleteCmd)
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	return withSession(true, func(s *session) error {
		p, t, err := tracker.FindTask(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}

		if !yes {
			ok, err := confirm(fmt.Sprintf("Delete task %q from %s?", t.Name, p.Name))
			if err != nil || !ok {
				return err
			}
		}

		res, err := s.engine.Dispatch(tracker.DeleteTask{ProjectID: p.ID, TaskID: t.ID})
		if err != nil {
			return err
		}
		return printMutation(s, res, map[string]any{"id": t.ID, "name": t.Name, "project_id": p.ID},
			"Deleted task %s: %s", output.ShortID(t.ID), t.Name)
	})
}

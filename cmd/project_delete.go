package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var projectDeleteCmd = &cobra.Command{
	Use:     "delete PROJECT",
	Aliases: []string{"rm"},
	Short:   "Delete a project and its tasks",
	Long:    `Removes a project together with all of its tasks. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

func init() {
	projectDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	return withSession(true, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}

		if !yes {
			prompt := fmt.Sprintf("Delete project %q and its %d tasks?", p.Name, len(p.Tasks))
			ok, err := confirm(prompt)
			if err != nil || !ok {
				return err
			}
		}

		res, err := s.engine.Dispatch(tracker.DeleteProject{ID: p.ID})
		if err != nil {
			return err
		}
		return printMutation(s, res, map[string]any{"id": p.ID, "name": p.Name, "tasks": len(p.Tasks)},
			"Deleted project %s: %s (%d tasks)", output.ShortID(p.ID), p.Name, len(p.Tasks))
	})
}

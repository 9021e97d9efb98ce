package cmd

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var taskMoveCmd = &cobra.Command{
	Use:   "move TASK [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Provide the new status directly (todo,
in_progress, completed), or use --next/--prev to move along the workflow.
The project's status and completion date follow.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runTaskMove,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done TASK",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveTask(args[0], func(project.Status) (project.Status, error) {
			return project.StatusCompleted, nil
		})
	},
}

func init() {
	taskMoveCmd.Flags().Bool("next", false, "move to next status")
	taskMoveCmd.Flags().Bool("prev", false, "move to previous status")
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDoneCmd)
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	project.Task
	Changed bool `json:"changed"`
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	return moveTask(args[0], func(current project.Status) (project.Status, error) {
		return resolveTargetStatus(args, next, prev, current)
	})
}

// resolveTargetStatus picks the target from the positional status or the
// --next/--prev flags.
func resolveTargetStatus(args []string, next, prev bool, current project.Status) (project.Status, error) {
	given := 0
	for _, set := range []bool{len(args) > 1, next, prev} {
		if set {
			given++
		}
	}
	if given != 1 {
		return "", clierr.New(clierr.InvalidInput, "provide exactly one of STATUS, --next or --prev")
	}
	if len(args) > 1 {
		return project.ParseStatus(args[1])
	}

	idx := slices.Index(project.Statuses, current)
	if next {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(project.Statuses) {
		return "", clierr.Newf(clierr.InvalidStatus, "task is already %s; cannot move further", current).
			WithDetails(map[string]any{"status": current})
	}
	return project.Statuses[idx], nil
}

func moveTask(ref string, target func(project.Status) (project.Status, error)) error {
	return withSession(true, func(s *session) error {
		p, t, err := tracker.FindTask(s.engine.Snapshot(), ref)
		if err != nil {
			return err
		}
		to, err := target(t.Status)
		if err != nil {
			return err
		}

		// Idempotent: same status, nothing to save.
		if to == t.Status {
			if outputFormat() == output.FormatJSON {
				return output.JSON(os.Stdout, moveResult{Task: t, Changed: false})
			}
			output.Messagef(os.Stdout, "Task %s is already %s", output.ShortID(t.ID), t.Status)
			return nil
		}

		res, err := s.engine.Dispatch(tracker.SetTaskStatus{ProjectID: p.ID, TaskID: t.ID, Status: to})
		if err != nil {
			return err
		}
		moved, _ := res.Task()
		after, _ := res.Project()
		return printMutation(s, res, moveResult{Task: moved, Changed: true},
			"Moved task %s: %s -> %s (project %s is now %s)",
			output.ShortID(t.ID), t.Status, moved.Status, after.Name, after.Status)
	})
}

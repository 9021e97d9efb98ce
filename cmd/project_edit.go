package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var projectEditCmd = &cobra.Command{
	Use:   "edit PROJECT",
	Short: "Edit a project",
	Long: `Modifies fields of an existing project. Only specified fields are changed.
Status is derived from tasks; use 'project status' to override it.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectEdit,
}

var projectStatusCmd = &cobra.Command{
	Use:   "status PROJECT STATUS",
	Short: "Override a project's status",
	Long: `Sets the project status directly (todo, in_progress, completed). The override
holds until the next task change in the project, which derives the status again.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // project and status
	RunE: runProjectStatus,
}

func init() {
	projectEditCmd.Flags().String("name", "", "new name")
	projectEditCmd.Flags().String("description", "", "new description (markdown)")
	projectEditCmd.Flags().String("owner", "", "new owner")
	projectEditCmd.Flags().String("priority", "", "new priority")
	projectEditCmd.Flags().String("category", "", "new category")
	projectEditCmd.Flags().String("start", "", "new start date (YYYY-MM-DD)")
	projectEditCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	projectEditCmd.Flags().SetNormalizeFunc(normalizeFieldFlags)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectStatusCmd)
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	return withSession(true, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}

		patch, err := projectPatchFromFlags(cmd, p)
		if err != nil {
			return err
		}

		res, err := s.engine.Dispatch(tracker.UpdateProject{ID: p.ID, Patch: patch})
		if err != nil {
			return err
		}
		updated, _ := res.Project()
		return printMutation(s, res, updated, "Updated project %s: %s (%s)",
			output.ShortID(updated.ID), updated.Name, res.Detail)
	})
}

// projectPatchFromFlags builds a patch from the given flags and checks the
// resulting date range against the current project.
func projectPatchFromFlags(cmd *cobra.Command, current project.Project) (project.ProjectPatch, error) {
	patch := project.ProjectPatch{
		Name:        stringFlag(cmd, "name"),
		Description: stringFlag(cmd, "description"),
		Owner:       stringFlag(cmd, "owner"),
		Category:    stringFlag(cmd, "category"),
	}
	if v := stringFlag(cmd, "priority"); v != nil {
		p, err := project.ParsePriority(*v)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	start, ok, err := dateFlag(cmd, "start")
	if err != nil {
		return patch, err
	}
	if ok {
		patch.StartDate = &start
	}
	due, ok, err := dateFlag(cmd, "due")
	if err != nil {
		return patch, err
	}
	if ok {
		patch.DueDate = &due
	}

	if patch.IsEmpty() {
		return patch, clierr.New(clierr.NoChanges, "no changes specified")
	}
	if err := patch.Validate(); err != nil {
		return patch, err
	}

	merged := current
	patch.Apply(&merged)
	if err := project.ValidateDateRange(merged.StartDate, merged.DueDate); err != nil {
		return patch, err
	}
	return patch, nil
}

func runProjectStatus(_ *cobra.Command, args []string) error {
	status, err := project.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return withSession(true, func(s *session) error {
		p, err := tracker.FindProject(s.engine.Snapshot(), args[0])
		if err != nil {
			return err
		}
		res, err := s.engine.Dispatch(tracker.SetProjectStatus{ID: p.ID, Status: status})
		if err != nil {
			return err
		}
		updated, _ := res.Project()
		return printMutation(s, res, updated, "Project %s: %s -> %s",
			output.ShortID(p.ID), p.Status, updated.Status)
	})
}

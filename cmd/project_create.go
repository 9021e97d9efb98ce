package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

var projectCreateCmd = &cobra.Command{
	Use:     "create [NAME]",
	Aliases: []string{"add", "new"},
	Short:   "Create a new project",
	Long: `Creates a project with no tasks. Its status starts at todo and is derived
from its tasks from then on.

Name can be provided as a positional argument or via --name.
The start date defaults to today.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectCreate,
}

func init() {
	projectCreateCmd.Flags().String("name", "", "project name (alternative to positional argument)")
	projectCreateCmd.Flags().String("description", "", "project description (markdown)")
	projectCreateCmd.Flags().String("owner", "", "project owner (defaults to your user name)")
	projectCreateCmd.Flags().String("priority", "", "priority (high, medium, low; default from config)")
	projectCreateCmd.Flags().String("category", "", "category (default from config)")
	projectCreateCmd.Flags().String("start", "", "start date (YYYY-MM-DD, default today)")
	projectCreateCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	projectCreateCmd.Flags().SetNormalizeFunc(normalizeFieldFlags)
	projectCmd.AddCommand(projectCreateCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if len(args) > 0 {
		if name != "" {
			return clierr.New(clierr.InvalidInput, "provide the name as an argument or via --name, not both")
		}
		name = args[0]
	}

	return withSession(true, func(s *session) error {
		form, err := projectFormFromFlags(cmd, s, name)
		if err != nil {
			return err
		}

		res, err := s.engine.Dispatch(tracker.CreateProject{Form: form})
		if err != nil {
			return err
		}
		p, _ := res.Project()
		return printMutation(s, res, p, "Created project %s: %s", output.ShortID(p.ID), p.Name)
	})
}

func projectFormFromFlags(cmd *cobra.Command, s *session, name string) (project.ProjectForm, error) {
	form := project.ProjectForm{
		Name:      strings.TrimSpace(name),
		Priority:  project.Priority(s.cfg.Defaults.Priority),
		Category:  s.cfg.Defaults.Category,
		StartDate: s.engine.Today(),
	}
	form.Description, _ = cmd.Flags().GetString("description")
	form.Owner, _ = cmd.Flags().GetString("owner")
	if form.Owner == "" {
		if st, err := s.settings().Load(); err == nil {
			form.Owner = st.UserName
		}
	}
	if v := stringFlag(cmd, "priority"); v != nil {
		p, err := project.ParsePriority(*v)
		if err != nil {
			return form, err
		}
		form.Priority = p
	}
	if v := stringFlag(cmd, "category"); v != nil {
		form.Category = *v
	}

	start, ok, err := dateFlag(cmd, "start")
	if err != nil {
		return form, err
	}
	if ok {
		form.StartDate = start
	}
	due, _, err := dateFlag(cmd, "due")
	if err != nil {
		return form, err
	}
	form.DueDate = due

	if err := form.Validate(); err != nil {
		return form, err
	}
	if err := project.ValidateDateRange(form.StartDate, form.DueDate); err != nil {
		return form, err
	}
	return form, nil
}

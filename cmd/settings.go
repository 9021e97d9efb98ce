package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or change your user settings",
	Long: `Shows your name and initials. Your name is the default owner of new projects
and is shown in the interactive board.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change your name or initials",
	Long:  `Changing the name without --initials derives new initials from it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().String("name", "", "your name")
	settingsSetCmd.Flags().String("initials", "", "your initials")
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	return withSession(false, func(s *session) error {
		st, err := s.settings().Load()
		if err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, st)
		}
		output.SettingsTable(os.Stdout, st)
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	patch := settings.Patch{
		UserName:     stringFlag(cmd, "name"),
		UserInitials: stringFlag(cmd, "initials"),
	}
	if patch.UserName == nil && patch.UserInitials == nil {
		return clierr.New(clierr.NoChanges, "no changes specified (use --name or --initials)")
	}

	return withSession(true, func(s *session) error {
		store := s.settings()
		current, err := store.Load()
		if err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		updated := current.Apply(patch)
		if err := store.Save(updated); err != nil {
			return clierr.Newf(clierr.StorageUnavailable, "saving settings: %v", err).WithCause(err)
		}

		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, updated)
		}
		output.Messagef(os.Stdout, "Settings saved")
		output.SettingsTable(os.Stdout, updated)
		return nil
	})
}

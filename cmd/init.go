package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/config"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tracker",
	Long: `Creates a tracker directory with config.yml. Projects are stored as markdown
files by default; use --backend sqlite or --backend xlsx for a database or a workbook.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "tracker name (defaults to current directory name)")
	initCmd.Flags().String("backend", config.DefaultBackend,
		"storage backend ("+strings.Join(store.Backends(), ", ")+")")
	initCmd.Flags().String("storage-path", "", "storage location, relative to the tracker directory")
	initCmd.Flags().StringSlice("categories", nil, "comma-separated project categories")
	initCmd.Flags().String("user", "", "your name, shown in the interactive board")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.TrackerAlreadyExists, "tracker already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)
	cfg.Storage.Backend, _ = cmd.Flags().GetString("backend")
	cfg.Storage.Path, _ = cmd.Flags().GetString("storage-path")
	if categories, _ := cmd.Flags().GetStringSlice("categories"); len(categories) > 0 {
		cfg.Categories = categories
		cfg.Defaults.Category = categories[0]
	}

	if err := cfg.Validate(); err != nil {
		return wrapConfigErr(err)
	}

	const dirMode = 0o750
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating tracker directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if user, _ := cmd.Flags().GetString("user"); user != "" {
		if err := initSettings(cfg, user); err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"backend": cfg.Storage.Backend,
			"storage": cfg.StoragePath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized tracker %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Storage: %s (%s)", cfg.StoragePath(), cfg.Storage.Backend)
	output.Messagef(os.Stdout, "  Hint:    Create a project with: projtrack project create NAME")
	return nil
}

func initSettings(cfg *config.Config, user string) error {
	backend, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	st := openSettings(cfg, backend)
	current, err := st.Load()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if err := st.Save(current.Apply(settings.Patch{UserName: &user})); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

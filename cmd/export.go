package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
	"github.com/twiced-technology-gmbh/projtrack/internal/store/xlsxstore"
)

const (
	exportXLSX = "xlsx"
	exportJSON = "json"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all projects to a workbook or JSON",
	Long: `Writes every project with its tasks, plus your settings, to a file. The xlsx
format uses the same Projects/Tasks/Settings layout as the xlsx backend, so an
export can be used as the storage of another tracker.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "export format (xlsx, json); defaults to the --out extension")
	exportCmd.Flags().StringP("out", "o", "", "output file (json defaults to stdout)")
	rootCmd.AddCommand(exportCmd)
}

// exportDocument is the JSON export layout.
type exportDocument struct {
	Name     string            `json:"name"`
	Projects []project.Project `json:"projects"`
	Settings settings.Settings `json:"settings"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = exportJSON
		if strings.EqualFold(filepath.Ext(out), "."+exportXLSX) {
			format = exportXLSX
		}
	}
	format = strings.ToLower(format)
	if format != exportXLSX && format != exportJSON {
		return clierr.Newf(clierr.InvalidInput, "invalid --format %q; valid: %s, %s", format, exportXLSX, exportJSON)
	}
	if format == exportXLSX && out == "" {
		return clierr.New(clierr.InvalidInput, "--out is required for xlsx exports")
	}

	return withSession(false, func(s *session) error {
		st, err := s.settings().Load()
		if err != nil {
			logger.Logf("[WARN] exporting without settings: %v", err)
		}
		projects := s.engine.Snapshot()

		if format == exportXLSX {
			if err := xlsxstore.Export(out, projects, &st); err != nil {
				return clierr.Newf(clierr.StorageUnavailable, "exporting to %s: %v", out, err).WithCause(err)
			}
			return reportExport(out, format, len(projects))
		}

		doc := exportDocument{Name: s.cfg.Name, Projects: projects, Settings: st}
		if out == "" {
			return output.JSON(os.Stdout, doc)
		}
		f, err := os.Create(out) //nolint:gosec // user-chosen export path
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		if err := output.JSON(f, doc); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return reportExport(out, format, len(projects))
	})
}

func reportExport(path, format string, n int) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"path": path, "format": format, "projects": n})
	}
	output.Messagef(os.Stdout, "Exported %d projects to %s", n, path)
	return nil
}

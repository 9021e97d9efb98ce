package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/board"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Long:  `Lists the most recent mutations recorded in the tracker's activity log.`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)") //nolint:mnd // default page
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	entries, err := board.ReadLog(cfg.Dir(), limit)
	if err != nil {
		return fmt.Errorf("reading activity log: %w", err)
	}
	if entries == nil {
		entries = []board.LogEntry{}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, entries)
	}
	output.LogTable(os.Stdout, entries)
	return nil
}

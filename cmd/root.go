// Package cmd implements the projtrack CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/config"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

// logger receives diagnostics; it is replaced in PersistentPreRun.
var logger lgr.L = lgr.NoOp

var rootCmd = &cobra.Command{
	Use:   "projtrack",
	Short: "Track projects, tasks, progress and schedule risk",
	Long: `projtrack keeps a list of projects, each with its own tasks, and derives
project status, completion percentage and schedule risk from them.

Run projtrack without arguments to open the interactive board.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		logger = newLogger(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to tracker directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log diagnostics to stderr")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// newLogger returns the diagnostics logger. Warnings always reach stderr;
// debug lines only with --verbose.
func newLogger(verbose bool) lgr.L {
	if verbose {
		return lgr.New(lgr.Debug, lgr.Out(os.Stderr), lgr.Err(os.Stderr))
	}
	return lgr.New(lgr.Out(os.Stderr), lgr.Err(os.Stderr))
}

// resolveDir returns the tracker directory: --dir, else the nearest
// tracker/ above the working directory, else the per-user tracker.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}
	return config.UserDir()
}

// loadConfig finds and loads the tracker config. The per-user tracker is
// created on first use; any other missing tracker is an error.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, wrapConfigErr(err)
	}

	userDir, userErr := config.UserDir()
	if userErr != nil || dir != userDir {
		return nil, clierr.Newf(clierr.TrackerNotFound, "no tracker found in %s (run 'projtrack init')", dir).
			WithCause(err)
	}
	logger.Logf("[DEBUG] creating user tracker in %s", userDir)
	return config.LoadOrInit(userDir)
}

func wrapConfigErr(err error) error {
	if errors.Is(err, config.ErrInvalid) {
		return clierr.New(clierr.ValidationFailed, err.Error()).WithCause(err)
	}
	return err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

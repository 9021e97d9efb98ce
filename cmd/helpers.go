package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
	"github.com/twiced-technology-gmbh/projtrack/internal/output"
	"github.com/twiced-technology-gmbh/projtrack/internal/project"
	"github.com/twiced-technology-gmbh/projtrack/internal/tracker"
)

// normalizeFieldFlags maps flag aliases onto their canonical names.
func normalizeFieldFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "desc", "body":
		name = "description"
	case "due-date":
		name = "due"
	case "start-date":
		name = "start"
	case "title":
		name = "name"
	}
	return pflag.NormalizedName(name)
}

// dateFlag parses a YYYY-MM-DD flag value. ok is false when the flag was
// not given.
func dateFlag(cmd *cobra.Command, name string) (d date.Date, ok bool, err error) {
	if !cmd.Flags().Changed(name) {
		return date.Date{}, false, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	d, err = date.Parse(raw)
	if err != nil {
		return date.Date{}, true, project.InvalidDate(name+" date", raw, err)
	}
	return d, true, nil
}

// stringFlag returns a pointer to the flag value when the flag was given.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// caller must pass --yes.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}

// printMutation reports a successful engine mutation. The in-memory change
// stands even when saving failed, but the exit code is then 1.
func printMutation(s *session, res tracker.Result, data any, format string, args ...any) error {
	if outputFormat() == output.FormatJSON {
		err := output.JSON(os.Stdout, output.Mutation{
			Action:    string(res.Op),
			ProjectID: res.ProjectID,
			TaskID:    res.TaskID,
			Detail:    res.Detail,
			Saved:     s.saved,
			Data:      data,
		})
		if err != nil {
			return err
		}
	} else {
		output.Messagef(os.Stdout, format, args...)
	}
	if !s.saved {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// withSession opens a session, runs fn and closes the session.
func withSession(mutating bool, fn func(s *session) error) (err error) {
	s, err := openSession(mutating)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taoky/elblog/pkg/check"
)

var (
	errMalformed  = errors.New("malformed lines found")
	errUnreadable = errors.New("some files could not be read")
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Print malformed lines and the fields that failed to parse",
		Args:  cobra.MinimumNArgs(1),
	}
	config := check.DefaultConfig()
	config.InstallFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		checker, err := check.New(config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		var total check.Report
		for _, path := range args {
			r, err := checker.CheckPath(path)
			total.Add(r)
			if err != nil {
				total.Errors++
				fmt.Fprintln(cmd.ErrOrStderr(), "ERROR:", err)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d lines malformed, %d shown\n", total.Failures, total.Lines, total.Shown)
		if total.Shown > 0 {
			return errMalformed
		}
		if total.Errors > 0 {
			return errUnreadable
		}
		return nil
	}
	return cmd
}

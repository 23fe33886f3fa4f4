package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taoky/elblog/pkg/analyze"
	"github.com/taoky/elblog/pkg/util"
	"github.com/taoky/elblog/pkg/walk"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <directory>",
		Short: "Parse every log file below a directory and count the records",
		Args:  cobra.ExactArgs(1),
	}
	config := analyze.DefaultConfig()
	config.InstallFlags(cmd.Flags())
	var (
		brief      bool
		cpuProfile string
		memProfile string
	)
	cmd.Flags().BoolVarP(&brief, "brief", "b", false, "Only print the record count line")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile to this file")
	cmd.Flags().StringVar(&memProfile, "memprofile", "", "Write a heap profile to this file when done")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		analyzer, err := analyze.NewAnalyzer(config, analyze.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}

		run := func() error {
			summary, err := analyzer.Run(args[0])
			if err != nil {
				if walk.IsNotExist(err) {
					err = fmt.Errorf("no such log directory: %w", err)
				}
				// Partial counts are still worth seeing
				return errors.Join(err, analyzer.PrintSummary(summary, true))
			}
			return analyzer.PrintSummary(summary, brief)
		}
		if cpuProfile != "" {
			err = util.RunCPUProfile(cpuProfile, run)
		} else {
			err = run()
		}
		if err != nil {
			return err
		}
		if memProfile != "" {
			return util.MemProfile(memProfile)
		}
		return nil
	}
	return cmd
}

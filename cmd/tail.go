package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taoky/elblog/pkg/analyze"
	"github.com/taoky/elblog/pkg/parser"
	"github.com/taoky/elblog/pkg/systemd"
)

const statusInterval = 10000

// statusHandler reports progress to systemd every statusInterval lines.
type statusHandler struct {
	records, failures uint64
	notify            func(format string, v ...any) error
}

func (h *statusHandler) HandleRecord(parser.LogItem) {
	h.records++
	h.update()
}

func (h *statusHandler) HandleFailure(*parser.ParseError) {
	h.failures++
	h.update()
}

func (h *statusHandler) update() {
	if (h.records+h.failures)%statusInterval == 0 {
		h.notify("%d records, %d failures", h.records, h.failures)
	}
}

func tailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail <filename>",
		Short: "Follow a growing log file and report malformed lines",
		Args:  cobra.ExactArgs(1),
	}
	config := analyze.DefaultConfig()
	config.ShowErrors = true
	config.InstallFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&config.Whole, "whole", "w", config.Whole, "Parse the whole file before following (default: last 1 MiB)")
	var daemon bool
	cmd.Flags().BoolVar(&daemon, "daemon", false, "Send readiness and status notifications to systemd")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		filename := args[0]
		fmt.Fprintln(cmd.ErrOrStderr(), "Using log file:", filename)

		opts := []analyze.Option{analyze.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())}
		if daemon {
			opts = append(opts, analyze.WithHandler(&statusHandler{notify: systemd.NotifyStatus}))
		}
		analyzer, err := analyze.NewAnalyzer(config, opts...)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}

		iterator, t, err := analyzer.OpenTailIterator(filename)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer t.Cleanup()

		// SIGHUP reopens the log output, SIGINT and SIGTERM end the follow
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(c)
		go func() {
			for sig := range c {
				if sig != syscall.SIGHUP {
					if daemon {
						systemd.NotifyStopping()
					}
					t.Stop()
					return
				}
				if daemon {
					systemd.MustNotifyReloading()
				}
				if err := analyzer.OpenLogFile(); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "failed to reopen log file:", err)
				}
				if daemon {
					systemd.MustNotifyReady()
				}
			}
		}()

		if daemon {
			if err := systemd.NotifyReady(); err != nil {
				return fmt.Errorf("failed to notify systemd: %w", err)
			}
		}

		stats, err := analyzer.RunLoop(iterator)
		if err != nil {
			return fmt.Errorf("read %s: %w", filename, err)
		}
		return analyzer.PrintSummary(analyze.Summary{FileStats: stats, Files: 1}, true)
	}
	return cmd
}

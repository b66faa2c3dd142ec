package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/benchmarks/common"
	"github.com/zeu5/smartcab-rl/core"
)

var flags *common.Flags = common.DefaultFlags()

func AddFlags(cmd *cobra.Command) {
	flags.AddFlags(cmd.PersistentFlags())
}

// interruptContext is cancelled on Ctrl-C or when done is closed.
func interruptContext() (context.Context, chan struct{}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, doneCh
}

func reportResults(w io.Writer, results map[string]*core.ExperimentResult) error {
	for name, result := range results {
		fmt.Fprintf(w, "%s: trials=%d reached=%d deadline=%d errors=%d ticks=%d\n",
			name, result.TotalTrials, result.SuccessfulTrials, result.DeadlineTrials, result.ErrorTrials, result.TotalTicks)
		if result.IsError() {
			return fmt.Errorf("experiment %s: %w", name, result.Error)
		}
	}
	return nil
}

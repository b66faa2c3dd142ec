package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/benchmarks/smartcab"
	"github.com/zeu5/smartcab-rl/util"
)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run the learning agent for the configured number of trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			printer := util.NewTerminalPrinter(cmd.ErrOrStderr(), 100*time.Millisecond)
			progress := printer.NewOutput("")
			diagnostics := printer.NewOutput("last arrival")
			printer.Start(ctx)

			cmp := smartcab.PrepareLearningComparison(flags, diagnostics)
			results := cmp.Run(ctx, flags.NumRuns, smartcab.RunConfig(flags), progress)
			printer.Stop()

			return reportResults(cmd.OutOrStdout(), results)
		},
	}

	return cmd
}

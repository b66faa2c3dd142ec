package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/smartcab-rl/benchmarks/smartcab"
)

func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the learning agent against a random baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			cmp := smartcab.PrepareBaselineComparison(flags)
			results := cmp.Run(ctx, flags.NumRuns, smartcab.RunConfig(flags), flags.Parallelism)

			return reportResults(cmd.OutOrStdout(), results)
		},
	}

	return cmd
}

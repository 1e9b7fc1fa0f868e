package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/config"
	"github.com/balkashynov/llmlog/internal/format"
)

var (
	perfFilters    filterFlags
	perfPercentile string
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Show per-model call duration statistics",
	Long: `Show call count and min/avg/percentile/max duration in milliseconds for every
model in the timing log. The percentile defaults to the configured value (P90).

Example:
  llmlog perf --llm gpt --from 2024-03-01 --to 2024-03-31 --percentile p95`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		filter, err := perfFilters.filter()
		if err != nil {
			return err
		}

		percentile := a.cfg.Percentile
		if perfPercentile != "" {
			if percentile, err = config.ParsePercentile(perfPercentile); err != nil {
				return err
			}
		}

		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		reports, err := a.store.PerformanceReport(ctx, filter, percentile)
		if err != nil {
			return err
		}
		return format.WritePerformance(cmd.OutOrStdout(), reports, percentile, output)
	}),
}

func init() {
	perfFilters.register(perfCmd, false)
	perfCmd.Flags().StringVarP(&perfPercentile, "percentile", "p", "", "Percentile to report (0.9, 90, p90)")
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/format"
)

var (
	reviewFilters filterFlags
	exportFilters filterFlags
	exportOut     string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review rated interactions with the OK score",
	Long: `List interactions matching the filters in time order with prompt and response
previews, and the okay/not_okay tally. The OK score is okay / (okay + not_okay).

Example:
  llmlog review --model gpt-4o --situation greet_player`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		filter, err := reviewFilters.filter()
		if err != nil {
			return err
		}
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		result, err := a.store.Review(ctx, filter)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return format.WriteReview(out, result, output, format.TerminalWidth(out))
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reviewed interactions to CSV",
	Long: `Export the interactions matching the review filters as CSV with full prompt and
response text. Without --out the CSV goes to stdout.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		filter, err := exportFilters.filter()
		if err != nil {
			return err
		}
		result, err := a.store.Review(ctx, filter)
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			return format.WriteReviewCSV(cmd.OutOrStdout(), result.Items)
		}

		file, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := format.WriteReviewCSV(file, result.Items); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("close export file: %w", err)
		}

		a.logger.Info("review exported", "path", exportOut, "rows", len(result.Items))
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s interaction(s) to %s\n", humanize.Comma(int64(len(result.Items))), exportOut)
		return nil
	}),
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and situations",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		names, situations, err := a.store.ModelsAndSituations(ctx)
		if err != nil {
			return err
		}
		return format.WriteModels(cmd.OutOrStdout(), names, situations, output)
	}),
}

func init() {
	reviewFilters.register(reviewCmd, true)
	exportFilters.register(exportCmd, true)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output CSV file (default stdout)")
}

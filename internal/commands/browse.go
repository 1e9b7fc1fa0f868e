package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/format"
	"github.com/balkashynov/llmlog/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse sessions and annotate interactions interactively",
	Long: `Open the interactive session browser. Pick a session, page through its
interactions and rate or comment them. Changes are saved when you move to
another interaction, go back to the session list or quit.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		if !format.IsTerminal(cmd.OutOrStdout()) {
			return fmt.Errorf("browse needs an interactive terminal; use 'llmlog show' or 'llmlog annotate' instead")
		}

		result, err := tui.RunBrowser(ctx, a.store)
		if result.Saved > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d annotation(s)\n", result.Saved)
		}
		return err
	}),
}

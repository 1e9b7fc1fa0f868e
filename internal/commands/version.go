package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/db"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "llmlog %s (commit %s, built %s)\n", version, commit, date)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the database path and schema version",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		v, err := a.store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database: %s\nschema version: %d (current %d)\n", a.store.Path(), v, db.CurrentSchemaVersion)
		return nil
	}),
}

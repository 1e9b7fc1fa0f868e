package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/format"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"ls"},
	Short:   "List imported sessions",
	Long:    "List imported sessions, newest first, with their interaction counts",
	Args:    cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		sessions, err := a.store.ListSessions(ctx)
		if err != nil {
			return err
		}
		return format.WriteSessions(cmd.OutOrStdout(), sessions, output)
	}),
}

var sessionsRmCmd = &cobra.Command{
	Use:     "rm <session-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a session and its interactions",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}
		session, err := a.store.GetSession(ctx, id)
		if err != nil {
			return err
		}
		if err := a.store.DeleteSession(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session #%d (%s, %s)\n", session.ID, session.LLMName, session.SourceFile)
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the interactions of one session",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("session", args[0])
		if err != nil {
			return err
		}
		output, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		session, err := a.store.GetSession(ctx, id)
		if err != nil {
			return err
		}
		interactions, err := a.store.InteractionsForSession(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return format.WriteInteractions(out, session, interactions, output, format.TerminalWidth(out))
	}),
}

// parseID parses a positive numeric id argument
func parseID(kind, arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id '%s'", kind, arg)
	}
	return uint(id), nil
}

func init() {
	sessionsCmd.AddCommand(sessionsRmCmd)
}

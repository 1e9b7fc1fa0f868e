package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/models"
)

var (
	annotateRating       string
	annotateComment      string
	annotateClearComment bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <interaction-id>",
	Short: "Rate or comment on an interaction",
	Long: `Set the rating and/or comment of an interaction. Values not given are kept.

  llmlog annotate 42 --rating okay
  llmlog annotate 42 --rating not_okay --comment "ignored the goal"
  llmlog annotate 42 --rating unset --clear-comment`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID("interaction", args[0])
		if err != nil {
			return err
		}

		ratingSet := cmd.Flags().Changed("rating")
		commentSet := cmd.Flags().Changed("comment")
		if !ratingSet && !commentSet && !annotateClearComment {
			return fmt.Errorf("nothing to change: pass --rating, --comment or --clear-comment")
		}
		if commentSet && annotateClearComment {
			return fmt.Errorf("--comment and --clear-comment are mutually exclusive")
		}

		interaction, err := a.store.GetInteraction(ctx, id)
		if err != nil {
			return err
		}

		rating := interaction.Rating
		if ratingSet {
			if rating, err = models.ParseRating(annotateRating); err != nil {
				return err
			}
		}
		comment := interaction.Comment
		switch {
		case annotateClearComment:
			comment = nil
		case commentSet:
			comment = &annotateComment
		}

		if err := a.store.UpdateInteractionAnnotation(ctx, id, comment, rating); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Interaction #%d: rating %s\n", id, rating)
		return nil
	}),
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateRating, "rating", "r", "", "okay|not_okay|unset")
	annotateCmd.Flags().StringVarP(&annotateComment, "comment", "c", "", "Comment text")
	annotateCmd.Flags().BoolVar(&annotateClearComment, "clear-comment", false, "Remove the comment")
}

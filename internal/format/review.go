package format

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
	"github.com/balkashynov/llmlog/internal/parser"
)

// ReviewSummary is the one-line rating tally shown above a review
func ReviewSummary(result db.ReviewResult) string {
	score, ok := result.OKScore()
	if !ok {
		return fmt.Sprintf("okay: %d | not_okay: %d | OK score: —", result.Okay, result.NotOkay)
	}
	return fmt.Sprintf("okay: %d | not_okay: %d | OK score: %.2f", result.Okay, result.NotOkay, score)
}

// ReviewRow is the preview form of one reviewed interaction
type ReviewRow struct {
	ID              uint   `json:"id"`
	InteractionTime string `json:"interaction_time"`
	SessionTime     string `json:"session_time"`
	Situation       string `json:"situation_id"`
	Prompt          string `json:"prompt"`
	Response        string `json:"response"`
	Comment         string `json:"comment"`
	Rating          string `json:"rating"`
}

// ReviewRows builds the preview rows: the Goal/NPC line of the prompt, the
// first response line and the comment, each capped at PreviewLimit.
func ReviewRows(result db.ReviewResult) []ReviewRow {
	rows := make([]ReviewRow, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, ReviewRow{
			ID:              item.ID,
			InteractionTime: item.TimeLabel(),
			SessionTime:     models.FormatTime(item.SessionTimestamp),
			Situation:       item.SituationID,
			Prompt:          Preview(parser.PromptPreview(item.Prompt), PreviewLimit),
			Response:        Preview(parser.ResponsePreview(item.Response), PreviewLimit),
			Comment:         Preview(deref(item.Comment), PreviewLimit),
			Rating:          string(item.Rating),
		})
	}
	return rows
}

// WriteReview renders the tally followed by the preview rows
func WriteReview(w io.Writer, result db.ReviewResult, output Output, width int) error {
	rows := ReviewRows(result)

	switch output {
	case OutputJSON:
		score, ok := result.OKScore()
		var okScore *float64
		if ok {
			okScore = &score
		}
		return writeJSON(w, struct {
			Okay    int         `json:"okay"`
			NotOkay int         `json:"not_okay"`
			OKScore *float64    `json:"ok_score"`
			Items   []ReviewRow `json:"items"`
		}{result.Okay, result.NotOkay, okScore, rows})
	case OutputPlain:
		if _, err := fmt.Fprintln(w, "# "+ReviewSummary(result)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, "id\tinteraction_time\tsession_time\tsituation\tprompt\tresponse\tcomment\trating"); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.InteractionTime, r.SessionTime, r.Situation,
				escapeNewlines(r.Prompt), escapeNewlines(r.Response), escapeNewlines(r.Comment), r.Rating); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintln(w, ReviewSummary(result)); err != nil {
		return err
	}

	column := previewColumnWidth(width)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Interaction Time", "Session Time", "Prompt", "Response", "Comment", "Rating"})
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.ID,
			r.InteractionTime,
			orDash(r.SessionTime),
			Fit(r.Prompt, column),
			Fit(r.Response, column),
			Fit(escapeNewlines(r.Comment), column),
			orDash(r.Rating),
		})
	}
	if len(rows) == 0 {
		tw.AppendRow(table.Row{"-", "(no interactions)", "-", "-", "-", "-", "-"})
	}
	tw.Render()
	return nil
}

// WriteModels lists the values available for the review filters
func WriteModels(w io.Writer, names, situations []string, output Output) error {
	if names == nil {
		names = []string{}
	}
	if situations == nil {
		situations = []string{}
	}

	switch output {
	case OutputJSON:
		return writeJSON(w, struct {
			Models     []string `json:"models"`
			Situations []string `json:"situations"`
		}{names, situations})
	case OutputPlain:
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "model\t%s\n", name); err != nil {
				return err
			}
		}
		for _, situation := range situations {
			if _, err := fmt.Fprintf(w, "situation\t%s\n", situation); err != nil {
				return err
			}
		}
		return nil
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"Kind", "Value"})
	for _, name := range names {
		tw.AppendRow(table.Row{"model", name})
	}
	tw.AppendSeparator()
	for _, situation := range situations {
		tw.AppendRow(table.Row{"situation", situation})
	}
	tw.Render()
	return nil
}

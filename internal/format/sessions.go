package format

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
	"github.com/balkashynov/llmlog/internal/parser"
)

// WriteSessions renders the session list
func WriteSessions(w io.Writer, sessions []db.SessionSummary, output Output) error {
	switch output {
	case OutputJSON:
		if sessions == nil {
			sessions = []db.SessionSummary{}
		}
		return writeJSON(w, sessions)
	case OutputPlain:
		if _, err := fmt.Fprintln(w, "id\tsession_time\tllm\tinteractions\tsource_file"); err != nil {
			return err
		}
		for _, s := range sessions {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
				s.ID, s.StartedOrImported().UTC().Format(time.RFC3339), s.LLMName, s.InteractionCount, s.SourceFile); err != nil {
				return err
			}
		}
		return nil
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Session Time", "LLM", "Interactions", "Source File"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 48},
	})
	for _, s := range sessions {
		when := s.StartedOrImported().UTC().Format(time.RFC3339)
		if s.SessionTimestamp == nil {
			when += " (imported)"
		}
		tw.AppendRow(table.Row{s.ID, when, s.LLMName, s.InteractionCount, filepath.Base(s.SourceFile)})
	}
	if len(sessions) == 0 {
		tw.AppendRow(table.Row{"-", "(no sessions)", "-", 0, "-"})
	}
	tw.Render()
	return nil
}

// WriteInteractions renders the interactions of one session. Table and plain
// output show previews; json carries the full text.
func WriteInteractions(w io.Writer, session *models.Session, interactions []models.Interaction, output Output, width int) error {
	if output == OutputJSON {
		if interactions == nil {
			interactions = []models.Interaction{}
		}
		return writeJSON(w, struct {
			Session      *models.Session      `json:"session"`
			Interactions []models.Interaction `json:"interactions"`
		}{session, interactions})
	}

	if output == OutputPlain {
		if _, err := fmt.Fprintln(w, "id\ttime\tsituation\trating\tprompt\tresponse\tcomment"); err != nil {
			return err
		}
		for _, i := range interactions {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i.ID, i.TimeLabel(), i.SituationID, string(i.Rating),
				escapeNewlines(Preview(parser.PromptPreview(i.Prompt), PreviewLimit)),
				escapeNewlines(Preview(parser.ResponsePreview(i.Response), PreviewLimit)),
				escapeNewlines(Preview(deref(i.Comment), PreviewLimit))); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "Session #%d  %s  %s\n", session.ID, session.LLMName, session.SourceFile); err != nil {
		return err
	}

	column := previewColumnWidth(width)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Time", "Situation", "Rating", "Prompt", "Response", "Comment"})
	for _, i := range interactions {
		tw.AppendRow(table.Row{
			i.ID,
			i.TimeLabel(),
			i.SituationID,
			i.Rating.String(),
			Fit(parser.PromptPreview(i.Prompt), column),
			Fit(parser.ResponsePreview(i.Response), column),
			Fit(escapeNewlines(deref(i.Comment)), column),
		})
	}
	if len(interactions) == 0 {
		tw.AppendRow(table.Row{"-", "(no interactions)", "-", "-", "-", "-", "-"})
	}
	tw.Render()
	return nil
}

// previewColumnWidth shares what is left of the terminal width among the
// three free-text columns.
func previewColumnWidth(width int) int {
	const fixed = 60
	column := (width - fixed) / 3
	if column < 16 {
		return 16
	}
	return column
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

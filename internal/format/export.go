package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
)

var exportHeader = []string{"interaction_time", "session_time", "prompt", "response", "comment", "rating"}

// WriteReviewCSV exports the reviewed interactions with their full text.
// Interactions without an absolute time are labelled by their offset.
func WriteReviewCSV(w io.Writer, items []db.ReviewItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.TimeLabel(),
			models.FormatTime(item.SessionTimestamp),
			item.Prompt,
			item.Response,
			deref(item.Comment),
			string(item.Rating),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/format"
	"github.com/balkashynov/llmlog/internal/parser"
)

// filterFlags holds the filter flags of one command
type filterFlags struct {
	llm       string
	model     string
	situation string
	from      string
	to        string
}

// register adds the shared filter flags. Situation only applies to review queries.
func (f *filterFlags) register(cmd *cobra.Command, withSituation bool) {
	cmd.Flags().StringVar(&f.llm, "llm", "", "Only models whose name contains this text")
	cmd.Flags().StringVar(&f.model, "model", "", "Only this exact model name")
	cmd.Flags().StringVar(&f.from, "from", "", "Start of the time range (YYYY-MM-DD or ISO-8601)")
	cmd.Flags().StringVar(&f.to, "to", "", "End of the time range, inclusive (a bare date covers the whole day)")
	if withSituation {
		cmd.Flags().StringVar(&f.situation, "situation", "", "Only this situation id")
	}
}

// filter converts the flags into a store filter. Offset-less dates are read
// in the local zone.
func (f *filterFlags) filter() (db.Filter, error) {
	out := db.Filter{
		ModelContains: parser.NormalizeModelName(f.llm),
		Model:         parser.NormalizeModelName(f.model),
		Situation:     strings.TrimSpace(f.situation),
	}

	if f.from != "" {
		ts, ok := parser.ParseToUTCIn(f.from, time.Local)
		if !ok {
			return db.Filter{}, fmt.Errorf("invalid --from value %q", f.from)
		}
		out.From = &ts
	}
	if f.to != "" {
		ts, ok := parser.EndOfDay(f.to, time.Local)
		if !ok {
			return db.Filter{}, fmt.Errorf("invalid --to value %q", f.to)
		}
		out.To = &ts
	}
	if out.From != nil && out.To != nil && out.From.After(*out.To) {
		return db.Filter{}, fmt.Errorf("--from %s is after --to %s", f.from, f.to)
	}

	return out, nil
}

// outputFormat resolves --output against the command's stdout
func outputFormat(cmd *cobra.Command) (format.Output, error) {
	return format.ParseOutput(outputFlag, cmd.OutOrStdout())
}

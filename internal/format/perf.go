package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/balkashynov/llmlog/internal/db"
)

// PercentileLabel renders 0.9 as "P90" and 0.995 as "P99.5"
func PercentileLabel(p float64) string {
	return "P" + humanize.Ftoa(math.Round(p*1000)/10)
}

// WritePerformance renders the per-model duration report
func WritePerformance(w io.Writer, reports []db.ModelReport, percentile float64, output Output) error {
	label := PercentileLabel(percentile)

	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if reports == nil {
			reports = []db.ModelReport{}
		}
		return enc.Encode(reports)
	case OutputPlain:
		if _, err := fmt.Fprintf(w, "llm\tcount\tmin_ms\tavg_ms\t%s_ms\tmax_ms\n", label); err != nil {
			return err
		}
		for _, r := range reports {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%d\n",
				r.LLMName, r.Count, r.MinMS, int(r.AvgMS), plainPercentile(r), r.MaxMS); err != nil {
				return err
			}
		}
		return nil
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"LLM", "Count", "Min (ms)", "Avg (ms)", label + " (ms)", "Max (ms)"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for _, r := range reports {
		tw.AppendRow(table.Row{
			r.LLMName,
			humanize.Comma(r.Count),
			humanize.Comma(int64(r.MinMS)),
			humanize.Comma(int64(r.AvgMS)),
			percentileText(r, "—"),
			humanize.Comma(int64(r.MaxMS)),
		})
	}
	if len(reports) == 0 {
		tw.AppendRow(table.Row{"(no timing records)", "-", "-", "-", "-", "-"})
	}
	tw.Render()
	return nil
}

func plainPercentile(r db.ModelReport) string {
	if r.PercentileMS == nil {
		return ""
	}
	return strconv.Itoa(*r.PercentileMS)
}

func percentileText(r db.ModelReport, missing string) string {
	if r.PercentileMS == nil {
		return missing
	}
	return humanize.Comma(int64(*r.PercentileMS))
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

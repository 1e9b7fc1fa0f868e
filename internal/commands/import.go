package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/llmlog/internal/format"
	"github.com/balkashynov/llmlog/internal/importer"
)

var (
	importFormatFlag  string
	importPatternFlag string
	importNoRawFlag   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import timing logs and session transcripts",
	Long: `Import LLM call data into the database.

  llmlog import timing calls.csv               CSV with llm_name,duration_ms,call_timestamp
  llmlog import timing calls.jsonl             one JSON object per line
  llmlog import timing app.log --pattern RE    named groups llm_name, duration_ms, call_timestamp
  llmlog import session run.json               one session transcript
  llmlog import auto ./logs                    a file or every importable file under a directory
  llmlog import auto 'logs/**/*.csv'           every file matching a glob`,
}

var importTimingCmd = &cobra.Command{
	Use:   "timing <file>",
	Short: "Import a timing log (CSV, JSON lines or custom pattern)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		opts, err := timingOptions(a)
		if err != nil {
			return err
		}
		result, err := a.importer.ImportTimingLog(ctx, args[0], opts)
		if err != nil {
			return err
		}
		rememberImportDir(a, filepath.Dir(args[0]))
		return printImport(cmd, importer.PathResult{Path: args[0], Timing: &result})
	}),
}

var importSessionCmd = &cobra.Command{
	Use:   "session <file>",
	Short: "Import a session transcript (JSON document)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		result, err := a.importer.ImportSessionDocument(ctx, args[0])
		if err != nil {
			return err
		}
		rememberImportDir(a, filepath.Dir(args[0]))
		return printImport(cmd, importer.PathResult{Path: args[0], Session: &result})
	}),
}

var importAutoCmd = &cobra.Command{
	Use:   "auto <path>",
	Short: "Import a file, directory or glob, choosing the importer by extension",
	Long: `Import a file, every .json, .jsonl, .csv and .log file under a directory, or
every file matching a glob ("logs/**/*.jsonl"; quote it so the shell leaves it alone).
.json files are session transcripts; everything else is a timing log.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		opts, err := timingOptions(a)
		if err != nil {
			return err
		}

		if importer.HasGlobMeta(args[0]) {
			result, err := a.importer.ImportGlob(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return printDirImport(cmd, result)
		}

		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if !info.IsDir() {
			result, err := a.importer.ImportPath(ctx, args[0], opts)
			if err != nil {
				return err
			}
			rememberImportDir(a, filepath.Dir(args[0]))
			return printImport(cmd, result)
		}

		result, err := a.importer.ImportDir(ctx, args[0], opts)
		if err != nil {
			return err
		}
		rememberImportDir(a, args[0])
		return printDirImport(cmd, result)
	}),
}

func timingOptions(a *app) (importer.TimingOptions, error) {
	logFormat, err := importer.ParseLogFormat(importFormatFlag)
	if err != nil {
		return importer.TimingOptions{}, err
	}
	if logFormat == importer.FormatPattern && importPatternFlag == "" {
		return importer.TimingOptions{}, fmt.Errorf("--format pattern requires --pattern")
	}
	return importer.TimingOptions{
		Format:      logFormat,
		Pattern:     importPatternFlag,
		KeepRawLine: a.cfg.Settings.KeepRawLine && !importNoRawFlag,
	}, nil
}

// rememberImportDir stores the directory of the last import in config.json.
// A failed save only logs a warning.
func rememberImportDir(a *app, dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	a.cfg.Settings.LastImportDir = abs
	if err := a.cfg.Save(); err != nil {
		a.logger.Warn("save settings", "error", err)
	}
}

func printImport(cmd *cobra.Command, result importer.PathResult) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if output == format.OutputJSON {
		return writeJSON(out, result)
	}
	writeImportLine(out, result)
	return nil
}

func printDirImport(cmd *cobra.Command, result importer.DirResult) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if output == format.OutputJSON {
		return writeJSON(out, result)
	}

	for _, file := range result.Files {
		writeImportLine(out, file)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	fmt.Fprintf(out, "%s file(s) imported, %s failed\n",
		humanize.Comma(int64(len(result.Files))), humanize.Comma(int64(len(result.Warnings))))
	return nil
}

func writeImportLine(out io.Writer, result importer.PathResult) {
	switch {
	case result.Timing != nil:
		t := result.Timing
		fmt.Fprintf(out, "%s: %s inserted, %s skipped, %s processed (%s, batch %s)\n",
			result.Path,
			humanize.Comma(int64(t.Inserted)),
			humanize.Comma(int64(t.Skipped)),
			humanize.Comma(int64(t.Processed)),
			t.Format, t.BatchID)
	case result.Session != nil:
		s := result.Session
		if s.SkippedDuplicates > 0 {
			fmt.Fprintf(out, "%s: already imported, skipped\n", result.Path)
			return
		}
		fmt.Fprintf(out, "%s: session #%d with %s interaction(s)\n",
			result.Path, s.SessionID, humanize.Comma(int64(s.InsertedInteractions)))
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, cmd := range []*cobra.Command{importTimingCmd, importAutoCmd} {
		cmd.Flags().StringVar(&importFormatFlag, "format", "", "Timing log format: csv|jsonl|pattern (default by extension)")
		cmd.Flags().StringVar(&importPatternFlag, "pattern", "", "Regular expression with named groups llm_name, duration_ms and optional call_timestamp")
		cmd.Flags().BoolVar(&importNoRawFlag, "no-raw", false, "Do not store the raw source line")
	}

	importCmd.AddCommand(importTimingCmd)
	importCmd.AddCommand(importSessionCmd)
	importCmd.AddCommand(importAutoCmd)
}

package importer

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
	"github.com/balkashynov/llmlog/internal/parser"
)

// TimingOptions controls how a timing log is read
type TimingOptions struct {
	Format      LogFormat
	Pattern     string
	KeepRawLine bool
}

// TimingResult summarises one timing log import
type TimingResult struct {
	Inserted  int       `json:"inserted"`
	Skipped   int       `json:"skipped"`
	Processed int       `json:"processed"`
	BatchID   string    `json:"batch_id"`
	Format    LogFormat `json:"format"`
}

// ImportTimingLog reads a CSV, JSON lines or custom-pattern log and stores
// every valid record in one transaction. Invalid records are skipped; an
// unreadable file, a bad pattern or a storage failure is returned as an error
// and nothing is written.
func (imp *Importer) ImportTimingLog(ctx context.Context, path string, opts TimingOptions) (TimingResult, error) {
	result := TimingResult{
		BatchID: imp.newBatchID(),
		Format:  resolveFormat(path, opts),
	}
	importedAt := imp.now().UTC()

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("open timing log: %w", err)
	}
	defer file.Close()

	lines := newLineReader(file)

	var extractor LineExtractor
	switch result.Format {
	case FormatPattern:
		extractor, err = newPatternExtractor(opts.Pattern)
	case FormatCSV:
		header, _, ok := lines.next()
		if !ok {
			break
		}
		extractor, err = newCSVExtractor(header)
	default:
		extractor = jsonLineExtractor{}
	}
	if err != nil {
		return result, err
	}

	var rows []models.TimingRecord
	for extractor != nil {
		line, lineNo, ok := lines.next()
		if !ok {
			break
		}

		candidate, ok := extractor.Extract(line)
		if !ok {
			result.Skipped++
			continue
		}
		result.Processed++

		record, ok := validateTiming(candidate)
		if !ok {
			result.Skipped++
			continue
		}

		record.ImportedAt = importedAt
		record.SourceFile = path
		record.SourceLineNo = &lineNo
		record.ImportBatchID = result.BatchID
		if opts.KeepRawLine {
			raw := line
			record.RawLine = &raw
		}
		rows = append(rows, record)
	}
	if err := lines.err(); err != nil {
		return result, fmt.Errorf("scan timing log: %w", err)
	}

	err = imp.store.RunInTransaction(ctx, func(tx *db.Store) error {
		return tx.InsertTimingRecords(ctx, rows)
	})
	if err != nil {
		return result, err
	}
	result.Inserted = len(rows)

	imp.logger.Info("timing log imported",
		"path", path,
		"format", string(result.Format),
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"batch_id", result.BatchID,
	)
	return result, nil
}

// validateTiming applies the checks shared by every log format: a model name
// and a positive integer duration are required, and an unparsable call
// timestamp is dropped rather than rejecting the record.
func validateTiming(c Candidate) (models.TimingRecord, bool) {
	name := parser.NormalizeModelName(c.LLMName)
	if name == "" || strings.TrimSpace(c.DurationMS) == "" {
		return models.TimingRecord{}, false
	}

	duration, ok := parseInteger(c.DurationMS)
	if !ok || duration <= 0 {
		return models.TimingRecord{}, false
	}

	return models.TimingRecord{
		LLMName:       name,
		DurationMS:    duration,
		CallTimestamp: parser.ParseToUTCPtr(c.CallTimestamp),
	}, true
}

// parseInteger accepts integers and integral decimals such as "150.0"
func parseInteger(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// lineReader yields non-blank lines with their 1-based line numbers
type lineReader struct {
	scanner *bufio.Scanner
	lineNo  int
}

func newLineReader(file *os.File) *lineReader {
	scanner := bufio.NewScanner(file)
	// Raw prompts can make single lines very long
	const maxCapacity = 8 * 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)
	return &lineReader{scanner: scanner}
}

func (r *lineReader) next() (string, int, bool) {
	for r.scanner.Scan() {
		r.lineNo++
		raw := r.scanner.Bytes()
		if r.lineNo == 1 {
			raw = stripBOM(raw)
		}
		line := strings.TrimRight(string(raw), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, r.lineNo, true
	}
	return "", r.lineNo, false
}

func (r *lineReader) err() error {
	return r.scanner.Err()
}

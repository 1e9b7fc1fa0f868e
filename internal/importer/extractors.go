package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// LogFormat selects how timing log lines are read
type LogFormat string

const (
	FormatAuto    LogFormat = ""
	FormatCSV     LogFormat = "csv"
	FormatJSONL   LogFormat = "jsonl"
	FormatPattern LogFormat = "pattern"
)

// ParseLogFormat accepts the names used on the command line
func ParseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", ".csv":
		return FormatCSV, nil
	case "jsonl", "json", "ndjson", ".jsonl":
		return FormatJSONL, nil
	case "pattern", "regex":
		return FormatPattern, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q (want csv, jsonl or pattern)", s)
	}
}

// resolveFormat applies the precedence: custom pattern, then an explicit or
// extension-implied CSV, then JSON lines.
func resolveFormat(path string, opts TimingOptions) LogFormat {
	if opts.Pattern != "" {
		return FormatPattern
	}
	if opts.Format == FormatCSV || strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSONL
}

// Candidate is the raw field text pulled out of one line, before validation.
// Empty strings mean the field was absent.
type Candidate struct {
	LLMName       string
	DurationMS    string
	CallTimestamp string
}

// LineExtractor pulls a candidate record out of one non-blank line. It
// returns false when the line cannot be read at all.
type LineExtractor interface {
	Extract(line string) (Candidate, bool)
}

// jsonLineExtractor reads one JSON object per line
type jsonLineExtractor struct{}

func (jsonLineExtractor) Extract(line string) (Candidate, bool) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return Candidate{}, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return Candidate{}, false
	}

	return Candidate{
		LLMName:       jsonString(obj["llm_name"]),
		DurationMS:    jsonScalar(obj["duration_ms"]),
		CallTimestamp: jsonString(obj["call_timestamp"]),
	}, true
}

// csvExtractor reads rows against the column positions of a header line
type csvExtractor struct {
	columns map[string]int
}

func newCSVExtractor(header string) (*csvExtractor, error) {
	fields, err := splitCSV(header)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(fields))
	for i, name := range fields {
		name = strings.TrimSpace(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return &csvExtractor{columns: columns}, nil
}

func (e *csvExtractor) Extract(line string) (Candidate, bool) {
	fields, err := splitCSV(line)
	if err != nil {
		return Candidate{}, false
	}

	field := func(name string) string {
		i, ok := e.columns[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	return Candidate{
		LLMName:       field("llm_name"),
		DurationMS:    field("duration_ms"),
		CallTimestamp: field("call_timestamp"),
	}, true
}

func splitCSV(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

// patternExtractor applies a user-supplied regular expression with named groups
type patternExtractor struct {
	re        *regexp.Regexp
	nameIdx   int
	durIdx    int
	callTSIdx int
}

func newPatternExtractor(pattern string) (*patternExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	e := &patternExtractor{
		re:        re,
		nameIdx:   re.SubexpIndex("llm_name"),
		durIdx:    re.SubexpIndex("duration_ms"),
		callTSIdx: re.SubexpIndex("call_timestamp"),
	}
	if e.nameIdx < 0 || e.durIdx < 0 {
		return nil, fmt.Errorf("invalid pattern: named groups llm_name and duration_ms are required")
	}
	return e, nil
}

func (e *patternExtractor) Extract(line string) (Candidate, bool) {
	m := e.re.FindStringSubmatch(line)
	if m == nil {
		return Candidate{}, false
	}

	c := Candidate{LLMName: m[e.nameIdx], DurationMS: m[e.durIdx]}
	if e.callTSIdx >= 0 {
		c.CallTimestamp = m[e.callTSIdx]
	}
	return c, true
}

// jsonString returns v when it is a JSON string, "" otherwise
func jsonString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// jsonScalar renders strings and numbers as text; other values count as absent
func jsonScalar(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// stripBOM drops a leading UTF-8 byte order mark
func stripBOM(line []byte) []byte {
	return bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
}

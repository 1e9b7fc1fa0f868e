// Package format renders store results for the terminal and for export.
package format

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Output is a rendering mode for list commands
type Output string

const (
	OutputTable Output = "table"
	OutputPlain Output = "plain"
	OutputJSON  Output = "json"
)

// PreviewLimit is the maximum length of prompt, response and comment previews
const PreviewLimit = 200

// ParseOutput resolves an --output value; empty picks table on a terminal and plain otherwise
func ParseOutput(value string, out io.Writer) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		if IsTerminal(out) {
			return OutputTable, nil
		}
		return OutputPlain, nil
	case "table":
		return OutputTable, nil
	case "plain", "tsv":
		return OutputPlain, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", value)
	}
}

// IsTerminal reports whether out is an interactive terminal
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the width of out, then $COLUMNS, then 80
func TerminalWidth(out io.Writer) int {
	if file, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

// Preview cuts text to at most limit runes
func Preview(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// Fit truncates text to a display width, marking the cut with an ellipsis
func Fit(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

func escapeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\n", "\\n")
}

func orDash(text string) string {
	if text == "" {
		return "—"
	}
	return text
}

package parser

import (
	"regexp"
	"strings"
)

// Prompt sections whose following line summarises the prompt, in order of preference
var previewMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^\s*Goal:`),
	regexp.MustCompile(`^\s*NPC Description:`),
}

// PromptPreview extracts a one-line summary of a prompt.
// The line after the first line starting with "Goal:" wins; otherwise the
// line after "NPC Description:". Prompts without either marker have no
// preview and return "".
func PromptPreview(prompt string) string {
	lines := splitLines(prompt)

	for _, marker := range previewMarkers {
		for i, line := range lines {
			if !marker.MatchString(line) {
				continue
			}
			if i+1 < len(lines) {
				return strings.TrimSpace(lines[i+1])
			}
			return ""
		}
	}

	return ""
}

// ResponsePreview returns the first line of a response, trimmed.
func ResponsePreview(response string) string {
	lines := splitLines(response)
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}

// splitLines splits on any newline convention and drops a trailing empty line
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

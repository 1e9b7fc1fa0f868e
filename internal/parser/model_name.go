package parser

import "strings"

// NormalizeModelName trims surrounding whitespace and lowercases a model name
// so "  GPT-4o " and "gpt-4o" group together.
func NormalizeModelName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

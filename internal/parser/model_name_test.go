package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModelName(t *testing.T) {
	assert.Equal(t, "gpt-4o", NormalizeModelName("  GPT-4o \t"))
	assert.Equal(t, "llama3", NormalizeModelName("llama3"))
	assert.Equal(t, "", NormalizeModelName("   "))
}

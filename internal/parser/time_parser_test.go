package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToUTC_ZuluEqualsZeroOffset(t *testing.T) {
	z, ok := ParseToUTC("2024-03-01T10:00:00Z")
	require.True(t, ok)
	plus, ok := ParseToUTC("2024-03-01T10:00:00+00:00")
	require.True(t, ok)

	assert.True(t, z.Equal(plus))
	assert.Equal(t, time.UTC, z.Location())
}

func TestParseToUTCIn(t *testing.T) {
	berlin := time.FixedZone("UTC+2", 2*60*60)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"explicit offset", "2024-03-01T10:00:00+02:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"compact offset", "2024-03-01T10:00:00-0130", time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)},
		{"fractional seconds", "2024-03-01T10:00:00.250Z", time.Date(2024, 3, 1, 10, 0, 0, 250_000_000, time.UTC)},
		{"space separator", "2024-03-01 10:00:00+00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"naive uses zone", "2024-03-01T10:00:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"minutes precision", "2024-03-01 10:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"date only", "2024-03-01", time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC)},
		{"surrounding whitespace", "  2024-03-01T10:00:00z ", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseToUTCIn(tt.input, berlin)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseToUTC_Unparsable(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "2024-13-01", "01/03/2024"} {
		_, ok := ParseToUTC(input)
		assert.False(t, ok, input)
		assert.Nil(t, ParseToUTCPtr(input), input)
	}
}

func TestEndOfDay(t *testing.T) {
	got, ok := EndOfDay("2024-03-01", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999_999_999, time.UTC), got)

	got, ok = EndOfDay("2024-03-01T12:00:00Z", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), got)
}

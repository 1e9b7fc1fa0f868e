package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestRankPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		p      float64
		want   int
	}{
		{"p90 of four", []int{10, 20, 30, 40}, 0.90, 40},
		{"median unsorted", []int{40, 10, 30, 20}, 0.5, 20},
		{"zero clamps to first rank", []int{5, 3, 9}, 0, 3},
		{"negative clamped", []int{5, 3, 9}, -1, 3},
		{"above one clamped", []int{5, 3, 9}, 1.5, 9},
		{"single value", []int{7}, 0.99, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NearestRankPercentile(tt.values, tt.p)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestRankPercentile_Empty(t *testing.T) {
	_, ok := NearestRankPercentile(nil, 0.5)
	assert.False(t, ok)
}

func TestNearestRankPercentile_DoesNotModifyInput(t *testing.T) {
	values := []int{3, 1, 2}
	NearestRankPercentile(values, 0.5)
	assert.Equal(t, []int{3, 1, 2}, values)
}

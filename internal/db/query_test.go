package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/llmlog/internal/models"
)

func seedTiming(t *testing.T, store *Store) {
	t.Helper()

	rows := []models.TimingRecord{
		timing("gpt-4", 10, ptr(utc(2024, 1, 1, 9, 0))),
		timing("gpt-4", 20, ptr(utc(2024, 1, 2, 9, 0))),
		timing("gpt-4", 30, ptr(utc(2024, 1, 3, 9, 0))),
		timing("gpt-4", 40, ptr(utc(2024, 1, 4, 9, 0))),
		timing("llama3", 200, nil), // falls back to imported_at 2024-06-01
	}
	ctx := context.Background()
	require.NoError(t, store.RunInTransaction(ctx, func(tx *Store) error {
		return tx.InsertTimingRecords(ctx, rows)
	}))
}

func TestPerformanceOverview(t *testing.T) {
	store := newTestStore(t)
	seedTiming(t, store)

	overview, err := store.PerformanceOverview(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, overview, 2)

	assert.Equal(t, ModelStats{LLMName: "gpt-4", Count: 4, MinMS: 10, AvgMS: 25, MaxMS: 40}, overview[0])
	assert.Equal(t, "llama3", overview[1].LLMName)
	assert.EqualValues(t, 1, overview[1].Count)
}

func TestPerformanceOverview_ModelContainsIsLiteral(t *testing.T) {
	store := newTestStore(t)
	seedTiming(t, store)
	ctx := context.Background()
	require.NoError(t, store.RunInTransaction(ctx, func(tx *Store) error {
		return tx.InsertTimingRecords(ctx, []models.TimingRecord{
			timing("gpt_4", 15, nil),
			timing("mix%tral", 25, nil),
		})
	}))

	overview, err := store.PerformanceOverview(ctx, Filter{ModelContains: "gpt_4"})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "gpt_4", overview[0].LLMName)

	overview, err = store.PerformanceOverview(ctx, Filter{ModelContains: "%"})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "mix%tral", overview[0].LLMName)
}

func TestPerformanceOverview_Filters(t *testing.T) {
	store := newTestStore(t)
	seedTiming(t, store)
	ctx := context.Background()

	overview, err := store.PerformanceOverview(ctx, Filter{ModelContains: "lam"})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "llama3", overview[0].LLMName)

	overview, err = store.PerformanceOverview(ctx, Filter{
		From: ptr(utc(2024, 1, 2, 0, 0)),
		To:   ptr(utc(2024, 1, 3, 9, 0)),
	})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.EqualValues(t, 2, overview[0].Count)
	assert.Equal(t, 20, overview[0].MinMS)
	assert.Equal(t, 30, overview[0].MaxMS)

	// Records without a call timestamp are placed by their import time
	overview, err = store.PerformanceOverview(ctx, Filter{From: ptr(utc(2024, 5, 1, 0, 0))})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "llama3", overview[0].LLMName)
}

func TestDurationsByModel(t *testing.T) {
	store := newTestStore(t)
	seedTiming(t, store)

	durations, err := store.DurationsByModel(context.Background(), Filter{Model: "gpt-4"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"gpt-4": {10, 20, 30, 40}}, durations)
}

func TestPerformanceReport(t *testing.T) {
	store := newTestStore(t)
	seedTiming(t, store)

	report, err := store.PerformanceReport(context.Background(), Filter{}, 0.90)
	require.NoError(t, err)
	require.Len(t, report, 2)
	require.NotNil(t, report[0].PercentileMS)
	assert.Equal(t, 40, *report[0].PercentileMS)
	assert.Equal(t, 200, *report[1].PercentileMS)
	assert.Equal(t, 0.90, report[0].Percentile)
}

func seedReview(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	early := []models.Interaction{interaction("intro", 1000, 0), interaction("combat", 0, 1)}
	early[0].InteractionTimestamp = ptr(utc(2024, 1, 1, 0, 0).Add(time.Second))
	early[1].InteractionTimestamp = ptr(utc(2024, 1, 1, 0, 0))
	early[0].Rating = models.RatingOkay
	early[1].Rating = models.RatingNotOkay
	_, err := store.InsertSessionWithInteractions(ctx, session("early", ptr(utc(2024, 1, 1, 0, 0))), early)
	require.NoError(t, err)

	other := session("claude", nil)
	other.LLMName = "claude"
	undated := []models.Interaction{interaction("intro", 5, 0)}
	undated[0].LLMName = ptr("claude")
	undated[0].Rating = models.RatingOkay
	_, err = store.InsertSessionWithInteractions(ctx, other, undated)
	require.NoError(t, err)
}

func TestReview(t *testing.T) {
	store := newTestStore(t)
	seedReview(t, store)

	result, err := store.Review(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	assert.Equal(t, "combat", result.Items[0].SituationID)
	assert.Equal(t, "intro", result.Items[1].SituationID)
	assert.Equal(t, "claude", *result.Items[2].LLMName)
	require.NotNil(t, result.Items[0].SessionTimestamp)
	assert.True(t, utc(2024, 1, 1, 0, 0).Equal(*result.Items[0].SessionTimestamp))
	assert.Nil(t, result.Items[2].SessionTimestamp)

	assert.Equal(t, 2, result.Okay)
	assert.Equal(t, 1, result.NotOkay)
	score, ok := result.OKScore()
	assert.True(t, ok)
	assert.InDelta(t, 2.0/3.0, score, 1e-9)
}

func TestReview_Filters(t *testing.T) {
	store := newTestStore(t)
	seedReview(t, store)
	ctx := context.Background()

	result, err := store.Review(ctx, Filter{Model: "gpt", Situation: "intro"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.Okay)
	assert.Equal(t, 0, result.NotOkay)

	result, err = store.Review(ctx, Filter{Situation: "missing"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	_, ok := result.OKScore()
	assert.False(t, ok)
}

func TestModelsAndSituations(t *testing.T) {
	store := newTestStore(t)
	seedReview(t, store)

	names, situations, err := store.ModelsAndSituations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "gpt"}, names)
	assert.Equal(t, []string{"combat", "intro"}, situations)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, dedupe([]string{"b", "", "a", "b", "a"}))
}

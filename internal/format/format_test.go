package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestParseOutput(t *testing.T) {
	var buf bytes.Buffer

	output, err := ParseOutput("", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputPlain, output)

	output, err = ParseOutput("JSON", &buf)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, output)

	_, err = ParseOutput("yaml", &buf)
	assert.Error(t, err)
}

func TestPreviewAndFit(t *testing.T) {
	assert.Equal(t, "héllo", Preview("héllo wörld", 5))
	assert.Equal(t, "short", Preview("short", PreviewLimit))
	assert.Len(t, []rune(Preview(strings.Repeat("x", 500), PreviewLimit)), PreviewLimit)

	assert.Equal(t, "日本…", Fit("日本語テキスト", 6))
	assert.Equal(t, "abc", Fit("abc", 10))
}

func TestPercentileLabel(t *testing.T) {
	assert.Equal(t, "P90", PercentileLabel(0.90))
	assert.Equal(t, "P99.5", PercentileLabel(0.995))
}

func TestWritePerformance_Plain(t *testing.T) {
	var buf bytes.Buffer
	reports := []db.ModelReport{
		{ModelStats: db.ModelStats{LLMName: "gpt-4", Count: 4, MinMS: 10, AvgMS: 25.5, MaxMS: 1400}, Percentile: 0.9, PercentileMS: ptr(1400)},
		{ModelStats: db.ModelStats{LLMName: "llama3", Count: 1, MinMS: 5, AvgMS: 5, MaxMS: 5}, Percentile: 0.9},
	}

	require.NoError(t, WritePerformance(&buf, reports, 0.9, OutputPlain))
	assert.Equal(t, "llm\tcount\tmin_ms\tavg_ms\tP90_ms\tmax_ms\n"+
		"gpt-4\t4\t10\t25\t1400\t1400\n"+
		"llama3\t1\t5\t5\t\t5\n", buf.String())
}

func TestWritePerformance_Table(t *testing.T) {
	var buf bytes.Buffer
	reports := []db.ModelReport{
		{ModelStats: db.ModelStats{LLMName: "gpt-4", Count: 1200, MinMS: 10, AvgMS: 25, MaxMS: 40}, PercentileMS: ptr(38)},
	}

	require.NoError(t, WritePerformance(&buf, reports, 0.95, OutputTable))
	out := buf.String()
	assert.Contains(t, out, "P95 (ms)")
	assert.Contains(t, out, "Min (ms)")
	assert.NotContains(t, out, "MIN (MS)", "headers render as written")
	assert.Contains(t, out, "1,200")
}

func reviewFixture() db.ReviewResult {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := start.Add(1500 * time.Millisecond)
	return db.ReviewResult{
		Okay:    1,
		NotOkay: 1,
		Items: []db.ReviewItem{
			{
				Interaction: models.Interaction{
					ID: 1, InteractionTimestamp: &at, OffsetMS: 1500, SituationID: "intro",
					Prompt: "NPC Description:\nGrumpy smith\nGoal:\nSell a sword", Response: "Fine.\nTake it.",
					Comment: ptr("good, \"short\""), Rating: models.RatingOkay,
				},
				SessionTimestamp: &start,
			},
			{
				Interaction: models.Interaction{
					ID: 2, OffsetMS: 20, SituationID: "intro", Prompt: "no markers", Response: "Hmm", Rating: models.RatingNotOkay,
				},
			},
		},
	}
}

func TestReviewSummary(t *testing.T) {
	assert.Equal(t, "okay: 1 | not_okay: 1 | OK score: 0.50", ReviewSummary(reviewFixture()))
	assert.Equal(t, "okay: 0 | not_okay: 0 | OK score: —", ReviewSummary(db.ReviewResult{}))
}

func TestReviewRows(t *testing.T) {
	rows := ReviewRows(reviewFixture())
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-01-01T00:00:01Z", rows[0].InteractionTime)
	assert.Equal(t, "2024-01-01T00:00:00Z", rows[0].SessionTime)
	assert.Equal(t, "Sell a sword", rows[0].Prompt)
	assert.Equal(t, "Fine.", rows[0].Response)
	assert.Equal(t, "okay", rows[0].Rating)

	assert.Equal(t, "t=20 ms", rows[1].InteractionTime)
	assert.Equal(t, "", rows[1].SessionTime)
	assert.Equal(t, "", rows[1].Prompt)
}

func TestWriteReview_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReview(&buf, reviewFixture(), OutputJSON, 120))

	var decoded struct {
		Okay    int         `json:"okay"`
		OKScore *float64    `json:"ok_score"`
		Items   []ReviewRow `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Okay)
	require.NotNil(t, decoded.OKScore)
	assert.InDelta(t, 0.5, *decoded.OKScore, 1e-9)
	assert.Len(t, decoded.Items, 2)
}

func TestWriteReviewCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReviewCSV(&buf, reviewFixture().Items))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"interaction_time", "session_time", "prompt", "response", "comment", "rating"}, records[0])
	assert.Equal(t, []string{
		"2024-01-01T00:00:01Z", "2024-01-01T00:00:00Z",
		"NPC Description:\nGrumpy smith\nGoal:\nSell a sword", "Fine.\nTake it.",
		"good, \"short\"", "okay",
	}, records[1])
	assert.Equal(t, []string{"t=20 ms", "", "no markers", "Hmm", "", "not_okay"}, records[2])
}

func TestWriteModels_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteModels(&buf, []string{"gpt"}, []string{"intro", "outro"}, OutputPlain))
	assert.Equal(t, "model\tgpt\nsituation\tintro\nsituation\toutro\n", buf.String())
}

func TestWriteSessions_Plain(t *testing.T) {
	start := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	sessions := []db.SessionSummary{
		{Session: models.Session{ID: 3, SessionTimestamp: &start, LLMName: "gpt", SourceFile: "/logs/a.json"}, InteractionCount: 4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSessions(&buf, sessions, OutputPlain))
	assert.Equal(t, "id\tsession_time\tllm\tinteractions\tsource_file\n3\t2024-02-01T08:00:00Z\tgpt\t4\t/logs/a.json\n", buf.String())
}

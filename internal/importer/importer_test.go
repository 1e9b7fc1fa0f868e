package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/llmlog/internal/db"
)

var importTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestImporter(t *testing.T) (*Importer, *db.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.Open(db.Config{Path: filepath.Join(t.TempDir(), "llmlog.db"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	batch := 0
	imp := New(store, logger,
		WithClock(func() time.Time { return importTime }),
		WithBatchIDs(func() string {
			batch++
			return fmt.Sprintf("batch-%d", batch)
		}),
	)
	return imp, store
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_Defaults(t *testing.T) {
	imp := New(nil, nil)
	assert.NotNil(t, imp.logger)
	assert.Len(t, imp.newBatchID(), 36)
	assert.False(t, imp.now().IsZero())
}

func TestImportPath_Dispatch(t *testing.T) {
	imp, _ := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()

	res, err := imp.ImportPath(ctx, writeFile(t, dir, "s.json", `{"llm_name":"gpt","interactions":[]}`), TimingOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Nil(t, res.Timing)
	assert.Equal(t, 1, res.Session.InsertedSessions)

	res, err = imp.ImportPath(ctx, writeFile(t, dir, "calls.log", `{"llm_name":"gpt","duration_ms":5}`), TimingOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Timing)
	assert.Equal(t, 1, res.Timing.Inserted)
	assert.Equal(t, FormatJSONL, res.Timing.Format)
}

func TestImportDir(t *testing.T) {
	imp, store := newTestImporter(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	writeFile(t, dir, "a.json", `{"llm_name":"gpt","interactions":[{"t_ms":0,"situation_id":"s","prompt":"p","response":"r"}]}`)
	writeFile(t, dir, "b.csv", "llm_name,duration_ms\ngpt,100\n")
	writeFile(t, dir, "broken.json", `[1,2,3]`)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, filepath.Join(dir, "nested"), "c.jsonl", `{"llm_name":"gpt","duration_ms":7}`)

	result, err := imp.ImportDir(context.Background(), dir, TimingOptions{})
	require.NoError(t, err)
	require.Len(t, result.Files, 3)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "broken.json")

	overview, err := store.PerformanceOverview(context.Background(), db.Filter{})
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.EqualValues(t, 2, overview[0].Count)
}

func TestImportDir_NotADirectory(t *testing.T) {
	imp, _ := newTestImporter(t)
	path := writeFile(t, t.TempDir(), "a.csv", "llm_name,duration_ms\n")

	_, err := imp.ImportDir(context.Background(), path, TimingOptions{})
	assert.Error(t, err)
}

func TestImportDir_Cancelled(t *testing.T) {
	imp, _ := newTestImporter(t)
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "llm_name,duration_ms\ngpt,100\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := imp.ImportDir(ctx, dir, TimingOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportGlob(t *testing.T) {
	imp, store := newTestImporter(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "day1", "run"), 0755))

	writeFile(t, dir, "top.jsonl", `{"llm_name":"gpt","duration_ms":1}`)
	writeFile(t, filepath.Join(dir, "day1"), "a.jsonl", `{"llm_name":"gpt","duration_ms":2}`)
	writeFile(t, filepath.Join(dir, "day1", "run"), "b.jsonl", `{"llm_name":"gpt","duration_ms":3}`)
	writeFile(t, filepath.Join(dir, "day1"), "skip.csv", "llm_name,duration_ms\ngpt,100\n")

	result, err := imp.ImportGlob(context.Background(), filepath.Join(dir, "**", "*.jsonl"), TimingOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Files, 3)
	for i := 1; i < len(result.Files); i++ {
		assert.Less(t, result.Files[i-1].Path, result.Files[i].Path)
	}

	durations, err := store.DurationsByModel(context.Background(), db.Filter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, durations["gpt"])
}

func TestImportGlob_NoMatches(t *testing.T) {
	imp, _ := newTestImporter(t)

	result, err := imp.ImportGlob(context.Background(), filepath.Join(t.TempDir(), "*.csv"), TimingOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
}

func TestHasGlobMeta(t *testing.T) {
	assert.True(t, HasGlobMeta("logs/**/*.csv"))
	assert.True(t, HasGlobMeta("run?.json"))
	assert.False(t, HasGlobMeta("logs/calls.csv"))
}

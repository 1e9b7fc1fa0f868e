package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileAndStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var stderr bytes.Buffer

	logger, closer, err := New(Options{Path: path, Level: slog.LevelInfo, Verbose: true, Stderr: &stderr})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("imported", "inserted", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=imported inserted=3")
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, stderr.String(), "msg=imported")
}

func TestNew_QuietByDefault(t *testing.T) {
	var stderr bytes.Buffer
	logger, closer, err := New(Options{Stderr: &stderr})
	require.NoError(t, err)
	defer closer.Close()

	logger.Warn("nobody listens")
	assert.Empty(t, stderr.String())
}

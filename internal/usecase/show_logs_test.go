package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inbox.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleLog = `[2026-10-01 09:00:00] [INFO] [capture] queued "a" as e1: remote network: offline
[2026-10-01 09:00:30] [INFO] [sync] attempted 1, succeeded 1
[2026-10-01 09:01:00] [WARN] [write] tag "x": upsert: boom
[2026-10-01 09:01:30] [INFO] [sync] attempted 0, succeeded 0
`

func TestShowLogs_Execute_All(t *testing.T) {
	path := writeLog(t, sampleLog)

	out, err := NewShowLogs(path).Execute(context.Background(), ShowLogsInput{})

	require.NoError(t, err)
	assert.Equal(t, path, out.LogPath)
	assert.Equal(t, sampleLog, out.Content)
}

func TestShowLogs_Execute_LastLines(t *testing.T) {
	path := writeLog(t, sampleLog)

	out, err := NewShowLogs(path).Execute(context.Background(), ShowLogsInput{Lines: 2})

	require.NoError(t, err)
	assert.Equal(t, "[2026-10-01 09:01:00] [WARN] [write] tag \"x\": upsert: boom\n"+
		"[2026-10-01 09:01:30] [INFO] [sync] attempted 0, succeeded 0\n", out.Content)
}

func TestShowLogs_Execute_Category(t *testing.T) {
	path := writeLog(t, sampleLog)

	out, err := NewShowLogs(path).Execute(context.Background(), ShowLogsInput{Category: "sync", Lines: 1})

	require.NoError(t, err)
	assert.Equal(t, "[2026-10-01 09:01:30] [INFO] [sync] attempted 0, succeeded 0\n", out.Content)
}

func TestShowLogs_Execute_Missing(t *testing.T) {
	_, err := NewShowLogs(filepath.Join(t.TempDir(), "nope.log")).Execute(context.Background(), ShowLogsInput{})
	assert.ErrorIs(t, err, domain.ErrNoLogFile)

	_, err = NewShowLogs("").Execute(context.Background(), ShowLogsInput{})
	assert.ErrorIs(t, err, domain.ErrNoLogFile)
}

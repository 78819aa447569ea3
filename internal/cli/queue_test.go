package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func (env *testEnv) enqueue(t *testing.T, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := env.queue.Append(context.Background(), domain.CaptureRecord{
			ClientID: "c-" + title,
			Kind:     domain.KindIdea,
			Title:    title,
			Status:   domain.StatusInbox,
			Tags:     []string{"t"},
		})
		require.NoError(t, err)
	}
}

func TestQueueListCommand_Table(t *testing.T) {
	env := newTestEnv(t)
	env.enqueue(t, "first", "second")
	_, err := env.queue.UpdateAttempt(context.Background(), "entry-2", "remote network: offline")
	require.NoError(t, err)

	stdout, _, err := execute(newQueueCommand(env.container), "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "LAST ERROR")
	assert.Contains(t, stdout, "entry-1")
	assert.Contains(t, stdout, "first")
	assert.Contains(t, stdout, "[t]")
	assert.Contains(t, stdout, "remote network: offline")
	assert.Less(t, strings.Index(stdout, "first"), strings.Index(stdout, "second"))
}

func TestQueueListCommand_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.enqueue(t, "first")

	stdout, _, err := execute(newQueueCommand(env.container), "list", "--format", "json")

	require.NoError(t, err)
	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "entry-1", views[0]["id"])
	payload, ok := views[0]["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "first", payload["title"])
	assert.Equal(t, "c-first", payload["clientId"])
}

func TestQueueListCommand_YAML(t *testing.T) {
	env := newTestEnv(t)
	env.enqueue(t, "first")

	stdout, _, err := execute(newQueueCommand(env.container), "list", "-o", "yaml")

	require.NoError(t, err)
	var views []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "entry-1", views[0]["id"])
	assert.Equal(t, 0, views[0]["attempts"])
}

func TestQueueListCommand_InvalidFormat(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := execute(newQueueCommand(env.container), "list", "--format", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")
}

func TestQueueCountCommand(t *testing.T) {
	env := newTestEnv(t)
	env.enqueue(t, "a", "b", "c")

	stdout, _, err := execute(newQueueCommand(env.container), "count")

	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)
}

func TestQueueDeadRequeuePurge(t *testing.T) {
	env := newTestEnv(t)
	env.enqueue(t, "doomed", "gone")
	ctx := context.Background()
	require.NoError(t, env.queue.DeadLetter(ctx, "entry-1", "too many failures"))
	require.NoError(t, env.queue.DeadLetter(ctx, "entry-2", "too many failures"))

	stdout, _, err := execute(newQueueCommand(env.container), "dead")
	require.NoError(t, err)
	assert.Contains(t, stdout, "doomed")
	assert.Contains(t, stdout, "gone")

	stdout, _, err = execute(newQueueCommand(env.container), "requeue", "entry-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"doomed"`)
	require.Len(t, env.queue.Entries, 1)
	assert.Equal(t, "doomed", env.queue.Entries[0].Payload.Title)

	stdout, _, err = execute(newQueueCommand(env.container), "purge", "entry-2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Purged entry-2")
	assert.Empty(t, env.queue.Dead)
}

func TestQueueRequeueCommand_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := execute(newQueueCommand(env.container), "requeue", "nope")

	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

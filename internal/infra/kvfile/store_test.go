package kvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	store := New(t.TempDir())

	value, ok, err := store.Get(context.Background(), "inbox.outbox")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestStore_UpdateAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := New(dir)
	ctx := context.Background()

	err := store.Update(ctx, "inbox.outbox", func(current []byte, ok bool) ([]byte, error) {
		assert.False(t, ok)
		assert.Nil(t, current)
		return []byte(`[1]`), nil
	})
	require.NoError(t, err)

	value, ok, err := store.Get(ctx, "inbox.outbox")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(value))

	// File lands where Path says, no temp file left behind
	_, err = os.Stat(store.Path("inbox.outbox"))
	require.NoError(t, err)
	_, err = os.Stat(store.Path("inbox.outbox") + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_UpdateErrorWritesNothing(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, New(dir).Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("persisted"), nil
	}))

	value, ok, err := New(dir).Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", string(value))
}

func TestStore_InvalidKey(t *testing.T) {
	store := New(t.TempDir())

	_, _, err := store.Get(context.Background(), "../escape")
	assert.Error(t, err)

	err = store.Update(context.Background(), "a/b", func([]byte, bool) ([]byte, error) { return nil, nil })
	assert.Error(t, err)
}

func TestStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// separate Store values share only the lock file
			err := New(dir).Update(ctx, "counter", func(current []byte, _ bool) ([]byte, error) {
				return append(current, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, _, err := New(dir).Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, value, writers)
}

func TestStore_CanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, "k", func([]byte, bool) ([]byte, error) { return []byte("x"), nil })
	assert.ErrorIs(t, err, context.Canceled)
}

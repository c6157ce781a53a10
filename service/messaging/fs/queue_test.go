package fs

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/kproc/service/messaging"
)

type payload struct {
	PID  uint64 `json:"pid"`
	Kind string `json:"kind"`
}

func TestQueue(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	queue, err := NewQueue[payload](fs, QueueConfig{BaseURL: t.TempDir()})
	require.NoError(t, err)

	for _, dir := range []string{queue.pendingDir, queue.processingDir, queue.completedDir, queue.failedDir} {
		exists, err := fs.Exists(ctx, dir)
		assert.NoError(t, err)
		assert.True(t, exists, dir)
	}

	kinds := []string{"spawn", "dispatch", "exit"}
	for i, kind := range kinds {
		require.NoError(t, queue.Publish(ctx, &payload{PID: uint64(i + 1), Kind: kind}))
	}
	pending, err := queue.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)

	var consumed []string
	for i := range kinds {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NotNil(t, message)
		consumed = append(consumed, message.T().Kind)
		if i == 2 {
			assert.NoError(t, message.Nack(assert.AnError))
		} else {
			assert.NoError(t, message.Ack())
		}
		assert.ErrorIs(t, message.Ack(), messaging.ErrProcessed)
	}
	assert.Equal(t, kinds, consumed)

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Nil(t, message)

	completed, err := fs.List(ctx, queue.completedDir)
	require.NoError(t, err)
	assert.Equal(t, 2, countFiles(completed))
	failed, err := fs.List(ctx, queue.failedDir)
	require.NoError(t, err)
	assert.Equal(t, 1, countFiles(failed))
	processing, err := fs.List(ctx, queue.processingDir)
	require.NoError(t, err)
	assert.Equal(t, 0, countFiles(processing))
}

func TestNewQueue_EmptyURL(t *testing.T) {
	_, err := NewQueue[payload](afs.New(), QueueConfig{})
	assert.Error(t, err)
}

func countFiles(objects []storage.Object) int {
	count := 0
	for _, obj := range objects {
		if !obj.IsDir() && path.Ext(obj.Name()) == ".json" {
			count++
		}
	}
	return count
}

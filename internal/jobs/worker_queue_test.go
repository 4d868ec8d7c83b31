package jobs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/testutil/mocks"
	"github.com/vytor/vocabflash/internal/worker"
)

func TestWorkerQueue_SubmitsToPool(t *testing.T) {
	pool := worker.NewPool(1, 2)
	queue := jobs.NewWorkerQueue(pool,
		new(mocks.MockWordRepository),
		new(mocks.MockSessionStatsRepository),
		new(mocks.MockKeyValueStore),
		new(mocks.MockVocabularyService),
		24*time.Hour,
	)

	require.NoError(t, queue.EnqueueMaintenance())
	require.NoError(t, queue.EnqueueCatalogImport(catalog.ImportConfig{FilePath: "words.csv"}))
	assert.Equal(t, 2, pool.QueueSize())

	assert.ErrorIs(t, queue.EnqueueMaintenance(), worker.ErrQueueFull)
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	pool := worker.NewPool(1, 2)
	pool.Stop()
	queue := jobs.NewWorkerQueue(pool, nil, nil, nil, nil, time.Hour)

	assert.ErrorIs(t, queue.EnqueueMaintenance(), worker.ErrPoolStopped)
}

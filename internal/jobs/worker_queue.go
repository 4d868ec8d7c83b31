package jobs

import (
	"time"

	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	words     repository.WordRepository
	sessions  repository.SessionStatsRepository
	kv        repository.KeyValueStore
	reloader  worker.CatalogReloader
	retention time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	words repository.WordRepository,
	sessions repository.SessionStatsRepository,
	kv repository.KeyValueStore,
	reloader worker.CatalogReloader,
	retention time.Duration,
) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		words:     words,
		sessions:  sessions,
		kv:        kv,
		reloader:  reloader,
		retention: retention,
	}
}

func (q *WorkerQueue) EnqueueCatalogImport(cfg catalog.ImportConfig) error {
	return q.pool.Submit(&worker.CatalogImportJob{
		Words:    q.words,
		Reloader: q.reloader,
		Config:   cfg,
	})
}

func (q *WorkerQueue) EnqueueMaintenance() error {
	return q.pool.Submit(&worker.MaintenanceJob{
		KV:        q.kv,
		Sessions:  q.sessions,
		Retention: q.retention,
	})
}

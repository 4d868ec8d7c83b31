package jobs

import "github.com/vytor/vocabflash/internal/catalog"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueCatalogImport(cfg catalog.ImportConfig) error
	EnqueueMaintenance() error
}

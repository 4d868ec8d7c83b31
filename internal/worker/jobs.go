package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/repository"
)

// CatalogReloader re-reads the catalog after it changed in storage.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// CatalogImportJob reads a catalog file, stores its entries and reloads the
// in-memory catalog.
type CatalogImportJob struct {
	Words    repository.WordRepository
	Reloader CatalogReloader
	Config   catalog.ImportConfig
}

func (j *CatalogImportJob) Name() string { return "catalog_import" }

func (j *CatalogImportJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("path", j.Config.FilePath)
	log.Info("starting catalog import")

	words, result, err := catalog.ImportFile(ctx, j.Config)
	if err != nil {
		return err
	}
	valid, _ := catalog.Validate(ctx, words)
	if len(valid) > 0 {
		existing, err := j.Words.LoadCatalog(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		valid = catalog.ExcludeIDClashes(existing, valid, result)
	}
	for _, e := range result.Errors {
		log.Warn("skipped: %s", e)
	}
	if len(valid) == 0 {
		log.Warn("catalog file has no usable entries")
		return nil
	}
	written, err := j.Words.UpsertCatalog(ctx, valid)
	if err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}
	log.Info("stored %d catalog entries (%d processed, %d skipped)", written, result.Processed, result.Skipped)

	if j.Reloader == nil {
		return nil
	}
	return j.Reloader.Reload(ctx)
}

// MaintenanceJob removes expired key-value entries and session statistics
// older than the retention window.
type MaintenanceJob struct {
	KV        repository.KeyValueStore
	Sessions  repository.SessionStatsRepository
	Retention time.Duration
	Now       func() time.Time
}

func (j *MaintenanceJob) Name() string { return "maintenance" }

func (j *MaintenanceJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	purged, err := j.KV.PurgeExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired values: %w", err)
	}
	pruned, err := j.Sessions.PruneBefore(ctx, now.Add(-j.Retention))
	if err != nil {
		return fmt.Errorf("prune session stats: %w", err)
	}

	log.WithFields(logger.Fields{"purged": purged, "pruned": pruned}).Info("maintenance finished")
	return nil
}

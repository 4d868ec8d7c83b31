package repository

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// WordRepository handles the catalog and per-word statistics
type WordRepository interface {
	LoadCatalog(ctx context.Context) ([]models.Word, error)
	UpsertCatalog(ctx context.Context, words []models.Word) (int, error)
	ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	CountWords(ctx context.Context, filter models.WordFilter) (int, error)
	LoadProgress(ctx context.Context) ([]models.WordProgress, error)
	SaveProgress(ctx context.Context, progress []models.WordProgress) error
	InsertReviewHistory(ctx context.Context, entry models.ReviewEntry) error
	ReviewHistory(ctx context.Context, wordID int64, limit int) ([]models.ReviewEntry, error)
}

// SessionStatsRepository handles finished-group statistics
type SessionStatsRepository interface {
	Insert(ctx context.Context, rec models.SessionRecord) (int64, error)
	List(ctx context.Context, since time.Time) ([]models.SessionRecord, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// KeyValueStore holds versioned JSON values with optional expiry. Values
// written under another data version, or past their expiry, read as absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// TransferRepository replaces all learner data in one transaction
type TransferRepository interface {
	ReplaceAll(ctx context.Context, data models.ExportDocument) error
}

// Well-known key-value keys.
const (
	KeyUserSettings   = "userSettings"
	KeyCurrentSession = "currentSession"
	KeyDataBackup     = "dataBackup"
)

// DataVersion tags every stored value and export document.
const DataVersion = "1.0"

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

type transferRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTransferRepository creates a new TransferRepository implementation
func NewTransferRepository(db *sql.DB) repository.TransferRepository {
	return &transferRepository{db: db, now: time.Now}
}

// ReplaceAll swaps stored progress for the contents of data. Session stats
// and settings are replaced only when data carries them. Progress for words
// missing from the catalog is skipped.
func (r *transferRepository) ReplaceAll(ctx context.Context, data models.ExportDocument) error {
	log := logger.FromContext(ctx).WithPrefix("transfer_repo")
	log.Info("replacing learner data: %d progress rows, %d session rows", len(data.WordProgress), len(data.SessionStats))

	now := r.now()
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM word_progress`); err != nil {
			return err
		}
		for _, p := range data.WordProgress {
			if err := upsertProgress(ctx, tx, p); err != nil {
				return err
			}
		}

		if data.SessionStats != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session_stats`); err != nil {
				return err
			}
			for _, rec := range data.SessionStats {
				if rec.RecordedAt.IsZero() {
					rec.RecordedAt = recordedAtFor(rec, now)
				}
				if _, err := insertSessionRecord(ctx, tx, rec); err != nil {
					return err
				}
			}
		}

		return r.replaceSettings(ctx, tx, data.UserSettings, now)
	})
	if err != nil {
		log.Error("failed to replace learner data: %v", err)
		return err
	}
	log.Info("learner data replaced")
	return nil
}

func (r *transferRepository) replaceSettings(ctx context.Context, tx *sql.Tx, settings *models.UserSettings, now time.Time) error {
	if settings == nil {
		return nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return setValue(ctx, tx, repository.KeyUserSettings, string(raw), repository.DataVersion, now, 0)
}

// recordedAtFor derives a timestamp for imported records that only carry a
// study date.
func recordedAtFor(rec models.SessionRecord, fallback time.Time) time.Time {
	if rec.StudyDate != "" {
		if d, err := time.Parse(time.DateOnly, rec.StudyDate); err == nil {
			return d
		}
	}
	if !rec.StartedAt.IsZero() {
		return rec.StartedAt
	}
	return fallback
}

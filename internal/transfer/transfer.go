// Package transfer moves learner data in and out: the versioned JSON backup
// document and a spreadsheet progress report.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

var (
	// ErrInvalidDocument marks import data that failed parsing or validation.
	ErrInvalidDocument = errors.New("invalid import document")
	// ErrNoBackup is returned by RestoreBackup when nothing was backed up.
	ErrNoBackup = errors.New("no backup available")
)

// ImportReport summarises a successful import.
type ImportReport struct {
	WordProgress    int    `json:"wordProgress"`
	SessionStats    int    `json:"sessionStats"`
	SettingsApplied bool   `json:"settingsApplied"`
	Version         string `json:"version"`
	VersionMismatch bool   `json:"versionMismatch"`
}

// Transfer exports and imports learner data
type Transfer struct {
	words    repository.WordRepository
	sessions repository.SessionStatsRepository
	kv       repository.KeyValueStore
	store    repository.TransferRepository
	now      func() time.Time
}

// Option configures a Transfer.
type Option func(*Transfer)

// WithClock overrides the clock used for export dates.
func WithClock(now func() time.Time) Option {
	return func(t *Transfer) { t.now = now }
}

// New creates a Transfer over the given repositories.
func New(words repository.WordRepository, sessions repository.SessionStatsRepository,
	kv repository.KeyValueStore, store repository.TransferRepository, opts ...Option) *Transfer {
	t := &Transfer{words: words, sessions: sessions, kv: kv, store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Export collects all learner data into a document.
func (t *Transfer) Export(ctx context.Context) (models.ExportDocument, error) {
	log := logger.FromContext(ctx).WithPrefix("transfer")

	progress, err := t.words.LoadProgress(ctx)
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("load progress: %w", err)
	}
	sessions, err := t.sessions.List(ctx, time.Time{})
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("load session stats: %w", err)
	}

	var settings *models.UserSettings
	var stored models.UserSettings
	found, err := t.kv.Get(ctx, repository.KeyUserSettings, &stored)
	if err != nil {
		log.Warn("could not read user settings: %v", err)
	} else if found {
		settings = &stored
	}

	if progress == nil {
		progress = []models.WordProgress{}
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	log.Debug("exporting %d progress rows and %d sessions", len(progress), len(sessions))
	return models.ExportDocument{
		WordProgress: progress,
		SessionStats: sessions,
		UserSettings: settings,
		Version:      repository.DataVersion,
		ExportDate:   t.now().UTC(),
	}, nil
}

// Encode renders doc as indented JSON.
func Encode(doc models.ExportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode validates raw against the document schema and parses it.
func Decode(raw []byte) (models.ExportDocument, error) {
	var doc models.ExportDocument
	if err := validateDocument(raw); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Import replaces learner data with the contents of raw. Current data is
// backed up first; nothing is changed when validation or the backup fails.
func (t *Transfer) Import(ctx context.Context, raw []byte) (*ImportReport, error) {
	log := logger.FromContext(ctx).WithPrefix("transfer")

	doc, err := Decode(raw)
	if err != nil {
		log.Warn("rejected import: %v", err)
		return nil, err
	}

	report := &ImportReport{
		WordProgress:    len(doc.WordProgress),
		SessionStats:    len(doc.SessionStats),
		SettingsApplied: doc.UserSettings != nil,
		Version:         doc.Version,
	}
	if doc.Version != repository.DataVersion {
		report.VersionMismatch = true
		log.Warn("importing document version %q into version %s", doc.Version, repository.DataVersion)
	}

	if err := t.backup(ctx); err != nil {
		return nil, fmt.Errorf("backup current data: %w", err)
	}
	if err := t.store.ReplaceAll(ctx, doc); err != nil {
		return nil, fmt.Errorf("replace data: %w", err)
	}

	log.Info("imported %d progress rows and %d sessions", report.WordProgress, report.SessionStats)
	return report, nil
}

func (t *Transfer) backup(ctx context.Context) error {
	current, err := t.Export(ctx)
	if err != nil {
		return err
	}
	return t.kv.Set(ctx, repository.KeyDataBackup, current, 0)
}

// RestoreBackup re-applies the data saved by the last import.
func (t *Transfer) RestoreBackup(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("transfer")

	var doc models.ExportDocument
	found, err := t.kv.Get(ctx, repository.KeyDataBackup, &doc)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if !found {
		return ErrNoBackup
	}
	if doc.WordProgress == nil {
		doc.WordProgress = []models.WordProgress{}
	}
	if err := t.store.ReplaceAll(ctx, doc); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	log.Info("backup from %s restored", doc.ExportDate.Format(time.RFC3339))
	return nil
}

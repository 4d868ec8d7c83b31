package cli

import (
	"context"

	"github.com/vytor/vocabflash/internal/config"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
	"github.com/vytor/vocabflash/internal/transfer"
)

// app holds the storage and service graph shared by the commands.
type app struct {
	db       *db.DB
	words    repository.WordRepository
	sessions repository.SessionStatsRepository
	kv       repository.KeyValueStore
	vocab    services.VocabularyService
}

// openStore opens the database and repositories without loading the
// catalog into a service.
func openStore(ctx context.Context, cfg config.Config) (*app, error) {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &app{
		db:       database,
		words:    sqlite.NewWordRepository(database.DB),
		sessions: sqlite.NewSessionStatsRepository(database.DB),
		kv:       sqlite.NewKeyValueStore(database.DB),
	}, nil
}

func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	a, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	data := transfer.New(a.words, a.sessions, a.kv, sqlite.NewTransferRepository(a.db.DB))
	a.vocab = services.NewVocabularyService(ctx,
		services.Deps{Words: a.words, Sessions: a.sessions, KV: a.kv, Transfer: data},
		services.WithGroupSize(cfg.GroupSize),
		services.WithDirection(models.Direction(cfg.Direction)),
		services.WithSnapshotTTL(cfg.SnapshotTTL),
		services.WithSessionRetention(retention(cfg)),
	)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

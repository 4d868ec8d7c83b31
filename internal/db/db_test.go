package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vocab.db")

	database, err := db.Open(ctx, path)
	require.NoError(t, err)

	var applied int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 4, applied)
	require.NoError(t, database.Close())

	reopened, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 4, applied)

	for _, table := range []string{"words", "word_progress", "review_history", "session_stats", "kv_store"} {
		var name string
		err := reopened.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

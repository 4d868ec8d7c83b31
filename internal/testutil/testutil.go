package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// It is limited to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Words returns n complete catalog entries with ids 1..n.
func Words(n int) []models.Word {
	words := make([]models.Word, n)
	for i := range words {
		id := int64(i + 1)
		words[i] = models.Word{
			ID:                   id,
			Term:                 fmt.Sprintf("wort%d", id),
			TranslationPrimary:   fmt.Sprintf("word %d", id),
			TranslationSecondary: fmt.Sprintf("词 %d", id),
			Category:             "noun",
		}
	}
	return words
}

// WordPtrs returns pointers to fresh copies of words.
func WordPtrs(words []models.Word) []*models.Word {
	out := make([]*models.Word, len(words))
	for i := range words {
		w := words[i]
		out[i] = &w
	}
	return out
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

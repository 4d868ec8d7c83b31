package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/repository"
)

type kvRow struct {
	Key         string        `db:"key"`
	Value       string        `db:"value"`
	Version     string        `db:"version"`
	UpdatedAtMs int64         `db:"updated_at_ms"`
	ExpiresAtMs sql.NullInt64 `db:"expires_at_ms"`
}

type kvStore struct {
	db      *sqlx.DB
	version string
	now     func() time.Time
}

// KVOption configures the key-value store.
type KVOption func(*kvStore)

// WithKVClock overrides the clock used for expiry.
func WithKVClock(now func() time.Time) KVOption {
	return func(s *kvStore) { s.now = now }
}

// WithKVVersion overrides the data version stamped on every value.
func WithKVVersion(version string) KVOption {
	return func(s *kvStore) { s.version = version }
}

// NewKeyValueStore creates a new KeyValueStore implementation
func NewKeyValueStore(db *sql.DB, opts ...KVOption) repository.KeyValueStore {
	s := &kvStore{
		db:      sqlx.NewDb(db, "sqlite3"),
		version: repository.DataVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *kvStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_store")

	var row kvRow
	err := s.db.GetContext(ctx, &row, `
SELECT key, value, version, updated_at_ms, expires_at_ms
FROM kv_store
WHERE key = ?
`, key)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return false, err
	}

	if row.Version != s.version {
		log.Warn("discarding %s: stored version %s, want %s", key, row.Version, s.version)
		return false, s.Remove(ctx, key)
	}
	if row.ExpiresAtMs.Valid && row.ExpiresAtMs.Int64 <= millis(s.now()) {
		log.Debug("discarding expired key: %s", key)
		return false, s.Remove(ctx, key)
	}

	if err := json.Unmarshal([]byte(row.Value), dest); err != nil {
		log.Warn("discarding unreadable value for %s: %v", key, err)
		return false, s.Remove(ctx, key)
	}
	return true, nil
}

func (s *kvStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	log := logger.FromContext(ctx).WithPrefix("kv_store")
	log.Debug("setting key %s (ttl=%s)", key, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return setValue(ctx, s.db, key, string(data), s.version, s.now(), ttl)
}

func setValue(ctx context.Context, ex execer, key, value, version string, now time.Time, ttl time.Duration) error {
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: millis(now.Add(ttl)), Valid: true}
	}
	_, err := ex.ExecContext(ctx, `
INSERT INTO kv_store (key, value, version, updated_at_ms, expires_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    version = excluded.version,
    updated_at_ms = excluded.updated_at_ms,
    expires_at_ms = excluded.expires_at_ms
`, key, value, version, millis(now), expires)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_store").Error("failed to write key %s: %v", key, err)
	}
	return err
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_store")
	log.Debug("removing key %s", key)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		log.Error("failed to remove key %s: %v", key, err)
		return err
	}
	return nil
}

// PurgeExpired deletes expired values and values written under another
// data version.
func (s *kvStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_store")

	res, err := s.db.ExecContext(ctx, `
DELETE FROM kv_store
WHERE (expires_at_ms IS NOT NULL AND expires_at_ms <= ?) OR version <> ?
`, millis(now), s.version)
	if err != nil {
		log.Error("failed to purge expired keys: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("purged %d keys", n)
	return n, nil
}

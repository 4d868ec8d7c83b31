package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

type sessionStatsRow struct {
	models.SessionRecord
	RecordedAtMs int64 `db:"recorded_at_ms"`
}

type sessionStatsRepository struct {
	db *sqlx.DB
}

// NewSessionStatsRepository creates a new SessionStatsRepository implementation
func NewSessionStatsRepository(db *sql.DB) repository.SessionStatsRepository {
	return &sessionStatsRepository{db: sqlx.NewDb(db, "sqlite3")}
}

func (r *sessionStatsRepository) Insert(ctx context.Context, rec models.SessionRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_stats_repo")
	log.Debug("inserting session stats: session_id=%s, answers=%d", rec.SessionID, rec.TotalAnswers)

	id, err := insertSessionRecord(ctx, r.db, rec)
	if err != nil {
		log.Error("failed to insert session stats: %v", err)
		return 0, err
	}
	return id, nil
}

func insertSessionRecord(ctx context.Context, ex execer, rec models.SessionRecord) (int64, error) {
	if rec.Kind == "" {
		rec.Kind = models.SessionKindStudy
	}
	if rec.StudyDate == "" {
		rec.StudyDate = rec.RecordedAt.UTC().Format(time.DateOnly)
	}
	sqlStr, args, err := sqlBuilder.Insert("session_stats").
		Columns("session_id", "kind", "total_answers", "correct_answers", "words_reviewed", "accuracy",
			"duration_ms", "started_at", "recorded_at_ms", "study_date").
		Values(rec.SessionID, rec.Kind, rec.TotalAnswers, rec.CorrectAnswers, rec.WordsReviewed, rec.Accuracy,
			rec.DurationMs, rec.StartedAt.UTC(), millis(rec.RecordedAt), rec.StudyDate).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := ex.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *sessionStatsRepository) List(ctx context.Context, since time.Time) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("session_stats_repo")
	log.Debug("listing session stats since %s", since.Format(time.RFC3339))

	query := sqlBuilder.Select("id", "session_id", "kind", "total_answers", "correct_answers", "words_reviewed", "accuracy",
		"duration_ms", "started_at", "recorded_at_ms", "study_date").
		From("session_stats").
		OrderBy("recorded_at_ms ASC", "id ASC")
	if !since.IsZero() {
		query = query.Where(squirrel.GtOrEq{"recorded_at_ms": millis(since)})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []sessionStatsRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		log.Error("failed to list session stats: %v", err)
		return nil, err
	}

	records := make([]models.SessionRecord, len(rows))
	for i, row := range rows {
		rec := row.SessionRecord
		rec.StartedAt = rec.StartedAt.UTC()
		rec.RecordedAt = fromMillis(row.RecordedAtMs)
		records[i] = rec
	}
	log.Debug("listed %d session stats", len(records))
	return records, nil
}

func (r *sessionStatsRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_stats_repo")

	sqlStr, args, err := sqlBuilder.Delete("session_stats").
		Where(squirrel.Lt{"recorded_at_ms": millis(cutoff)}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to prune session stats: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("pruned %d session stats older than %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

type wordRepository struct {
	db  *sql.DB
	dbx *sqlx.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sql.DB) repository.WordRepository {
	return &wordRepository{db: db, dbx: sqlx.NewDb(db, "sqlite3")}
}

func (r *wordRepository) LoadCatalog(ctx context.Context) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("loading catalog")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, term, translation_primary, translation_secondary, category
FROM words
ORDER BY id
`)
	if err != nil {
		log.Error("failed to query catalog: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.Term, &w.TranslationPrimary, &w.TranslationSecondary, &w.Category); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		words = append(words, w)
	}
	log.Debug("loaded %d catalog words", len(words))
	return words, rows.Err()
}

func (r *wordRepository) UpsertCatalog(ctx context.Context, words []models.Word) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("upserting %d catalog words", len(words))

	written := 0
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, w := range words {
			var id any
			if w.ID > 0 {
				clash, err := idTakenByOtherTerm(ctx, tx, w)
				if err != nil {
					return err
				}
				if clash {
					log.Warn("skipping %q: id %d belongs to another word", w.Term, w.ID)
					continue
				}
				id = w.ID
			}
			res, err := tx.ExecContext(ctx, `
INSERT INTO words (id, term, translation_primary, translation_secondary, category)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(term) DO UPDATE SET
    translation_primary = excluded.translation_primary,
    translation_secondary = excluded.translation_secondary,
    category = excluded.category
`, id, w.Term, w.TranslationPrimary, w.TranslationSecondary, w.Category)
			if err != nil {
				return fmt.Errorf("upsert word %q: %w", w.Term, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			written += int(n)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to upsert catalog: %v", err)
		return 0, err
	}
	log.Debug("catalog upserted: %d rows", written)
	return written, nil
}

func idTakenByOtherTerm(ctx context.Context, tx *sql.Tx, w models.Word) (bool, error) {
	var term string
	err := tx.QueryRowContext(ctx, `SELECT term FROM words WHERE id = ?`, w.ID).Scan(&term)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check id %d: %w", w.ID, err)
	}
	return term != w.Term, nil
}

func (r *wordRepository) filtered(query squirrel.SelectBuilder, filter models.WordFilter) squirrel.SelectBuilder {
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"w.category": filter.Category})
	}
	if filter.MinProficiency != nil {
		query = query.Where(squirrel.GtOrEq{"COALESCE(p.proficiency, 0)": *filter.MinProficiency})
	}
	if filter.MaxProficiency != nil {
		query = query.Where(squirrel.LtOrEq{"COALESCE(p.proficiency, 0)": *filter.MaxProficiency})
	}
	if filter.ReviewedOnly {
		query = query.Where(squirrel.NotEq{"p.last_reviewed_at": nil})
	}
	return query
}

var wordOrderColumns = map[string]string{
	"id":          "w.id",
	"term":        "w.term",
	"category":    "w.category",
	"proficiency": "COALESCE(p.proficiency, 0)",
	"mistakes":    "COALESCE(p.mistake_count, 0)",
	"reviewed":    "p.last_reviewed_at",
}

func (r *wordRepository) ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("listing words: category=%s, limit=%d, offset=%d", filter.Category, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"w.id", "w.term", "w.translation_primary", "w.translation_secondary", "w.category",
		"COALESCE(p.proficiency, 0)", "p.last_reviewed_at", "COALESCE(p.review_count, 0)",
		"COALESCE(p.mistake_count, 0)", "COALESCE(p.consecutive_correct, 0)",
		"COALESCE(p.difficulty, 'normal')", "p.first_learned_at",
	).
		From("words w").
		LeftJoin("word_progress p ON p.word_id = w.id")
	query = r.filtered(query, filter)

	orderCol, ok := wordOrderColumns[filter.OrderBy]
	if !ok {
		orderCol = "w.id"
	}
	orderDir := "ASC"
	if filter.OrderDir == "desc" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderCol + " " + orderDir)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		var last, first sql.NullTime
		if err := rows.Scan(&w.ID, &w.Term, &w.TranslationPrimary, &w.TranslationSecondary, &w.Category,
			&w.Proficiency, &last, &w.ReviewCount, &w.MistakeCount, &w.ConsecutiveCorrect, &w.Difficulty, &first); err != nil {
			log.Error("failed to scan word row: %v", err)
			return nil, err
		}
		w.LastReviewedAt = timePtr(last)
		w.FirstLearnedAt = timePtr(first)
		words = append(words, w)
	}
	log.Debug("listed %d words", len(words))
	return words, rows.Err()
}

func (r *wordRepository) CountWords(ctx context.Context, filter models.WordFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	query := r.filtered(sqlBuilder.Select("COUNT(*)").From("words w").LeftJoin("word_progress p ON p.word_id = w.id"), filter)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count words: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *wordRepository) LoadProgress(ctx context.Context) ([]models.WordProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("loading word progress")

	rows, err := r.db.QueryContext(ctx, `
SELECT p.word_id, w.term, p.proficiency, p.last_reviewed_at, p.review_count, p.mistake_count,
       p.consecutive_correct, p.difficulty, p.first_learned_at
FROM word_progress p
JOIN words w ON w.id = p.word_id
ORDER BY p.word_id
`)
	if err != nil {
		log.Error("failed to query word progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var progress []models.WordProgress
	for rows.Next() {
		var p models.WordProgress
		var last, first sql.NullTime
		if err := rows.Scan(&p.WordID, &p.Term, &p.Proficiency, &last, &p.ReviewCount, &p.MistakeCount,
			&p.ConsecutiveCorrect, &p.Difficulty, &first); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		p.LastReviewedAt = timePtr(last)
		p.FirstLearnedAt = timePtr(first)
		progress = append(progress, p)
	}
	log.Debug("loaded progress for %d words", len(progress))
	return progress, rows.Err()
}

func (r *wordRepository) SaveProgress(ctx context.Context, progress []models.WordProgress) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("saving progress for %d words", len(progress))

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, p := range progress {
			if err := upsertProgress(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save progress: %v", err)
	}
	return err
}

// upsertProgress writes p, silently skipping ids missing from the catalog.
func upsertProgress(ctx context.Context, ex execer, p models.WordProgress) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO word_progress (word_id, proficiency, last_reviewed_at, review_count, mistake_count,
                           consecutive_correct, difficulty, first_learned_at)
SELECT ?, ?, ?, ?, ?, ?, ?, ?
WHERE EXISTS (SELECT 1 FROM words WHERE id = ?)
ON CONFLICT(word_id) DO UPDATE SET
    proficiency = excluded.proficiency,
    last_reviewed_at = excluded.last_reviewed_at,
    review_count = excluded.review_count,
    mistake_count = excluded.mistake_count,
    consecutive_correct = excluded.consecutive_correct,
    difficulty = excluded.difficulty,
    first_learned_at = excluded.first_learned_at,
    updated_at = CURRENT_TIMESTAMP
`, p.WordID, max(p.Proficiency, 0), utc(p.LastReviewedAt), max(p.ReviewCount, 0), max(p.MistakeCount, 0),
		max(p.ConsecutiveCorrect, 0), p.Difficulty, utc(p.FirstLearnedAt), p.WordID)
	if err != nil {
		return fmt.Errorf("save progress for word %d: %w", p.WordID, err)
	}
	return nil
}

func (r *wordRepository) InsertReviewHistory(ctx context.Context, entry models.ReviewEntry) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting review history: word_id=%d, phase=%s, correct=%t", entry.WordID, entry.Phase, entry.Correct)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (word_id, phase, correct, user_answer, answered_at)
VALUES (?, ?, ?, ?, ?)
`, entry.WordID, entry.Phase, entry.Correct, entry.UserAnswer, entry.AnsweredAt.UTC())
	if err != nil {
		log.Error("failed to insert review history: %v", err)
	}
	return err
}

func (r *wordRepository) ReviewHistory(ctx context.Context, wordID int64, limit int) ([]models.ReviewEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("loading review history: word_id=%d, limit=%d", wordID, limit)

	query := sqlBuilder.Select("id", "word_id", "phase", "correct", "user_answer", "answered_at").
		From("review_history").
		Where(squirrel.Eq{"word_id": wordID}).
		OrderBy("answered_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var entries []models.ReviewEntry
	if err := r.dbx.SelectContext(ctx, &entries, sqlStr, args...); err != nil {
		log.Error("failed to load review history: %v", err)
		return nil, err
	}
	return entries, nil
}

package models

import "time"

// Word is a catalog entry plus the learner's statistics for it.
type Word struct {
	ID                   int64      `json:"id"`
	Term                 string     `json:"term"`
	TranslationPrimary   string     `json:"translation_primary"`
	TranslationSecondary string     `json:"translation_secondary"`
	Category             string     `json:"category"`
	Proficiency          int        `json:"proficiency"`
	LastReviewedAt       *time.Time `json:"last_reviewed_at"`
	ReviewCount          int        `json:"review_count"`
	MistakeCount         int        `json:"mistake_count"`
	ConsecutiveCorrect   int        `json:"consecutive_correct"`
	Difficulty           Difficulty `json:"difficulty"`
	FirstLearnedAt       *time.Time `json:"first_learned_at"`
}

// Translation returns the translation a prompt in direction d expects.
func (w *Word) Translation(d Direction) string {
	if d == DirectionSecondary {
		return w.TranslationSecondary
	}
	return w.TranslationPrimary
}

// MissingField names the first empty content field, or "" if the entry is
// complete.
func (w *Word) MissingField() string {
	switch {
	case w.Term == "":
		return "term"
	case w.TranslationPrimary == "":
		return "translation_primary"
	case w.TranslationSecondary == "":
		return "translation_secondary"
	case w.Category == "":
		return "category"
	}
	return ""
}

// Progress extracts the statistics part of w.
func (w *Word) Progress() WordProgress {
	return WordProgress{
		WordID:             w.ID,
		Term:               w.Term,
		Proficiency:        w.Proficiency,
		LastReviewedAt:     w.LastReviewedAt,
		ReviewCount:        w.ReviewCount,
		MistakeCount:       w.MistakeCount,
		ConsecutiveCorrect: w.ConsecutiveCorrect,
		Difficulty:         w.Difficulty,
		FirstLearnedAt:     w.FirstLearnedAt,
	}
}

// ApplyProgress copies saved statistics onto w. Negative counters are
// clamped to zero.
func (w *Word) ApplyProgress(p WordProgress) {
	w.Proficiency = max(p.Proficiency, 0)
	w.LastReviewedAt = p.LastReviewedAt
	w.ReviewCount = max(p.ReviewCount, 0)
	w.MistakeCount = max(p.MistakeCount, 0)
	w.ConsecutiveCorrect = max(p.ConsecutiveCorrect, 0)
	w.Difficulty = p.Difficulty
	w.FirstLearnedAt = p.FirstLearnedAt
}

// WordProgress is the persisted statistics of one word, keyed by WordID.
type WordProgress struct {
	WordID             int64      `json:"id"`
	Term               string     `json:"term,omitempty"`
	Proficiency        int        `json:"proficiency"`
	LastReviewedAt     *time.Time `json:"lastReviewedAt"`
	ReviewCount        int        `json:"reviewCount"`
	MistakeCount       int        `json:"mistakes"`
	ConsecutiveCorrect int        `json:"consecutiveCorrect"`
	Difficulty         Difficulty `json:"difficulty"`
	FirstLearnedAt     *time.Time `json:"firstLearnedAt,omitempty"`
}

// WordFilter narrows a word listing.
type WordFilter struct {
	Category       string
	MinProficiency *int
	MaxProficiency *int
	ReviewedOnly   bool
	Limit          int
	Offset         int
	OrderBy        string
	OrderDir       string
}

// ReviewEntry is one graded answer kept for history.
type ReviewEntry struct {
	ID         int64     `json:"id" db:"id"`
	WordID     int64     `json:"word_id" db:"word_id"`
	Phase      Phase     `json:"phase" db:"phase"`
	Correct    bool      `json:"correct" db:"correct"`
	UserAnswer string    `json:"user_answer" db:"user_answer"`
	AnsweredAt time.Time `json:"answered_at" db:"answered_at"`
}

package models

import (
	"math"
	"time"
)

// SessionStats counts answers within one study group.
type SessionStats struct {
	TotalAnswers    int       `json:"totalAnswers"`
	CorrectAnswers  int       `json:"correctAnswers"`
	ReviewedWordIDs []int64   `json:"reviewedWordIds,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
}

// WordsReviewed is the number of distinct words answered at least once.
func (s SessionStats) WordsReviewed() int {
	return len(s.ReviewedWordIDs)
}

// Accuracy is the rounded percentage of correct answers, 0 with no answers.
func (s SessionStats) Accuracy() int {
	if s.TotalAnswers == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectAnswers) / float64(s.TotalAnswers) * 100))
}

// Duration is the time elapsed since StartedAt.
func (s SessionStats) Duration(now time.Time) time.Duration {
	if s.StartedAt.IsZero() || now.Before(s.StartedAt) {
		return 0
	}
	return now.Sub(s.StartedAt)
}

// View renders the derived statistics as of now.
func (s SessionStats) View(now time.Time) StatsView {
	return StatsView{
		TotalAnswers:   s.TotalAnswers,
		CorrectAnswers: s.CorrectAnswers,
		WordsReviewed:  s.WordsReviewed(),
		Accuracy:       s.Accuracy(),
		DurationMs:     s.Duration(now).Milliseconds(),
	}
}

// StatsView is the read model of SessionStats.
type StatsView struct {
	TotalAnswers   int   `json:"totalAnswers"`
	CorrectAnswers int   `json:"correctAnswers"`
	WordsReviewed  int   `json:"wordsReviewed"`
	Accuracy       int   `json:"accuracy"`
	DurationMs     int64 `json:"durationMs"`
}

// SessionKind tells a regular study group apart from a review-only one.
type SessionKind string

const (
	SessionKindStudy  SessionKind = "study"
	SessionKindReview SessionKind = "review"
)

// SessionRecord is the persisted outcome of one finished group.
type SessionRecord struct {
	ID             int64       `json:"-" db:"id"`
	SessionID      string      `json:"sessionId" db:"session_id"`
	Kind           SessionKind `json:"kind" db:"kind"`
	TotalAnswers   int         `json:"totalAnswers" db:"total_answers"`
	CorrectAnswers int         `json:"correctAnswers" db:"correct_answers"`
	WordsReviewed  int         `json:"wordsReviewed" db:"words_reviewed"`
	Accuracy       int         `json:"accuracy" db:"accuracy"`
	DurationMs     int64       `json:"duration" db:"duration_ms"`
	StartedAt      time.Time   `json:"startedAt" db:"started_at"`
	RecordedAt     time.Time   `json:"recordedAt" db:"-"`
	StudyDate      string      `json:"date" db:"study_date"`
}

// WrongAnswer is a dictation miss kept for requeueing.
type WrongAnswer struct {
	WordID        int64  `json:"wordId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// SessionSnapshot is everything needed to resume a paused group.
type SessionSnapshot struct {
	SessionID    string        `json:"sessionId"`
	Kind         SessionKind   `json:"kind"`
	WordIDs      []int64       `json:"wordIds"`
	Cursor       int           `json:"cursor"`
	Phase        Phase         `json:"phase"`
	WrongAnswers []WrongAnswer `json:"wrongAnswers"`
	Stats        SessionStats  `json:"stats"`
	Direction    Direction     `json:"direction"`
	SavedAt      time.Time     `json:"savedAt"`
}

// UserSettings are the learner's preferences.
type UserSettings struct {
	Direction Direction `json:"learningMode"`
	GroupSize int       `json:"groupSize"`
}

// LearningSummary aggregates progress across the whole catalog.
type LearningSummary struct {
	TotalWords       int       `json:"totalWords"`
	MasteredWords    int       `json:"masteredWords"`
	LearningWords    int       `json:"learningWords"`
	NewWords         int       `json:"newWords"`
	ReviewDue        int       `json:"reviewDue"`
	TotalStudyTimeMs int64     `json:"totalStudyTime"`
	AverageAccuracy  int       `json:"averageAccuracy"`
	StudyDays        int       `json:"studyDays"`
	LastStudyDate    *string   `json:"lastStudyDate"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// ExportDocument is the versioned backup format.
type ExportDocument struct {
	WordProgress []WordProgress  `json:"wordProgress"`
	SessionStats []SessionRecord `json:"sessionStats"`
	UserSettings *UserSettings   `json:"userSettings"`
	Version      string          `json:"version"`
	ExportDate   time.Time       `json:"exportDate"`
}

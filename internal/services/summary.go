package services

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/transfer"
)

// MasteredProficiency is the proficiency from which a word counts as mastered.
const MasteredProficiency = 3

// Summary aggregates progress across the catalog and the recorded sessions.
// Session storage errors leave the session fields at zero.
func (s *vocabularyService) Summary(ctx context.Context) models.LearningSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	summary := models.LearningSummary{
		TotalWords:  len(s.catalog),
		ReviewDue:   s.sched.CountDueForReview(s.catalog, now),
		GeneratedAt: now,
	}
	for _, w := range s.catalog {
		switch {
		case w.Proficiency >= MasteredProficiency:
			summary.MasteredWords++
		case w.Proficiency > 0:
			summary.LearningWords++
		default:
			summary.NewWords++
		}
	}

	records := s.recentSessions(ctx)
	if len(records) == 0 {
		return summary
	}
	days := make(map[string]struct{})
	accuracy := 0
	for _, r := range records {
		summary.TotalStudyTimeMs += r.DurationMs
		accuracy += r.Accuracy
		days[r.StudyDate] = struct{}{}
	}
	summary.AverageAccuracy = int(math.Round(float64(accuracy) / float64(len(records))))
	summary.StudyDays = len(days)
	last := records[len(records)-1].StudyDate
	summary.LastStudyDate = &last
	return summary
}

func (s *vocabularyService) recentSessions(ctx context.Context) []models.SessionRecord {
	records, err := s.sessions.List(ctx, s.now().Add(-s.retention))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Warn("failed to load session stats: %v", err)
		return nil
	}
	return records
}

// Schedule plans reviews of learned words over the next daysAhead days.
func (s *vocabularyService) Schedule(ctx context.Context, daysAhead int) []curve.ScheduleDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	if daysAhead < 1 {
		daysAhead = 7
	}
	return curve.Schedule(s.catalog, s.now(), daysAhead)
}

// Efficiency rates the current session when it has answers, otherwise the
// sessions recorded within the retention window.
func (s *vocabularyService) Efficiency(ctx context.Context) curve.Efficiency {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats := s.engine.Stats(); stats.TotalAnswers > 0 {
		return curve.AnalyzeEfficiency(stats.CorrectAnswers, stats.TotalAnswers,
			stats.WordsReviewed(), stats.Duration(s.now()))
	}

	var correct, total, reviewed int
	var studied time.Duration
	for _, r := range s.recentSessions(ctx) {
		correct += r.CorrectAnswers
		total += r.TotalAnswers
		reviewed += r.WordsReviewed
		studied += time.Duration(r.DurationMs) * time.Millisecond
	}
	return curve.AnalyzeEfficiency(correct, total, reviewed, studied)
}

func (s *vocabularyService) Words(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error) {
	log := logger.FromContext(ctx).WithPrefix("vocabulary")

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}
	words, err := s.words.ListWords(ctx, filter)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.words.CountWords(ctx, filter)
	if err != nil {
		log.Error("failed to count words: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	if words == nil {
		words = []models.Word{}
	}
	return words, total, nil
}

func (s *vocabularyService) Export(ctx context.Context) (models.ExportDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveProgress(ctx, s.group...)
	doc, err := s.transfer.Export(ctx)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Error("export failed: %v", err)
		return models.ExportDocument{}, errors.NewInternalError(err)
	}
	return doc, nil
}

// Import replaces learner data and reloads the catalog. Any active group is
// dropped without saving so the imported progress is kept.
func (s *vocabularyService) Import(ctx context.Context, raw []byte) (*transfer.ImportReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("vocabulary")
	report, err := s.transfer.Import(ctx, raw)
	if err != nil {
		if stderrors.Is(err, transfer.ErrInvalidDocument) {
			return nil, errors.NewInvalidImportError(err)
		}
		log.Error("import failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.afterReplace(ctx)
	return report, nil
}

// RestoreBackup re-applies the data saved before the last import.
func (s *vocabularyService) RestoreBackup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transfer.RestoreBackup(ctx); err != nil {
		if stderrors.Is(err, transfer.ErrNoBackup) {
			return errors.NewNotFoundError("backup", "dataBackup")
		}
		logger.FromContext(ctx).WithPrefix("vocabulary").Error("restore failed: %v", err)
		return errors.NewInternalError(err)
	}

	s.afterReplace(ctx)
	return nil
}

func (s *vocabularyService) afterReplace(ctx context.Context) {
	s.engine.Reset()
	s.group = nil
	s.sessionID = ""
	s.loadSettings(ctx)
	s.engine.SetDirection(s.settings.Direction)
	if err := s.reload(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Warn("reload after import: %v", err)
	}
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/drill"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/transfer"
)

// MockVocabularyService is a mock implementation of services.VocabularyService
type MockVocabularyService struct {
	mock.Mock
}

func wordOrNil(v any) *models.Word {
	if v == nil {
		return nil
	}
	return v.(*models.Word)
}

func (m *MockVocabularyService) StartSession(ctx context.Context) *models.Word {
	return wordOrNil(m.Called(ctx).Get(0))
}

func (m *MockVocabularyService) StartReviewSession(ctx context.Context) *models.Word {
	return wordOrNil(m.Called(ctx).Get(0))
}

func (m *MockVocabularyService) CurrentProgress(ctx context.Context) drill.Progress {
	return m.Called(ctx).Get(0).(drill.Progress)
}

func (m *MockVocabularyService) SubmitAnswer(ctx context.Context, input string, phase models.Phase) (drill.Result, bool) {
	args := m.Called(ctx, input, phase)
	return args.Get(0).(drill.Result), args.Bool(1)
}

func (m *MockVocabularyService) Advance(ctx context.Context) *models.Word {
	return wordOrNil(m.Called(ctx).Get(0))
}

func (m *MockVocabularyService) SessionStats(ctx context.Context) models.StatsView {
	return m.Called(ctx).Get(0).(models.StatsView)
}

func (m *MockVocabularyService) MultipleChoiceOptions(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockVocabularyService) Pause(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockVocabularyService) Resume(ctx context.Context) *models.Word {
	return wordOrNil(m.Called(ctx).Get(0))
}

func (m *MockVocabularyService) Exit(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockVocabularyService) SetDirection(ctx context.Context, d models.Direction) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockVocabularyService) Summary(ctx context.Context) models.LearningSummary {
	return m.Called(ctx).Get(0).(models.LearningSummary)
}

func (m *MockVocabularyService) Schedule(ctx context.Context, daysAhead int) []curve.ScheduleDay {
	args := m.Called(ctx, daysAhead)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]curve.ScheduleDay)
}

func (m *MockVocabularyService) Efficiency(ctx context.Context) curve.Efficiency {
	return m.Called(ctx).Get(0).(curve.Efficiency)
}

func (m *MockVocabularyService) Words(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Word), args.Int(1), args.Error(2)
}

func (m *MockVocabularyService) Export(ctx context.Context) (models.ExportDocument, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ExportDocument), args.Error(1)
}

func (m *MockVocabularyService) Import(ctx context.Context, raw []byte) (*transfer.ImportReport, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.ImportReport), args.Error(1)
}

func (m *MockVocabularyService) RestoreBackup(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockVocabularyService) Reload(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

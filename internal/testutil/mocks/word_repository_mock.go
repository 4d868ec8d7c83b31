package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/models"
)

// MockWordRepository is a mock implementation of repository.WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) LoadCatalog(ctx context.Context) ([]models.Word, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockWordRepository) UpsertCatalog(ctx context.Context, words []models.Word) (int, error) {
	args := m.Called(ctx, words)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) ListWords(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Word), args.Error(1)
}

func (m *MockWordRepository) CountWords(ctx context.Context, filter models.WordFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) LoadProgress(ctx context.Context) ([]models.WordProgress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WordProgress), args.Error(1)
}

func (m *MockWordRepository) SaveProgress(ctx context.Context, progress []models.WordProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockWordRepository) InsertReviewHistory(ctx context.Context, entry models.ReviewEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWordRepository) ReviewHistory(ctx context.Context, wordID int64, limit int) ([]models.ReviewEntry, error) {
	args := m.Called(ctx, wordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEntry), args.Error(1)
}

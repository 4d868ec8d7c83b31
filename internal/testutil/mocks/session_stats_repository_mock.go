package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/models"
)

// MockSessionStatsRepository is a mock implementation of repository.SessionStatsRepository
type MockSessionStatsRepository struct {
	mock.Mock
}

func (m *MockSessionStatsRepository) Insert(ctx context.Context, rec models.SessionRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionStatsRepository) List(ctx context.Context, since time.Time) ([]models.SessionRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockSessionStatsRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

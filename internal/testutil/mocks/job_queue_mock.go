package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/catalog"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueCatalogImport(cfg catalog.ImportConfig) error {
	args := m.Called(cfg)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueMaintenance() error {
	args := m.Called()
	return args.Error(0)
}

package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/testutil"
)

type SessionStatsRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionStatsRepository
}

func (s *SessionStatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionStatsRepository(s.db)
}

func (s *SessionStatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func record(id string, recorded time.Time) models.SessionRecord {
	return models.SessionRecord{
		SessionID:      id,
		TotalAnswers:   10,
		CorrectAnswers: 8,
		WordsReviewed:  5,
		Accuracy:       80,
		DurationMs:     90_000,
		StartedAt:      recorded.Add(-90 * time.Second),
		RecordedAt:     recorded,
	}
}

func (s *SessionStatsRepositorySuite) TestInsertAndList() {
	ctx := context.Background()
	day1 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	id, err := s.repo.Insert(ctx, record("b", day2))
	s.Require().NoError(err)
	s.Positive(id)
	_, err = s.repo.Insert(ctx, record("a", day1))
	s.Require().NoError(err)

	all, err := s.repo.List(ctx, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("a", all[0].SessionID)
	s.Equal(models.SessionKindStudy, all[0].Kind)
	s.Equal("2024-03-01", all[0].StudyDate)
	s.Equal(int64(90_000), all[0].DurationMs)
	s.Equal(5, all[0].WordsReviewed)
	s.Equal(day1, all[0].RecordedAt)
	s.WithinDuration(day1.Add(-90*time.Second), all[0].StartedAt, time.Second)

	recent, err := s.repo.List(ctx, day2)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("b", recent[0].SessionID)
}

func (s *SessionStatsRepositorySuite) TestPruneBefore() {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, age := range []time.Duration{40 * 24 * time.Hour, 31 * 24 * time.Hour, time.Hour} {
		rec := record(string(rune('a'+i)), now.Add(-age))
		_, err := s.repo.Insert(ctx, rec)
		s.Require().NoError(err)
	}

	n, err := s.repo.PruneBefore(ctx, now.Add(-30*24*time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	left, err := s.repo.List(ctx, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(left, 1)
	s.Equal("c", left[0].SessionID)
}

func TestSessionStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionStatsRepositorySuite))
}

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

type WordRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.WordRepository
}

func (s *WordRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewWordRepository(s.db)
}

func (s *WordRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *WordRepositorySuite) seed(n int) []models.Word {
	words := testutil.Words(n)
	written, err := s.repo.UpsertCatalog(context.Background(), words)
	s.Require().NoError(err)
	s.Require().Equal(n, written)
	return words
}

func (s *WordRepositorySuite) TestUpsertCatalog_InsertsAndUpdates() {
	ctx := context.Background()
	words := s.seed(3)

	words[1].TranslationPrimary = "changed"
	_, err := s.repo.UpsertCatalog(ctx, words[1:2])
	s.Require().NoError(err)

	catalog, err := s.repo.LoadCatalog(ctx)
	s.Require().NoError(err)
	s.Require().Len(catalog, 3)
	s.Equal(int64(1), catalog[0].ID)
	s.Equal("changed", catalog[1].TranslationPrimary)
	s.Equal("wort3", catalog[2].Term)
}

func (s *WordRepositorySuite) TestUpsertCatalog_AssignsIDsWhenMissing() {
	ctx := context.Background()
	s.seed(2)

	_, err := s.repo.UpsertCatalog(ctx, []models.Word{{
		Term: "neu", TranslationPrimary: "new", TranslationSecondary: "新", Category: "adjective",
	}})
	s.Require().NoError(err)

	catalog, err := s.repo.LoadCatalog(ctx)
	s.Require().NoError(err)
	s.Require().Len(catalog, 3)
	s.Equal("neu", catalog[2].Term)
	s.Equal(int64(3), catalog[2].ID)
}

func (s *WordRepositorySuite) TestUpsertCatalog_SkipsIDOwnedByAnotherTerm() {
	ctx := context.Background()
	s.seed(3)

	written, err := s.repo.UpsertCatalog(ctx, []models.Word{
		{Term: "neu", TranslationPrimary: "new", TranslationSecondary: "新", Category: "adjective"},
		{ID: 1, Term: "alt", TranslationPrimary: "old", TranslationSecondary: "旧", Category: "adjective"},
		{ID: 2, Term: "wort2", TranslationPrimary: "renamed", TranslationSecondary: "词", Category: "noun"},
	})
	s.Require().NoError(err)
	s.Equal(2, written)

	catalog, err := s.repo.LoadCatalog(ctx)
	s.Require().NoError(err)
	s.Require().Len(catalog, 4)
	s.Equal("wort1", catalog[0].Term)
	s.Equal("renamed", catalog[1].TranslationPrimary)
	s.Equal("neu", catalog[3].Term)
}

func (s *WordRepositorySuite) TestSaveAndLoadProgress() {
	ctx := context.Background()
	s.seed(3)
	reviewed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := s.repo.SaveProgress(ctx, []models.WordProgress{
		{
			WordID:             2,
			Proficiency:        3,
			LastReviewedAt:     &reviewed,
			ReviewCount:        5,
			MistakeCount:       1,
			ConsecutiveCorrect: 2,
			Difficulty:         models.DifficultyHard,
			FirstLearnedAt:     &reviewed,
		},
		{WordID: 99, Proficiency: 4},
	})
	s.Require().NoError(err)

	progress, err := s.repo.LoadProgress(ctx)
	s.Require().NoError(err)
	s.Require().Len(progress, 1, "progress for unknown words is skipped")

	p := progress[0]
	s.Equal(int64(2), p.WordID)
	s.Equal("wort2", p.Term)
	s.Equal(3, p.Proficiency)
	s.Equal(5, p.ReviewCount)
	s.Equal(1, p.MistakeCount)
	s.Equal(2, p.ConsecutiveCorrect)
	s.Equal(models.DifficultyHard, p.Difficulty)
	s.Require().NotNil(p.LastReviewedAt)
	s.WithinDuration(reviewed, *p.LastReviewedAt, time.Second)
}

func (s *WordRepositorySuite) TestSaveProgress_OverwritesAndClamps() {
	ctx := context.Background()
	s.seed(1)

	s.Require().NoError(s.repo.SaveProgress(ctx, []models.WordProgress{{WordID: 1, Proficiency: 2, ReviewCount: 3}}))
	s.Require().NoError(s.repo.SaveProgress(ctx, []models.WordProgress{{WordID: 1, Proficiency: 1, ReviewCount: -4}}))

	progress, err := s.repo.LoadProgress(ctx)
	s.Require().NoError(err)
	s.Require().Len(progress, 1)
	s.Equal(1, progress[0].Proficiency)
	s.Equal(0, progress[0].ReviewCount)
	s.Nil(progress[0].LastReviewedAt)
}

func (s *WordRepositorySuite) TestListWords_Filters() {
	ctx := context.Background()
	s.seed(4)
	reviewed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.SaveProgress(ctx, []models.WordProgress{
		{WordID: 1, Proficiency: 4, LastReviewedAt: &reviewed},
		{WordID: 3, Proficiency: 2, LastReviewedAt: &reviewed},
	}))

	minTwo := 2
	words, err := s.repo.ListWords(ctx, models.WordFilter{MinProficiency: &minTwo, OrderBy: "proficiency", OrderDir: "desc"})
	s.Require().NoError(err)
	s.Require().Len(words, 2)
	s.Equal(int64(1), words[0].ID)
	s.Equal(int64(3), words[1].ID)
	s.Require().NotNil(words[0].LastReviewedAt)

	maxZero := 0
	fresh, err := s.repo.ListWords(ctx, models.WordFilter{MaxProficiency: &maxZero})
	s.Require().NoError(err)
	s.Len(fresh, 2)
	s.Equal(models.DifficultyNormal, fresh[0].Difficulty)
	s.Nil(fresh[0].LastReviewedAt)

	count, err := s.repo.CountWords(ctx, models.WordFilter{ReviewedOnly: true})
	s.Require().NoError(err)
	s.Equal(2, count)

	page, err := s.repo.ListWords(ctx, models.WordFilter{Limit: 2, Offset: 2, OrderBy: "bogus"})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(int64(3), page[0].ID)
}

func (s *WordRepositorySuite) TestReviewHistory_NewestFirst() {
	ctx := context.Background()
	s.seed(2)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.InsertReviewHistory(ctx, models.ReviewEntry{
		WordID: 1, Phase: models.PhaseMultipleChoice, Correct: true, UserAnswer: "word 1", AnsweredAt: base,
	}))
	s.Require().NoError(s.repo.InsertReviewHistory(ctx, models.ReviewEntry{
		WordID: 1, Phase: models.PhaseDictation, Correct: false, UserAnswer: "wrot1", AnsweredAt: base.Add(time.Minute),
	}))
	s.Require().NoError(s.repo.InsertReviewHistory(ctx, models.ReviewEntry{
		WordID: 2, Phase: models.PhaseRecognition, Correct: true, UserAnswer: "know", AnsweredAt: base,
	}))

	entries, err := s.repo.ReviewHistory(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.PhaseDictation, entries[0].Phase)
	s.False(entries[0].Correct)
	s.Equal("wrot1", entries[0].UserAnswer)
	s.Equal(models.PhaseMultipleChoice, entries[1].Phase)
	s.True(entries[1].Correct)

	limited, err := s.repo.ReviewHistory(ctx, 1, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func TestWordRepositorySuite(t *testing.T) {
	suite.Run(t, new(WordRepositorySuite))
}

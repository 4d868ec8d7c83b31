package services_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/vocabflash/internal/drill"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
	"github.com/vytor/vocabflash/internal/testutil"
	"github.com/vytor/vocabflash/internal/testutil/mocks"
	"github.com/vytor/vocabflash/internal/transfer"
)

type VocabularyServiceSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sql.DB
	words    repository.WordRepository
	sessions repository.SessionStatsRepository
	kv       repository.KeyValueStore
	now      time.Time
	svc      services.VocabularyService
}

func (s *VocabularyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())
	s.words = sqlite.NewWordRepository(s.db)
	s.sessions = sqlite.NewSessionStatsRepository(s.db)
	s.now = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s.kv = sqlite.NewKeyValueStore(s.db, sqlite.WithKVClock(func() time.Time { return s.now }))

	_, err := s.words.UpsertCatalog(s.ctx, testutil.Words(4))
	s.Require().NoError(err)
	s.svc = s.newService()
}

func (s *VocabularyServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *VocabularyServiceSuite) newService() services.VocabularyService {
	clock := func() time.Time { return s.now }
	return services.NewVocabularyService(s.ctx, services.Deps{
		Words:    s.words,
		Sessions: s.sessions,
		KV:       s.kv,
		Transfer: transfer.New(s.words, s.sessions, s.kv, sqlite.NewTransferRepository(s.db), transfer.WithClock(clock)),
	},
		services.WithClock(clock),
		services.WithRand(rand.New(rand.NewSource(7))),
		services.WithGroupSize(3),
	)
}

func (s *VocabularyServiceSuite) answerCorrectly(p drill.Progress) {
	s.Require().NotNil(p.CurrentWord)
	var input string
	switch p.PromptPhase {
	case models.PhaseMultipleChoice:
		input = p.CurrentWord.TranslationPrimary
	case models.PhaseRecognition:
		input = "know"
	case models.PhaseDictation:
		input = p.CurrentWord.Term
	default:
		s.FailNow("unexpected prompt phase", p.PromptPhase.String())
	}

	res, ok := s.svc.SubmitAnswer(s.ctx, input, p.PromptPhase)
	s.Require().True(ok)
	s.Require().True(res.Correct)
}

// finishGroup answers every prompt correctly until the group completes and
// returns the number of answers given.
func (s *VocabularyServiceSuite) finishGroup() int {
	for answers := 0; answers < 100; answers++ {
		p := s.svc.CurrentProgress(s.ctx)
		if p.CurrentWord == nil {
			return answers
		}
		s.answerCorrectly(p)
		s.svc.Advance(s.ctx)
	}
	s.FailNow("group did not complete")
	return 0
}

func (s *VocabularyServiceSuite) TestStartSession() {
	first := s.svc.StartSession(s.ctx)
	s.Require().NotNil(first)
	s.Contains([]int64{1, 2, 3}, first.ID)

	p := s.svc.CurrentProgress(s.ctx)
	s.Equal(models.PhaseMultipleChoice, p.Phase)
	s.Equal(models.PhaseMultipleChoice, p.PromptPhase)
	s.Equal(1, p.Position)
	s.Equal(3, p.GroupSize)
	s.Equal(first.ID, p.CurrentWord.ID)

	again := s.svc.CurrentProgress(s.ctx)
	s.Equal(p, again, "reading progress does not change state")
}

func (s *VocabularyServiceSuite) TestCompletedGroupIsPersisted() {
	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.Equal(9, s.finishGroup())
	s.Nil(s.svc.Advance(s.ctx))

	progress, err := s.words.LoadProgress(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(progress, 3)
	for _, p := range progress {
		s.Equal(3, p.Proficiency)
		s.Equal(3, p.ReviewCount)
		s.Require().NotNil(p.LastReviewedAt)
		s.WithinDuration(s.now, *p.LastReviewedAt, time.Second)

		history, err := s.words.ReviewHistory(s.ctx, p.WordID, 10)
		s.Require().NoError(err)
		s.Len(history, 3)
	}

	records, err := s.sessions.List(s.ctx, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(9, records[0].TotalAnswers)
	s.Equal(9, records[0].CorrectAnswers)
	s.Equal(100, records[0].Accuracy)
	s.Equal(3, records[0].WordsReviewed)
	s.Equal(models.SessionKindStudy, records[0].Kind)
	s.NotEmpty(records[0].SessionID)

	summary := s.svc.Summary(s.ctx)
	s.Equal(4, summary.TotalWords)
	s.Equal(3, summary.MasteredWords)
	s.Equal(0, summary.LearningWords)
	s.Equal(1, summary.NewWords)
	s.Equal(0, summary.ReviewDue)
	s.Equal(100, summary.AverageAccuracy)
	s.Equal(1, summary.StudyDays)
	s.Require().NotNil(summary.LastStudyDate)
	s.Equal("2024-03-10", *summary.LastStudyDate)

	eff := s.svc.Efficiency(s.ctx)
	s.Equal(100, eff.Accuracy)
}

func (s *VocabularyServiceSuite) TestEfficiencyCountsDistinctWordsAcrossSessions() {
	for _, id := range []string{"a", "b"} {
		_, err := s.sessions.Insert(s.ctx, models.SessionRecord{
			SessionID:      id,
			TotalAnswers:   9,
			CorrectAnswers: 9,
			WordsReviewed:  3,
			Accuracy:       100,
			DurationMs:     60_000,
			StartedAt:      s.now.Add(-time.Hour),
			RecordedAt:     s.now.Add(-time.Hour),
		})
		s.Require().NoError(err)
	}

	eff := s.svc.Efficiency(s.ctx)
	s.Equal(100, eff.Accuracy)
	s.Equal(3.0, eff.WordsPerMinute)
}

func (s *VocabularyServiceSuite) TestSubmitWithoutSession() {
	_, ok := s.svc.SubmitAnswer(s.ctx, "word 1", models.PhaseMultipleChoice)
	s.False(ok)
	s.Nil(s.svc.Advance(s.ctx))
	s.Zero(s.svc.SessionStats(s.ctx).TotalAnswers)
}

func (s *VocabularyServiceSuite) TestWrongAnswerIsCountedAndSaved() {
	first := s.svc.StartSession(s.ctx)
	s.Require().NotNil(first)

	res, ok := s.svc.SubmitAnswer(s.ctx, "definitely wrong", models.PhaseMultipleChoice)
	s.Require().True(ok)
	s.False(res.Correct)
	s.Equal(first.TranslationPrimary, res.Expected)

	stats := s.svc.SessionStats(s.ctx)
	s.Equal(1, stats.TotalAnswers)
	s.Equal(0, stats.CorrectAnswers)
	s.Equal(0, stats.Accuracy)

	progress, err := s.words.LoadProgress(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(progress, 1)
	s.Equal(first.ID, progress[0].WordID)
	s.Equal(1, progress[0].MistakeCount)
	s.Nil(progress[0].LastReviewedAt)
}

func (s *VocabularyServiceSuite) TestPauseAndResume() {
	s.False(s.svc.Pause(s.ctx), "nothing to pause")
	s.Nil(s.svc.Resume(s.ctx))

	s.Require().NotNil(s.svc.StartSession(s.ctx))
	p := s.svc.CurrentProgress(s.ctx)
	s.answerCorrectly(p)

	s.True(s.svc.Pause(s.ctx))
	s.Nil(s.svc.CurrentProgress(s.ctx).CurrentWord)

	restarted := s.newService()
	resumed := restarted.Resume(s.ctx)
	s.Require().NotNil(resumed)
	s.Equal(p.CurrentWord.ID, resumed.ID)
	s.Equal(1, resumed.Proficiency)

	after := restarted.CurrentProgress(s.ctx)
	s.Equal(1, after.Stats.TotalAnswers)
	s.Equal(3, after.GroupSize)

	var snap models.SessionSnapshot
	found, err := s.kv.Get(s.ctx, repository.KeyCurrentSession, &snap)
	s.Require().NoError(err)
	s.False(found, "snapshot is consumed by resume")
}

func (s *VocabularyServiceSuite) TestPausedSnapshotExpires() {
	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.True(s.svc.Pause(s.ctx))

	s.now = s.now.Add(241 * time.Hour)
	s.Nil(s.newService().Resume(s.ctx))
}

func (s *VocabularyServiceSuite) TestExit() {
	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.svc.Exit(s.ctx)

	records, err := s.sessions.List(s.ctx, time.Time{})
	s.Require().NoError(err)
	s.Empty(records, "sessions without answers are not recorded")

	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.answerCorrectly(s.svc.CurrentProgress(s.ctx))
	s.svc.Exit(s.ctx)

	records, err = s.sessions.List(s.ctx, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(1, records[0].TotalAnswers)
	s.Nil(s.svc.CurrentProgress(s.ctx).CurrentWord)
}

func (s *VocabularyServiceSuite) TestSetDirection() {
	err := s.svc.SetDirection(s.ctx, models.Direction("sideways"))
	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Equal(errors.ErrCodeValidation, appErr.Code)

	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.Require().NoError(s.svc.SetDirection(s.ctx, models.DirectionSecondary))

	current := s.svc.CurrentProgress(s.ctx).CurrentWord
	options := s.svc.MultipleChoiceOptions(s.ctx)
	s.Len(options, 4)
	s.Contains(options, current.TranslationSecondary)

	res, ok := s.svc.SubmitAnswer(s.ctx, current.TranslationSecondary, models.PhaseMultipleChoice)
	s.Require().True(ok)
	s.True(res.Correct)

	var settings models.UserSettings
	found, err := s.kv.Get(s.ctx, repository.KeyUserSettings, &settings)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(models.DirectionSecondary, settings.Direction)
	s.Equal(3, settings.GroupSize)
}

func (s *VocabularyServiceSuite) TestReviewSession() {
	s.Nil(s.svc.StartReviewSession(s.ctx), "nothing learned yet")

	report, err := s.svc.Import(s.ctx, []byte(`{"wordProgress": [
		{"id": 4, "proficiency": 3, "reviewCount": 2, "lastReviewedAt": "2024-03-01T10:00:00Z"}
	]}`))
	s.Require().NoError(err)
	s.Equal(1, report.WordProgress)

	summary := s.svc.Summary(s.ctx)
	s.Equal(1, summary.MasteredWords)
	s.Equal(1, summary.ReviewDue)

	first := s.svc.StartReviewSession(s.ctx)
	s.Require().NotNil(first)
	s.Equal(int64(4), first.ID)
	s.Equal(1, s.svc.CurrentProgress(s.ctx).GroupSize)

	schedule := s.svc.Schedule(s.ctx, 7)
	s.Require().NotEmpty(schedule)
	s.Equal(int64(4), schedule[0].Entries[0].WordID)
}

func (s *VocabularyServiceSuite) TestImportErrors() {
	_, err := s.svc.Import(s.ctx, []byte(`{"version": "1.0"}`))
	appErr, ok := errors.As(err)
	s.Require().True(ok)
	s.Equal(errors.ErrCodeInvalidImport, appErr.Code)

	err = s.svc.RestoreBackup(s.ctx)
	appErr, ok = errors.As(err)
	s.Require().True(ok)
	s.Equal(errors.ErrCodeNotFound, appErr.Code)
}

func (s *VocabularyServiceSuite) TestImportDropsActiveGroupAndRestore() {
	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.answerCorrectly(s.svc.CurrentProgress(s.ctx))

	_, err := s.svc.Import(s.ctx, []byte(`{"wordProgress": []}`))
	s.Require().NoError(err)
	s.Nil(s.svc.CurrentProgress(s.ctx).CurrentWord)
	s.Equal(4, s.svc.Summary(s.ctx).NewWords)

	s.Require().NoError(s.svc.RestoreBackup(s.ctx))
	summary := s.svc.Summary(s.ctx)
	s.Equal(3, summary.NewWords)
	s.Equal(1, summary.LearningWords)
}

func (s *VocabularyServiceSuite) TestReloadPicksUpCatalogChanges() {
	_, err := s.words.UpsertCatalog(s.ctx, []models.Word{{
		Term: "neu", TranslationPrimary: "new", TranslationSecondary: "新", Category: "adjective",
	}})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Reload(s.ctx))
	s.Equal(5, s.svc.Summary(s.ctx).TotalWords)
}

func (s *VocabularyServiceSuite) TestWords() {
	minOne := 1
	words, total, err := s.svc.Words(s.ctx, models.WordFilter{MinProficiency: &minOne})
	s.Require().NoError(err)
	s.Empty(words)
	s.NotNil(words)
	s.Equal(0, total)

	words, total, err = s.svc.Words(s.ctx, models.WordFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(words, 2)
	s.Equal(4, total)

	_, _, err = s.svc.Words(s.ctx, models.WordFilter{Limit: -1})
	s.Error(err)
}

func (s *VocabularyServiceSuite) TestExport() {
	s.Require().NotNil(s.svc.StartSession(s.ctx))
	s.answerCorrectly(s.svc.CurrentProgress(s.ctx))

	doc, err := s.svc.Export(s.ctx)
	s.Require().NoError(err)
	s.Equal(repository.DataVersion, doc.Version)
	s.Len(doc.WordProgress, 1)
}

func TestVocabularyServiceSuite(t *testing.T) {
	suite.Run(t, new(VocabularyServiceSuite))
}

func TestVocabularyService_StorageFailuresFallBack(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("database is locked")

	words := new(mocks.MockWordRepository)
	words.On("LoadCatalog", mock.Anything).Return(nil, boom)
	words.On("SaveProgress", mock.Anything, mock.Anything).Return(boom)
	words.On("InsertReviewHistory", mock.Anything, mock.Anything).Return(boom)

	sessions := new(mocks.MockSessionStatsRepository)
	sessions.On("List", mock.Anything, mock.Anything).Return(nil, boom)

	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, repository.KeyUserSettings, mock.Anything).Return(false, boom)

	svc := services.NewVocabularyService(ctx, services.Deps{Words: words, Sessions: sessions, KV: kv},
		services.WithRand(rand.New(rand.NewSource(1))))

	summary := svc.Summary(ctx)
	assert.Equal(t, 54, summary.TotalWords)
	assert.Equal(t, 54, summary.NewWords)
	assert.Nil(t, summary.LastStudyDate)

	first := svc.StartSession(ctx)
	require.NotNil(t, first)

	res, ok := svc.SubmitAnswer(ctx, first.TranslationPrimary, models.PhaseMultipleChoice)
	require.True(t, ok)
	assert.True(t, res.Correct)

	p := svc.CurrentProgress(ctx)
	assert.Equal(t, 1, p.CurrentWord.Proficiency)

	words.AssertCalled(t, "SaveProgress", mock.Anything, mock.Anything)
	words.AssertCalled(t, "InsertReviewHistory", mock.Anything, mock.Anything)
	words.AssertNotCalled(t, "LoadProgress", mock.Anything)
}

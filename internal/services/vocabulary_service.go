package services

import (
	"context"
	stderrors "errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/drill"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/scheduler"
	"github.com/vytor/vocabflash/internal/transfer"
)

// VocabularyService runs study sessions over the word catalog. Calls are
// serialized; invalid operations report false or nil rather than an error.
type VocabularyService interface {
	StartSession(ctx context.Context) *models.Word
	StartReviewSession(ctx context.Context) *models.Word
	CurrentProgress(ctx context.Context) drill.Progress
	SubmitAnswer(ctx context.Context, input string, phase models.Phase) (drill.Result, bool)
	Advance(ctx context.Context) *models.Word
	SessionStats(ctx context.Context) models.StatsView
	MultipleChoiceOptions(ctx context.Context) []string

	Pause(ctx context.Context) bool
	Resume(ctx context.Context) *models.Word
	Exit(ctx context.Context)
	SetDirection(ctx context.Context, d models.Direction) error

	Summary(ctx context.Context) models.LearningSummary
	Schedule(ctx context.Context, daysAhead int) []curve.ScheduleDay
	Efficiency(ctx context.Context) curve.Efficiency
	Words(ctx context.Context, filter models.WordFilter) ([]models.Word, int, error)

	Export(ctx context.Context) (models.ExportDocument, error)
	Import(ctx context.Context, raw []byte) (*transfer.ImportReport, error)
	RestoreBackup(ctx context.Context) error
	Reload(ctx context.Context) error
}

// DataTransfer moves learner data in and out of storage.
type DataTransfer interface {
	Export(ctx context.Context) (models.ExportDocument, error)
	Import(ctx context.Context, raw []byte) (*transfer.ImportReport, error)
	RestoreBackup(ctx context.Context) error
}

// Deps are the collaborators of the vocabulary service.
type Deps struct {
	Words    repository.WordRepository
	Sessions repository.SessionStatsRepository
	KV       repository.KeyValueStore
	Transfer DataTransfer
}

// Option configures the vocabulary service.
type Option func(*vocabularyService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *vocabularyService) { s.now = now }
}

// WithRand sets the random source used for shuffles and choices.
func WithRand(rng *rand.Rand) Option {
	return func(s *vocabularyService) { s.rng = rng }
}

// WithGroupSize sets the default group size; stored settings take precedence.
func WithGroupSize(n int) Option {
	return func(s *vocabularyService) { s.settings.GroupSize = n }
}

// WithDirection sets the default direction; stored settings take precedence.
func WithDirection(d models.Direction) Option {
	return func(s *vocabularyService) {
		if d.Valid() {
			s.settings.Direction = d
		}
	}
}

// WithSnapshotTTL sets how long a paused session can be resumed.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *vocabularyService) { s.snapshotTTL = ttl }
}

// WithSessionRetention sets how far back summaries and efficiency look.
func WithSessionRetention(d time.Duration) Option {
	return func(s *vocabularyService) { s.retention = d }
}

type vocabularyService struct {
	mu sync.Mutex

	words    repository.WordRepository
	sessions repository.SessionStatsRepository
	kv       repository.KeyValueStore
	transfer DataTransfer

	now         func() time.Time
	rng         *rand.Rand
	snapshotTTL time.Duration
	retention   time.Duration
	settings    models.UserSettings

	catalog []*models.Word
	byID    map[int64]*models.Word
	sched   *scheduler.Scheduler
	engine  *drill.Engine

	sessionID string
	kind      models.SessionKind
	group     []*models.Word
}

// NewVocabularyService creates the service and loads the catalog. Storage
// failures during loading fall back to the built-in catalog without saved
// progress.
func NewVocabularyService(ctx context.Context, deps Deps, opts ...Option) VocabularyService {
	s := &vocabularyService{
		words:       deps.Words,
		sessions:    deps.Sessions,
		kv:          deps.KV,
		transfer:    deps.Transfer,
		now:         time.Now,
		snapshotTTL: 240 * time.Hour,
		retention:   30 * 24 * time.Hour,
		settings:    models.UserSettings{Direction: models.DirectionPrimary, GroupSize: 5},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.loadSettings(ctx)
	s.engine = drill.New(
		drill.WithRand(s.rng),
		drill.WithClock(s.now),
		drill.WithDirection(s.settings.Direction),
	)
	if err := s.reload(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Warn("using built-in catalog: %v", err)
	}
	return s
}

func (s *vocabularyService) loadSettings(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("vocabulary")

	var stored models.UserSettings
	found, err := s.kv.Get(ctx, repository.KeyUserSettings, &stored)
	if err != nil {
		log.Warn("failed to load user settings: %v", err)
	}
	if found {
		if stored.Direction.Valid() {
			s.settings.Direction = stored.Direction
		}
		if stored.GroupSize > 0 {
			s.settings.GroupSize = stored.GroupSize
		}
	}
	s.sched = scheduler.New(
		scheduler.WithGroupSize(s.settings.GroupSize),
		scheduler.WithRand(s.rng),
	)
}

func (s *vocabularyService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// reload rebuilds the in-memory catalog. An active group is dropped because
// its words are replaced. On storage errors the built-in catalog is used.
func (s *vocabularyService) reload(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("vocabulary")

	if s.engine.Active() {
		log.Info("dropping active group for catalog reload")
		s.closeSession(ctx)
	}

	words, progress, loadErr := s.loadFromStorage(ctx)
	if loadErr != nil {
		log.Error("failed to load catalog from storage: %v", loadErr)
		builtin, err := catalog.Default()
		if err != nil {
			return stderrors.Join(loadErr, err)
		}
		words, progress = builtin, nil
	}

	valid, _ := catalog.Validate(ctx, words)
	s.catalog = catalog.Merge(valid, progress)
	s.byID = make(map[int64]*models.Word, len(s.catalog))
	for _, w := range s.catalog {
		s.byID[w.ID] = w
	}

	log.Info("catalog loaded: %d words, %d with progress", len(s.catalog), len(progress))
	return loadErr
}

func (s *vocabularyService) loadFromStorage(ctx context.Context) ([]models.Word, []models.WordProgress, error) {
	words, err := s.words.LoadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(words) == 0 {
		builtin, err := catalog.Default()
		if err != nil {
			return nil, nil, err
		}
		if _, err := s.words.UpsertCatalog(ctx, builtin); err != nil {
			return nil, nil, err
		}
		words = builtin
	}
	progress, err := s.words.LoadProgress(ctx)
	if err != nil {
		return nil, nil, err
	}
	return words, progress, nil
}

func (s *vocabularyService) StartSession(ctx context.Context) *models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.sched.SelectGroup(s.catalog, s.now())
	return s.start(ctx, models.SessionKindStudy, group)
}

func (s *vocabularyService) StartReviewSession(ctx context.Context) *models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.sched.DueForReview(s.catalog, s.now())
	return s.start(ctx, models.SessionKindReview, group)
}

func (s *vocabularyService) start(ctx context.Context, kind models.SessionKind, group []*models.Word) *models.Word {
	log := logger.FromContext(ctx).WithPrefix("vocabulary")

	if s.engine.Active() {
		s.closeSession(ctx)
	}
	if len(group) == 0 {
		log.Info("nothing to study (%s)", kind)
		return nil
	}

	s.sessionID = uuid.NewString()
	s.kind = kind
	s.group = group
	first := s.engine.Start(group)
	log.WithFields(logger.Fields{"session_id": s.sessionID, "kind": kind, "size": len(group)}).
		Info("session started")
	return copyWord(first)
}

func (s *vocabularyService) CurrentProgress(ctx context.Context) drill.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Progress()
}

func (s *vocabularyService) SubmitAnswer(ctx context.Context, input string, phase models.Phase) (drill.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("vocabulary")
	res, ok := s.engine.Submit(input, phase)
	if !ok {
		log.Debug("answer ignored: no current word or phase %s not answerable", phase)
		return res, false
	}

	log.WithFields(logger.Fields{"word_id": res.WordID, "phase": phase, "correct": res.Correct}).Debug("answer graded")
	if w := s.byID[res.WordID]; w != nil {
		s.saveProgress(ctx, w)
	}
	if err := s.words.InsertReviewHistory(ctx, models.ReviewEntry{
		WordID:     res.WordID,
		Phase:      phase,
		Correct:    res.Correct,
		UserAnswer: input,
		AnsweredAt: s.now(),
	}); err != nil {
		log.Warn("failed to store review history: %v", err)
	}
	return res, true
}

func (s *vocabularyService) Advance(ctx context.Context) *models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := s.engine.Active()
	next := s.engine.Advance()
	if wasActive && !s.engine.Active() {
		logger.FromContext(ctx).WithPrefix("vocabulary").
			WithField("session_id", s.sessionID).Info("group completed")
		s.closeSession(ctx)
	}
	return copyWord(next)
}

func (s *vocabularyService) SessionStats(ctx context.Context) models.StatsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Stats().View(s.now())
}

func (s *vocabularyService) MultipleChoiceOptions(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Choices(s.catalog)
}

// Pause stores a resumable snapshot of the active group and drops it. It
// reports false when nothing is active or the snapshot cannot be stored.
func (s *vocabularyService) Pause(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("vocabulary")
	if !s.engine.Active() {
		return false
	}

	snap := s.engine.Snapshot()
	snap.SessionID = s.sessionID
	snap.Kind = s.kind
	if err := s.kv.Set(ctx, repository.KeyCurrentSession, snap, s.snapshotTTL); err != nil {
		log.Error("failed to store session snapshot: %v", err)
		return false
	}

	s.saveProgress(ctx, s.group...)
	s.engine.Reset()
	s.group = nil
	log.WithField("session_id", s.sessionID).Info("session paused")
	return true
}

// Resume continues the active group, or restores a paused one. It returns
// nil when there is nothing to resume.
func (s *vocabularyService) Resume(ctx context.Context) *models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("vocabulary")
	if s.engine.Active() {
		return copyWord(s.engine.Current())
	}

	var snap models.SessionSnapshot
	found, err := s.kv.Get(ctx, repository.KeyCurrentSession, &snap)
	if err != nil {
		log.Warn("failed to load session snapshot: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	if err := s.kv.Remove(ctx, repository.KeyCurrentSession); err != nil {
		log.Warn("failed to clear session snapshot: %v", err)
	}

	if !s.engine.Restore(snap, func(id int64) *models.Word { return s.byID[id] }) {
		log.Info("paused session %s no longer resumable", snap.SessionID)
		return nil
	}
	s.sessionID = snap.SessionID
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	s.kind = snap.Kind
	s.group = s.engine.Group()
	log.WithField("session_id", s.sessionID).Info("session resumed")
	return copyWord(s.engine.Current())
}

func (s *vocabularyService) Exit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Active() {
		logger.FromContext(ctx).WithPrefix("vocabulary").
			WithField("session_id", s.sessionID).Info("session exited")
	}
	s.closeSession(ctx)
}

// closeSession saves progress, records the group's statistics when it had
// answers and forgets any paused snapshot.
func (s *vocabularyService) closeSession(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("vocabulary")

	s.saveProgress(ctx, s.group...)

	stats := s.engine.Stats()
	if stats.TotalAnswers > 0 {
		now := s.now()
		rec := models.SessionRecord{
			SessionID:      s.sessionID,
			Kind:           s.kind,
			TotalAnswers:   stats.TotalAnswers,
			CorrectAnswers: stats.CorrectAnswers,
			WordsReviewed:  stats.WordsReviewed(),
			Accuracy:       stats.Accuracy(),
			DurationMs:     stats.Duration(now).Milliseconds(),
			StartedAt:      stats.StartedAt,
			RecordedAt:     now,
			StudyDate:      now.UTC().Format(time.DateOnly),
		}
		if _, err := s.sessions.Insert(ctx, rec); err != nil {
			log.Warn("failed to record session stats: %v", err)
		}
	}
	if err := s.kv.Remove(ctx, repository.KeyCurrentSession); err != nil {
		log.Warn("failed to clear session snapshot: %v", err)
	}

	s.engine.Reset()
	s.group = nil
	s.sessionID = ""
}

func (s *vocabularyService) saveProgress(ctx context.Context, words ...*models.Word) {
	if len(words) == 0 {
		return
	}
	progress := make([]models.WordProgress, 0, len(words))
	for _, w := range words {
		progress = append(progress, w.Progress())
	}
	if err := s.words.SaveProgress(ctx, progress); err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Warn("failed to save progress for %d words: %v", len(words), err)
	}
}

func (s *vocabularyService) SetDirection(ctx context.Context, d models.Direction) error {
	if !d.Valid() {
		return errors.NewValidationError("direction", "must be primary or secondary")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.Direction = d
	s.engine.SetDirection(d)
	if err := s.kv.Set(ctx, repository.KeyUserSettings, s.settings, 0); err != nil {
		logger.FromContext(ctx).WithPrefix("vocabulary").Warn("failed to store user settings: %v", err)
	}
	return nil
}

func copyWord(w *models.Word) *models.Word {
	if w == nil {
		return nil
	}
	cp := *w
	return &cp
}

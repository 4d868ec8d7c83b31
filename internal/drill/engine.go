// Package drill walks a learner through the phases of one study group.
package drill

import (
	"math/rand"
	"slices"
	"time"

	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/grader"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/scheduler"
)

// MaxProficiency caps proficiency gained through answers.
const MaxProficiency = 4

// DictationThreshold is the proficiency a word needs to enter dictation.
const DictationThreshold = 2

// Result describes one graded answer.
type Result struct {
	Correct    bool         `json:"correct"`
	WordID     int64        `json:"wordId"`
	Phase      models.Phase `json:"phase"`
	UserAnswer string       `json:"userAnswer"`
	Expected   string       `json:"expected"`
}

// Progress is a read-only view of the engine. Reading it never changes state.
type Progress struct {
	CurrentWord *models.Word        `json:"currentWord"`
	Phase       models.Phase        `json:"phase"`
	PromptPhase models.Phase        `json:"promptPhase"`
	Position    int                 `json:"position"`
	GroupSize   int                 `json:"groupSize"`
	Stats       models.SessionStats `json:"stats"`
	Accuracy    int                 `json:"accuracy"`
}

// Engine is the per-group state machine. It mutates the words it is given
// and is not safe for concurrent use.
type Engine struct {
	group     []*models.Word
	cursor    int
	phase     models.Phase
	wrong     []models.WrongAnswer
	stats     models.SessionStats
	direction models.Direction
	adjust    bool
	rng       *rand.Rand
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used to reshuffle between passes.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDirection sets which translation prompts expect.
func WithDirection(d models.Direction) Option {
	return func(e *Engine) {
		if d.Valid() {
			e.direction = d
		}
	}
}

// WithDifficultyAdjustment toggles writing the recommended difficulty back
// after every answer. It is on by default.
func WithDifficultyAdjustment(enabled bool) Option {
	return func(e *Engine) {
		e.adjust = enabled
	}
}

// New creates an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		phase:     models.PhaseComplete,
		direction: models.DirectionPrimary,
		adjust:    true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Start begins a new group in the multiple-choice phase with zeroed stats
// and returns the first word, or nil when the group is empty.
func (e *Engine) Start(group []*models.Word) *models.Word {
	e.group = slices.Clone(group)
	e.cursor = 0
	e.wrong = nil
	e.stats = models.SessionStats{StartedAt: e.now()}
	e.phase = models.PhaseMultipleChoice
	if len(e.group) == 0 {
		e.phase = models.PhaseComplete
	}
	return e.Current()
}

// Reset drops the group without touching word statistics.
func (e *Engine) Reset() {
	e.group = nil
	e.cursor = 0
	e.wrong = nil
	e.stats = models.SessionStats{}
	e.phase = models.PhaseComplete
}

// Active reports whether a group is in progress.
func (e *Engine) Active() bool {
	return e.phase != models.PhaseComplete && e.cursor < len(e.group)
}

// Phase returns the phase of the current pass.
func (e *Engine) Phase() models.Phase {
	return e.phase
}

// Direction returns the translation direction prompts use.
func (e *Engine) Direction() models.Direction {
	return e.direction
}

// SetDirection switches the translation direction. Unknown values are ignored.
func (e *Engine) SetDirection(d models.Direction) {
	if d.Valid() {
		e.direction = d
	}
}

// Current returns the word on screen, or nil when there is none.
func (e *Engine) Current() *models.Word {
	if !e.Active() {
		return nil
	}
	return e.group[e.cursor]
}

// PromptPhase is how the current word should be asked. Dictation passes
// always dictate; otherwise unseen words get multiple choice and words
// already answered correctly get recognition.
func (e *Engine) PromptPhase() models.Phase {
	w := e.Current()
	switch {
	case w == nil:
		return models.PhaseComplete
	case e.phase == models.PhaseDictation:
		return models.PhaseDictation
	case w.Proficiency == 0:
		return models.PhaseMultipleChoice
	default:
		return models.PhaseRecognition
	}
}

// Group returns the words of the current pass.
func (e *Engine) Group() []*models.Word {
	return slices.Clone(e.group)
}

// WrongAnswers returns the dictation misses of the current pass.
func (e *Engine) WrongAnswers() []models.WrongAnswer {
	return slices.Clone(e.wrong)
}

// Stats returns the running counters of the group.
func (e *Engine) Stats() models.SessionStats {
	stats := e.stats
	stats.ReviewedWordIDs = slices.Clone(e.stats.ReviewedWordIDs)
	return stats
}

// Progress returns a snapshot view of the engine.
func (e *Engine) Progress() Progress {
	p := Progress{
		Phase:       e.phase,
		PromptPhase: e.PromptPhase(),
		GroupSize:   len(e.group),
		Stats:       e.Stats(),
		Accuracy:    e.stats.Accuracy(),
	}
	if w := e.Current(); w != nil {
		cp := *w
		p.CurrentWord = &cp
		p.Position = e.cursor + 1
	}
	return p
}

// Expected returns what a correct answer to the current word in phase looks
// like.
func (e *Engine) Expected(phase models.Phase) string {
	w := e.Current()
	if w == nil {
		return ""
	}
	switch phase {
	case models.PhaseMultipleChoice, models.PhaseRecognition:
		return w.Translation(e.direction)
	case models.PhaseDictation:
		return w.Term
	case models.PhaseComplete:
		return ""
	}
	return ""
}

// Submit grades input for the current word in phase and updates its
// statistics. It reports false, changing nothing, when there is no current
// word or the phase cannot be answered. During a dictation pass every answer
// is graded as dictation. The cursor does not move.
func (e *Engine) Submit(input string, phase models.Phase) (Result, bool) {
	w := e.Current()
	if w == nil || !phase.Answerable() {
		return Result{}, false
	}
	if e.phase == models.PhaseDictation {
		phase = models.PhaseDictation
	}

	expected := e.Expected(phase)
	correct := grader.Grade(phase, input, expected)

	e.stats.TotalAnswers++
	if !slices.Contains(e.stats.ReviewedWordIDs, w.ID) {
		e.stats.ReviewedWordIDs = append(e.stats.ReviewedWordIDs, w.ID)
	}
	if correct {
		e.stats.CorrectAnswers++
		e.applyCorrect(w)
	} else {
		e.applyWrong(w, phase)
		if phase == models.PhaseDictation {
			e.wrong = append(e.wrong, models.WrongAnswer{
				WordID:        w.ID,
				UserAnswer:    input,
				CorrectAnswer: expected,
			})
		}
	}
	if e.adjust {
		w.Difficulty = curve.RecommendedDifficulty(*w, correct)
	}

	return Result{
		Correct:    correct,
		WordID:     w.ID,
		Phase:      phase,
		UserAnswer: input,
		Expected:   expected,
	}, true
}

func (e *Engine) applyCorrect(w *models.Word) {
	now := e.now()
	w.Proficiency = min(w.Proficiency+1, MaxProficiency)
	w.LastReviewedAt = &now
	w.ReviewCount++
	w.ConsecutiveCorrect++
	if w.FirstLearnedAt == nil {
		w.FirstLearnedAt = &now
	}
}

func (e *Engine) applyWrong(w *models.Word, phase models.Phase) {
	w.ConsecutiveCorrect = 0
	w.MistakeCount++
	switch phase {
	case models.PhaseDictation, models.PhaseRecognition:
		w.Proficiency = max(w.Proficiency-1, 0)
	case models.PhaseMultipleChoice:
		w.Proficiency = 0
	case models.PhaseComplete:
	}
}

// Advance moves to the next word, running the end-of-pass transition when
// the pass is exhausted. It returns nil once the group is complete.
func (e *Engine) Advance() *models.Word {
	if e.phase == models.PhaseComplete {
		return nil
	}
	e.cursor++
	if e.cursor >= len(e.group) {
		e.endPass()
	}
	return e.Current()
}

func (e *Engine) endPass() {
	switch e.phase {
	case models.PhaseDictation:
		if len(e.wrong) == 0 {
			e.finish()
			return
		}
		missed := make(map[int64]bool, len(e.wrong))
		for _, wa := range e.wrong {
			missed[wa.WordID] = true
		}
		e.wrong = nil
		e.restartPass(models.PhaseDictation, e.filter(func(w *models.Word) bool { return missed[w.ID] }))
	case models.PhaseMultipleChoice, models.PhaseRecognition:
		if ready := e.filter(func(w *models.Word) bool { return w.Proficiency >= DictationThreshold }); len(ready) > 0 {
			e.restartPass(models.PhaseDictation, ready)
			return
		}
		e.restartPass(e.phase, e.filter(func(w *models.Word) bool { return w.Proficiency < DictationThreshold }))
	case models.PhaseComplete:
	}
}

func (e *Engine) filter(keep func(*models.Word) bool) []*models.Word {
	var out []*models.Word
	for _, w := range e.group {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func (e *Engine) restartPass(phase models.Phase, words []*models.Word) {
	if len(words) == 0 {
		e.finish()
		return
	}
	scheduler.Shuffle(e.rng, words)
	e.group = words
	e.cursor = 0
	e.phase = phase
}

func (e *Engine) finish() {
	e.phase = models.PhaseComplete
	e.cursor = len(e.group)
}

// Snapshot captures the resumable state of the group. Word statistics are
// not included; they live on the words.
func (e *Engine) Snapshot() models.SessionSnapshot {
	ids := make([]int64, len(e.group))
	for i, w := range e.group {
		ids[i] = w.ID
	}
	return models.SessionSnapshot{
		WordIDs:      ids,
		Cursor:       e.cursor,
		Phase:        e.phase,
		WrongAnswers: slices.Clone(e.wrong),
		Stats:        e.Stats(),
		Direction:    e.direction,
		SavedAt:      e.now(),
	}
}

// Restore resumes a group from snap, resolving ids through lookup. Ids that
// no longer resolve are dropped. It reports false, leaving the engine idle,
// when nothing resumable remains.
func (e *Engine) Restore(snap models.SessionSnapshot, lookup func(id int64) *models.Word) bool {
	e.Reset()
	if !snap.Phase.Answerable() {
		return false
	}

	group := make([]*models.Word, 0, len(snap.WordIDs))
	for _, id := range snap.WordIDs {
		if w := lookup(id); w != nil {
			group = append(group, w)
		}
	}
	if len(group) == 0 || snap.Cursor < 0 || snap.Cursor >= len(group) {
		return false
	}

	e.group = group
	e.cursor = snap.Cursor
	e.phase = snap.Phase
	e.wrong = slices.Clone(snap.WrongAnswers)
	e.stats = snap.Stats
	e.stats.ReviewedWordIDs = slices.Clone(snap.Stats.ReviewedWordIDs)
	e.SetDirection(snap.Direction)
	return true
}

// Package scheduler picks which words enter a study group.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// DefaultGroupSize is the number of words studied together.
const DefaultGroupSize = 5

// Scheduler builds bounded, shuffled study groups from the catalog.
type Scheduler struct {
	groupSize int
	policy    Policy
	rng       *rand.Rand
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGroupSize overrides DefaultGroupSize. Non-positive sizes are ignored.
func WithGroupSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.groupSize = n
		}
	}
}

// WithPolicy overrides the due policy used for selection.
func WithPolicy(p Policy) Option {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rng = rng
	}
}

// New creates a Scheduler using DayTablePolicy.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		groupSize: DefaultGroupSize,
		policy:    DayTablePolicy{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// GroupSize returns the configured group size.
func (s *Scheduler) GroupSize() int {
	return s.groupSize
}

// Rand returns the scheduler's random source so callers can share it.
func (s *Scheduler) Rand() *rand.Rand {
	return s.rng
}

// SelectGroup takes due words first and fills up with unseen words, both in
// catalog order, then shuffles. An empty result means nothing to study.
func (s *Scheduler) SelectGroup(words []*models.Word, now time.Time) []*models.Word {
	var due, fresh []*models.Word
	for _, w := range words {
		if w == nil {
			continue
		}
		isDue := s.policy.IsDue(w, now)
		switch {
		case isDue:
			due = append(due, w)
		case w.Proficiency == 0:
			fresh = append(fresh, w)
		}
	}

	group := make([]*models.Word, 0, s.groupSize)
	group = append(group, due[:min(len(due), s.groupSize)]...)
	if room := s.groupSize - len(group); room > 0 {
		group = append(group, fresh[:min(len(fresh), room)]...)
	}
	Shuffle(s.rng, group)
	return group
}

// DueForReview returns already-learned words that are due, in catalog order
// and capped at the group size.
func (s *Scheduler) DueForReview(words []*models.Word, now time.Time) []*models.Word {
	var out []*models.Word
	for _, w := range words {
		if len(out) == s.groupSize {
			break
		}
		if w != nil && w.Proficiency > 0 && s.policy.IsDue(w, now) {
			out = append(out, w)
		}
	}
	return out
}

// CountDueForReview counts every learned word that is due, without a cap.
func (s *Scheduler) CountDueForReview(words []*models.Word, now time.Time) int {
	n := 0
	for _, w := range words {
		if w != nil && w.Proficiency > 0 && s.policy.IsDue(w, now) {
			n++
		}
	}
	return n
}

// Shuffle permutes words in place with a Fisher-Yates shuffle.
func Shuffle(rng *rand.Rand, words []*models.Word) {
	for i := len(words) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}

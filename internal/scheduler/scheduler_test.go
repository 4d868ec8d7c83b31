package scheduler_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/scheduler"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

const day = 24 * time.Hour

func newWords(n int) []*models.Word {
	words := make([]*models.Word, n)
	for i := range words {
		words[i] = &models.Word{ID: int64(i + 1), Term: "w"}
	}
	return words
}

func ids(words []*models.Word) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestDayTablePolicy(t *testing.T) {
	tests := []struct {
		name string
		word models.Word
		due  bool
	}{
		{"never reviewed", models.Word{}, false},
		{"first review after one day", models.Word{LastReviewedAt: ago(day)}, true},
		{"first review too soon", models.Word{LastReviewedAt: ago(23 * time.Hour)}, false},
		{"third review after four days", models.Word{ReviewCount: 2, LastReviewedAt: ago(4 * day)}, true},
		{"third review after three days", models.Word{ReviewCount: 2, LastReviewedAt: ago(3 * day)}, false},
		{"saturates at thirty days", models.Word{ReviewCount: 40, LastReviewedAt: ago(30 * day)}, true},
		{"saturated but early", models.Word{ReviewCount: 40, LastReviewedAt: ago(29 * day)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, scheduler.DayTablePolicy{}.IsDue(&tt.word, now))
		})
	}
}

func TestCurvePolicy(t *testing.T) {
	assert.False(t, scheduler.CurvePolicy{}.IsDue(&models.Word{}, now))
	assert.True(t, scheduler.CurvePolicy{}.IsDue(&models.Word{ReviewCount: 1, Proficiency: 1, LastReviewedAt: ago(day)}, now))
	assert.False(t, scheduler.CurvePolicy{}.IsDue(&models.Word{ReviewCount: 5, Proficiency: 3, LastReviewedAt: ago(time.Hour)}, now))
}

func TestSelectGroup_AllNewCatalog(t *testing.T) {
	words := newWords(10)
	s := scheduler.New(scheduler.WithRand(seeded(1)))

	group := s.SelectGroup(words, now)

	require.Len(t, group, 5)
	for _, w := range group {
		assert.Equal(t, 0, w.Proficiency)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, ids(group))
}

func TestSelectGroup_DueFirstThenNew(t *testing.T) {
	words := newWords(10)
	for _, i := range []int{7, 8, 9} {
		words[i].Proficiency = 2
		words[i].ReviewCount = 1
		words[i].LastReviewedAt = ago(3 * day)
	}
	// Learned but not due; must be skipped.
	words[0].Proficiency = 1
	words[0].LastReviewedAt = ago(time.Hour)

	group := scheduler.New(scheduler.WithRand(seeded(7))).SelectGroup(words, now)

	assert.ElementsMatch(t, []int64{8, 9, 10, 2, 3}, ids(group))
}

func TestSelectGroup_CapsDueInCatalogOrder(t *testing.T) {
	words := newWords(8)
	for _, w := range words {
		w.Proficiency = 1
		w.LastReviewedAt = ago(2 * day)
	}

	group := scheduler.New(scheduler.WithRand(seeded(3)), scheduler.WithGroupSize(3)).SelectGroup(words, now)

	assert.ElementsMatch(t, []int64{1, 2, 3}, ids(group))
}

func TestSelectGroup_NothingToStudy(t *testing.T) {
	words := newWords(3)
	for _, w := range words {
		w.Proficiency = 3
		w.ReviewCount = 5
		w.LastReviewedAt = ago(time.Hour)
	}

	assert.Empty(t, scheduler.New().SelectGroup(words, now))
	assert.Empty(t, scheduler.New().SelectGroup(nil, now))
}

func TestSelectGroup_SameSeedSameOrder(t *testing.T) {
	a := scheduler.New(scheduler.WithRand(seeded(42))).SelectGroup(newWords(10), now)
	b := scheduler.New(scheduler.WithRand(seeded(42))).SelectGroup(newWords(10), now)

	assert.Equal(t, ids(a), ids(b))
}

func TestDueForReview(t *testing.T) {
	words := newWords(9)
	for i, w := range words {
		w.LastReviewedAt = ago(10 * day)
		if i%2 == 0 {
			w.Proficiency = 2
		}
	}
	s := scheduler.New(scheduler.WithGroupSize(3))

	due := s.DueForReview(words, now)

	assert.Equal(t, []int64{1, 3, 5}, ids(due))
	assert.Equal(t, 5, s.CountDueForReview(words, now))
}

func TestShuffle_IsPermutation(t *testing.T) {
	words := newWords(6)
	scheduler.Shuffle(seeded(9), words)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6}, ids(words))
}

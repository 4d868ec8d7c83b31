// Package curve models how well a word is remembered and when it should be
// seen again.
package curve

import (
	"math"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// BaseIntervals are the review intervals in hours indexed by review count.
var BaseIntervals = [...]float64{1, 24, 72, 168, 336, 720, 2160, 4320}

const (
	MinInterval = time.Hour
	MaxInterval = 4320 * time.Hour

	growthBeyondTable = 1.5
	staleGraceDays    = 7
)

// BaseIntervalHours returns the table interval for reviewCount, growing
// geometrically past the end of the table.
func BaseIntervalHours(reviewCount int) float64 {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount < len(BaseIntervals) {
		return BaseIntervals[reviewCount]
	}
	last := BaseIntervals[len(BaseIntervals)-1]
	return last * math.Pow(growthBeyondTable, float64(reviewCount-len(BaseIntervals)+1))
}

func difficultyMultiplier(d models.Difficulty) float64 {
	switch d {
	case models.DifficultyEasy:
		return 1.3
	case models.DifficultyHard:
		return 0.7
	default:
		return 1.0
	}
}

func proficiencyMultiplier(p int) float64 {
	switch {
	case p <= 0:
		return 0.5
	case p == 1:
		return 0.8
	case p == 2:
		return 1.0
	default:
		return 1.2
	}
}

func performanceMultiplier(consecutiveCorrect, mistakes int) float64 {
	bonus := math.Min(float64(consecutiveCorrect)*0.1, 0.5)
	penalty := math.Min(float64(mistakes)*0.05, 0.3)
	return math.Max(0.3, 1+bonus-penalty)
}

// daysSince is the fractional number of days since the last review, 0 for a
// word never reviewed.
func daysSince(w models.Word, now time.Time) float64 {
	if w.LastReviewedAt == nil {
		return 0
	}
	d := now.Sub(*w.LastReviewedAt).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

func stalenessMultiplier(days float64) float64 {
	if days <= staleGraceDays {
		return 1.0
	}
	return math.Max(0.5, 1-(days-staleGraceDays)*0.05)
}

// Interval is the clamped time until the next review of w as of now.
func Interval(w models.Word, now time.Time) time.Duration {
	hours := BaseIntervalHours(w.ReviewCount) *
		difficultyMultiplier(w.Difficulty) *
		proficiencyMultiplier(w.Proficiency) *
		performanceMultiplier(w.ConsecutiveCorrect, w.MistakeCount) *
		stalenessMultiplier(daysSince(w, now))

	// Clamp in hours; past the table the product can exceed what a Duration holds.
	hours = math.Min(math.Max(hours, MinInterval.Hours()), MaxInterval.Hours())
	return time.Duration(hours * float64(time.Hour))
}

// NextDueAt returns now plus the interval for w.
func NextDueAt(w models.Word, now time.Time) time.Time {
	return now.Add(Interval(w, now))
}

// RetentionRate estimates the probability that w is still remembered,
// bounded to [0.2, 1].
func RetentionRate(w models.Word, now time.Time) float64 {
	days := daysSince(w, now)
	r := math.Pow(0.9, days)
	r *= 1 + float64(w.Proficiency)*0.2
	r *= 1 + float64(w.ConsecutiveCorrect)*0.1 - float64(w.MistakeCount)*0.05
	r *= 1 + math.Min(float64(w.ReviewCount)*0.05, 0.3)
	return math.Min(1, math.Max(0.2, r))
}

// ReviewPriority ranks words for review; higher is more urgent.
func ReviewPriority(w models.Word, now time.Time) int {
	p := (1-RetentionRate(w, now))*100 +
		float64(3-w.Proficiency)*10 +
		float64(w.MistakeCount)*5
	return int(math.Round(p))
}

// RecommendedDifficulty moves difficulty one step based on streaks. It is
// meant to be called after the answer's counters have been applied.
func RecommendedDifficulty(w models.Word, wasCorrect bool) models.Difficulty {
	if wasCorrect {
		switch {
		case w.Difficulty == models.DifficultyHard && w.ConsecutiveCorrect >= 3:
			return models.DifficultyNormal
		case w.Difficulty == models.DifficultyNormal && w.ConsecutiveCorrect >= 5:
			return models.DifficultyEasy
		}
		return w.Difficulty
	}
	switch {
	case w.Difficulty == models.DifficultyEasy && w.MistakeCount >= 3:
		return models.DifficultyNormal
	case w.Difficulty == models.DifficultyNormal && w.MistakeCount >= 5:
		return models.DifficultyHard
	}
	return w.Difficulty
}

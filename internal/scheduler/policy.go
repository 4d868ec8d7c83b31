package scheduler

import (
	"time"

	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/models"
)

// Policy decides whether a word is due for another look.
type Policy interface {
	IsDue(w *models.Word, now time.Time) bool
}

// ReviewDays is the fixed review spacing in days, indexed by review count
// and saturating at the last entry.
var ReviewDays = [...]int{1, 2, 4, 7, 15, 30}

// DayTablePolicy is due once ReviewDays[min(reviewCount, 5)] days have
// passed since the last review. It drives group selection.
type DayTablePolicy struct{}

func (DayTablePolicy) IsDue(w *models.Word, now time.Time) bool {
	if w.LastReviewedAt == nil {
		return false
	}
	idx := min(max(w.ReviewCount, 0), len(ReviewDays)-1)
	interval := time.Duration(ReviewDays[idx]) * 24 * time.Hour
	return now.Sub(*w.LastReviewedAt) >= interval
}

// CurvePolicy is due once the forgetting-curve interval has elapsed since
// the last review. It drives the review schedule and urgency hints.
type CurvePolicy struct{}

func (CurvePolicy) IsDue(w *models.Word, now time.Time) bool {
	if w.LastReviewedAt == nil {
		return false
	}
	return !now.Before(curve.DueAt(*w, now))
}

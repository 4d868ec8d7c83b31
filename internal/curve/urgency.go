package curve

import (
	"sort"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// Urgency levels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Recommendation is when to review a word and how pressing it is.
type Recommendation struct {
	ReviewAt time.Time `json:"reviewAt"`
	Urgency  string    `json:"urgency"`
	Reason   string    `json:"reason"`
}

// DueAt anchors the interval on the last review; a word never reviewed is
// anchored on now.
func DueAt(w models.Word, now time.Time) time.Time {
	anchor := now
	if w.LastReviewedAt != nil {
		anchor = *w.LastReviewedAt
	}
	return anchor.Add(Interval(w, now))
}

// Recommend suggests when w should next be reviewed.
func Recommend(w models.Word, now time.Time) Recommendation {
	if RetentionRate(w, now) < 0.5 {
		return Recommendation{ReviewAt: now, Urgency: UrgencyHigh, Reason: "retention is low, review now"}
	}
	due := DueAt(w, now)
	if !now.Before(due) {
		return Recommendation{ReviewAt: due, Urgency: UrgencyMedium, Reason: "review is due"}
	}
	return Recommendation{ReviewAt: due, Urgency: UrgencyLow, Reason: "on schedule"}
}

// ScheduleEntry is one word planned for a given day.
type ScheduleEntry struct {
	WordID   int64     `json:"wordId"`
	Term     string    `json:"term"`
	DueAt    time.Time `json:"dueAt"`
	Priority int       `json:"priority"`
}

// ScheduleDay groups the words due on one calendar day.
type ScheduleDay struct {
	Date    string          `json:"date"`
	Entries []ScheduleEntry `json:"entries"`
}

// Schedule plans reviews for the next daysAhead days. Only words that have
// been reviewed at least once are planned; overdue words land on today.
// Days are ascending and entries within a day are ordered by priority.
func Schedule(words []*models.Word, now time.Time, daysAhead int) []ScheduleDay {
	horizon := now.Add(time.Duration(daysAhead) * 24 * time.Hour)
	byDate := map[string][]ScheduleEntry{}

	for _, w := range words {
		if w == nil || w.LastReviewedAt == nil {
			continue
		}
		due := DueAt(*w, now)
		if due.After(horizon) {
			continue
		}
		day := due
		if day.Before(now) {
			day = now
		}
		key := day.UTC().Format(time.DateOnly)
		byDate[key] = append(byDate[key], ScheduleEntry{
			WordID:   w.ID,
			Term:     w.Term,
			DueAt:    due,
			Priority: ReviewPriority(*w, now),
		})
	}

	days := make([]ScheduleDay, 0, len(byDate))
	for date, entries := range byDate {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Priority != entries[j].Priority {
				return entries[i].Priority > entries[j].Priority
			}
			return entries[i].WordID < entries[j].WordID
		})
		days = append(days, ScheduleDay{Date: date, Entries: entries})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

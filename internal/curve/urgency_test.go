package curve_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/models"
)

func TestRecommend(t *testing.T) {
	forgotten := models.Word{LastReviewedAt: ago(30 * day)}
	assert.Equal(t, curve.UrgencyHigh, curve.Recommend(forgotten, now).Urgency)
	assert.Equal(t, now, curve.Recommend(forgotten, now).ReviewAt)

	overdue := models.Word{ReviewCount: 1, Proficiency: 1, LastReviewedAt: ago(day)}
	assert.Equal(t, curve.UrgencyMedium, curve.Recommend(overdue, now).Urgency)

	fresh := models.Word{}
	rec := curve.Recommend(fresh, now)
	assert.Equal(t, curve.UrgencyLow, rec.Urgency)
	assert.Equal(t, now.Add(time.Hour), rec.ReviewAt)
}

func TestSchedule(t *testing.T) {
	words := []*models.Word{
		{ID: 1, Term: "gehen", ReviewCount: 1, Proficiency: 1, LastReviewedAt: ago(day)},
		{ID: 2, Term: "sehen", ReviewCount: 3, Proficiency: 3, ConsecutiveCorrect: 3, LastReviewedAt: ago(time.Hour)},
		{ID: 3, Term: "kommen"},
		{ID: 4, Term: "essen", Proficiency: 1, MistakeCount: 1, LastReviewedAt: ago(2 * time.Hour)},
		{ID: 5, Term: "trinken", ReviewCount: 2, Proficiency: 2, LastReviewedAt: ago(0)},
		nil,
	}

	days := curve.Schedule(words, now, 7)

	require.Len(t, days, 2)
	assert.Equal(t, "2024-05-10", days[0].Date)
	require.Len(t, days[0].Entries, 2)
	assert.Equal(t, int64(4), days[0].Entries[0].WordID)
	assert.Equal(t, int64(1), days[0].Entries[1].WordID)
	assert.GreaterOrEqual(t, days[0].Entries[0].Priority, days[0].Entries[1].Priority)

	assert.Equal(t, "2024-05-13", days[1].Date)
	require.Len(t, days[1].Entries, 1)
	assert.Equal(t, int64(5), days[1].Entries[0].WordID)
}

func TestAnalyzeEfficiency(t *testing.T) {
	excellent := curve.AnalyzeEfficiency(9, 10, 6, 2*time.Minute)
	assert.Equal(t, 90, excellent.Accuracy)
	assert.Equal(t, 3.0, excellent.WordsPerMinute)
	assert.Equal(t, curve.RatingExcellent, excellent.Rating)
	assert.Equal(t, []string{"good progress, keep it up"}, excellent.Recommendations)

	poor := curve.AnalyzeEfficiency(5, 10, 1, 2*time.Minute)
	assert.Equal(t, curve.RatingPoor, poor.Rating)
	assert.Len(t, poor.Recommendations, 2)

	empty := curve.AnalyzeEfficiency(0, 0, 0, 0)
	assert.Equal(t, 0, empty.Accuracy)
	assert.Equal(t, curve.RatingPoor, empty.Rating)
}

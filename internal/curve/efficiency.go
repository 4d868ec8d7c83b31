package curve

import (
	"math"
	"time"
)

// Efficiency ratings.
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingNormal    = "normal"
	RatingPoor      = "poor"
)

// Efficiency summarises how productive a study session was.
type Efficiency struct {
	Accuracy        int      `json:"accuracy"`
	WordsPerMinute  float64  `json:"wordsPerMinute"`
	Rating          string   `json:"rating"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeEfficiency rates a session from its answer counts, the number of
// distinct words reviewed and the time spent.
func AnalyzeEfficiency(correct, total, wordsReviewed int, studyTime time.Duration) Efficiency {
	var accuracy, wpm float64
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}
	if studyTime > 0 {
		wpm = float64(wordsReviewed) / studyTime.Minutes()
	}

	rating := RatingNormal
	switch {
	case accuracy >= 90 && wpm >= 3:
		rating = RatingExcellent
	case accuracy >= 80 && wpm >= 2:
		rating = RatingGood
	case accuracy < 60 || wpm < 1:
		rating = RatingPoor
	}

	return Efficiency{
		Accuracy:        int(math.Round(accuracy)),
		WordsPerMinute:  math.Round(wpm*10) / 10,
		Rating:          rating,
		Recommendations: recommendations(accuracy, wpm),
	}
}

func recommendations(accuracy, wpm float64) []string {
	var out []string
	switch {
	case accuracy < 60:
		out = append(out, "slow down and focus on the meaning of each word")
	case accuracy < 80:
		out = append(out, "review more often to consolidate what you learned")
	}
	switch {
	case wpm < 1:
		out = append(out, "try to pick up the pace to two or three words a minute")
	case wpm > 4:
		out = append(out, "you are moving fast, make sure the words stick")
	}
	if len(out) == 0 {
		out = append(out, "good progress, keep it up")
	}
	return out
}

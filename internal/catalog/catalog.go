// Package catalog provides the word list a learner studies: the built-in
// German vocabulary and importers for spreadsheet, CSV and JSON files.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

//go:embed default_words.json
var defaultWords []byte

// Default returns the built-in catalog with ids assigned by position.
func Default() ([]models.Word, error) {
	var words []models.Word
	if err := json.Unmarshal(defaultWords, &words); err != nil {
		return nil, fmt.Errorf("decode built-in catalog: %w", err)
	}
	for i := range words {
		if words[i].ID == 0 {
			words[i].ID = int64(i + 1)
		}
	}
	return words, nil
}

// Validate splits words into complete entries and entries missing a content
// field. Invalid entries are logged and otherwise ignored.
func Validate(ctx context.Context, words []models.Word) (valid, invalid []models.Word) {
	log := logger.FromContext(ctx).WithPrefix("catalog")
	for _, w := range words {
		if field := w.MissingField(); field != "" {
			log.WithFields(logger.Fields{"word_id": w.ID, "term": w.Term}).
				Warn("catalog entry missing %s, excluded", field)
			invalid = append(invalid, w)
			continue
		}
		valid = append(valid, w)
	}
	return valid, invalid
}

// Merge returns fresh copies of words with saved statistics applied by id.
// Progress for ids absent from words is ignored.
func Merge(words []models.Word, progress []models.WordProgress) []*models.Word {
	byID := make(map[int64]models.WordProgress, len(progress))
	for _, p := range progress {
		byID[p.WordID] = p
	}

	merged := make([]*models.Word, len(words))
	for i := range words {
		w := words[i]
		w.Proficiency, w.ReviewCount, w.MistakeCount, w.ConsecutiveCorrect = 0, 0, 0, 0
		w.LastReviewedAt, w.FirstLearnedAt = nil, nil
		w.Difficulty = models.DifficultyNormal
		if p, ok := byID[w.ID]; ok {
			w.ApplyProgress(p)
		}
		merged[i] = &w
	}
	return merged
}

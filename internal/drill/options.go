package drill

import (
	"math/rand"
	"slices"

	"github.com/vytor/vocabflash/internal/models"
)

// OptionCount is the number of choices offered per multiple-choice prompt.
const OptionCount = 4

// fillers pad the choices when the catalog is too small.
var fillers = []string{"other", "unknown", "different", "various"}

// ChoicesFor builds the shuffled multiple-choice options for word: its
// translation plus distractors from the same category when at least three
// exist, otherwise from the whole catalog.
func ChoicesFor(word *models.Word, catalog []*models.Word, dir models.Direction, rng *rand.Rand) []string {
	if word == nil {
		return nil
	}
	correct := word.Translation(dir)
	choices := []string{correct}

	var sameCategory, others []*models.Word
	for _, w := range catalog {
		if w == nil || w.ID == word.ID {
			continue
		}
		others = append(others, w)
		if w.Category == word.Category {
			sameCategory = append(sameCategory, w)
		}
	}
	pool := others
	if len(sameCategory) >= OptionCount-1 {
		pool = sameCategory
	}
	pool = slices.Clone(pool)

	for len(choices) < OptionCount && len(pool) > 0 {
		i := rng.Intn(len(pool))
		if t := pool[i].Translation(dir); t != "" && !slices.Contains(choices, t) {
			choices = append(choices, t)
		}
		pool = slices.Delete(pool, i, i+1)
	}
	for _, f := range fillers {
		if len(choices) == OptionCount {
			break
		}
		if !slices.Contains(choices, f) {
			choices = append(choices, f)
		}
	}

	rng.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
	return choices
}

// Choices builds the options for the current word.
func (e *Engine) Choices(catalog []*models.Word) []string {
	return ChoicesFor(e.Current(), catalog, e.direction, e.rng)
}

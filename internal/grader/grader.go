// Package grader decides whether a learner's answer matches the expected one.
package grader

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/vytor/vocabflash/internal/models"
)

// KnowResponse is the recognition self-report meaning "I know this word".
const KnowResponse = "know"

var punctuation = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'", "`", "'", "´", "'",
	"“", "\"", "”", "\"", "„", "\"", "‟", "\"", "″", "\"", "«", "\"", "»", "\"",
	"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-", "−", "-",
)

var transliteration = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// Grade applies the rule for phase to input against expected. Phases that
// cannot be answered never match.
func Grade(phase models.Phase, input, expected string) bool {
	switch phase {
	case models.PhaseMultipleChoice:
		return MultipleChoice(input, expected)
	case models.PhaseRecognition:
		return Recognition(input)
	case models.PhaseDictation:
		return Dictation(input, expected)
	case models.PhaseComplete:
		return false
	}
	return false
}

// MultipleChoice is an exact, case-sensitive comparison.
func MultipleChoice(selected, expected string) bool {
	return selected == expected
}

// Recognition trusts the learner's self-report.
func Recognition(response string) bool {
	return response == KnowResponse
}

// Dictation compares a typed answer with the expected term, forgiving case,
// spacing, typographic punctuation and ASCII spellings of umlauts and ß.
func Dictation(input, expected string) bool {
	in := Normalize(input)
	want := Normalize(expected)
	if in == want {
		return true
	}
	if transliteration.Replace(in) == transliteration.Replace(want) {
		return true
	}
	// ss typed for ß, or ß typed for ss.
	if strings.ReplaceAll(in, "ss", "ß") == want {
		return true
	}
	return in == strings.ReplaceAll(want, "ß", "ss")
}

// Normalize composes, lowercases and trims s, collapses inner whitespace and
// maps typographic quotes and dashes to ASCII.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = cases.Lower(language.German).String(s)
	s = punctuation.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

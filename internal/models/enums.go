package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"fmt"
)

// Difficulty scales a word's review interval. The zero value is normal.
type Difficulty int

const (
	DifficultyNormal Difficulty = iota
	DifficultyEasy
	DifficultyHard
)

var (
	difficultyNames  = [...]string{DifficultyNormal: "normal", DifficultyEasy: "easy", DifficultyHard: "hard"}
	difficultyByName = map[string]Difficulty{
		"normal": DifficultyNormal,
		"easy":   DifficultyEasy,
		"hard":   DifficultyHard,
	}
)

var (
	_ fmt.Stringer             = Difficulty(0)
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
	_ driver.Valuer            = Difficulty(0)
	_ sql.Scanner              = (*Difficulty)(nil)
)

func (d Difficulty) valid() bool {
	return d >= DifficultyNormal && d <= DifficultyHard
}

func (d Difficulty) String() string {
	if d.valid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("models: invalid difficulty: %d", int(d))
	}
	return []byte(difficultyNames[d]), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, ok := difficultyByName[string(text)]
	if !ok {
		return fmt.Errorf("models: invalid difficulty: %q", text)
	}
	*d = v
	return nil
}

// Value stores the difficulty by name.
func (d Difficulty) Value() (driver.Value, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// Scan reads a stored name; unknown names read as normal.
func (d *Difficulty) Scan(src any) error {
	s, err := scanText(src)
	if err != nil {
		return fmt.Errorf("models: scan difficulty: %w", err)
	}
	*d = ParseDifficulty(s)
	return nil
}

// ParseDifficulty maps a stored name to a Difficulty, defaulting to normal.
func ParseDifficulty(s string) Difficulty {
	if d, ok := difficultyByName[s]; ok {
		return d
	}
	return DifficultyNormal
}

// Phase is the drill stage a group is in, or the mode an answer was given in.
type Phase int

const (
	PhaseMultipleChoice Phase = iota + 1
	PhaseRecognition
	PhaseDictation
	PhaseComplete
)

var (
	phaseNames  = [...]string{PhaseMultipleChoice: "multiple_choice", PhaseRecognition: "recognition", PhaseDictation: "dictation", PhaseComplete: "complete"}
	phaseByName = map[string]Phase{
		"multiple_choice": PhaseMultipleChoice,
		"recognition":     PhaseRecognition,
		"dictation":       PhaseDictation,
		"complete":        PhaseComplete,
	}
)

var (
	_ fmt.Stringer             = Phase(0)
	_ encoding.TextMarshaler   = Phase(0)
	_ encoding.TextUnmarshaler = (*Phase)(nil)
	_ driver.Valuer            = Phase(0)
	_ sql.Scanner              = (*Phase)(nil)
)

func (p Phase) valid() bool {
	return p >= PhaseMultipleChoice && p <= PhaseComplete
}

// Answerable reports whether answers can be graded in this phase.
func (p Phase) Answerable() bool {
	return p >= PhaseMultipleChoice && p <= PhaseDictation
}

func (p Phase) String() string {
	if p.valid() {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("models: invalid phase: %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	v, ok := phaseByName[string(text)]
	if !ok {
		return fmt.Errorf("models: invalid phase: %q", text)
	}
	*p = v
	return nil
}

// Value stores the phase by name.
func (p Phase) Value() (driver.Value, error) {
	text, err := p.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// Scan reads a stored phase name.
func (p *Phase) Scan(src any) error {
	s, err := scanText(src)
	if err != nil {
		return fmt.Errorf("models: scan phase: %w", err)
	}
	return p.UnmarshalText([]byte(s))
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}

// Direction selects which translation a prompt expects.
type Direction string

const (
	DirectionPrimary   Direction = "primary"
	DirectionSecondary Direction = "secondary"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionPrimary || d == DirectionSecondary
}

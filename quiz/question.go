// Package quiz holds the attempt engine: question sets, the randomizer that
// produces per-request shuffled views, the scorer and the access gate.
// Everything here is storage-free; persistence lives in quiz/ledger.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// QuestionType tags the variant of a stored question.
type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
)

const (
	MinOptions = 2
	MaxOptions = 6
)

var (
	// ErrInvalidQuizState is returned for question sets that can never be shuffled or scored.
	ErrInvalidQuizState = errors.New("invalid quiz state")
)

// Question is one stored multiple choice question.
type Question struct {
	Type         QuestionType `json:"type"`
	Prompt       string       `json:"prompt"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_index"`
	Explanation  string       `json:"explanation,omitempty"`
}

// Validate checks a single question. An empty Type is treated as single_choice.
func (q Question) Validate() error {
	switch q.Type {
	case "", SingleChoice:
	default:
		return fmt.Errorf("unsupported question type %q", q.Type)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("prompt is required")
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fmt.Errorf("must have between %d and %d options, got %d", MinOptions, MaxOptions, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct_index %d out of range [0,%d)", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// ValidateSet fails fast with ErrInvalidQuizState on an empty set or the first bad question.
func ValidateSet(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz has no questions", ErrInvalidQuizState)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidQuizState, i, err)
		}
	}
	return nil
}

// ShuffledQuestion is a question as shown to one student. SourceIndex is the
// position in the stored set and OptionOrder[i] is the stored index of the
// option now displayed at position i.
type ShuffledQuestion struct {
	Question
	SourceIndex int   `json:"source_index"`
	OptionOrder []int `json:"option_order"`
}

// ShuffledView is the exact ordered question list a student answered against.
type ShuffledView []ShuffledQuestion

// PublicQuestion hides the answer key.
type PublicQuestion struct {
	Position int          `json:"position"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"prompt"`
	Options  []string     `json:"options"`
}

// Public strips correct indices and explanations before a view leaves the server.
func (v ShuffledView) Public() []PublicQuestion {
	out := make([]PublicQuestion, len(v))
	for i, q := range v {
		typ := q.Type
		if typ == "" {
			typ = SingleChoice
		}
		out[i] = PublicQuestion{
			Position: i,
			Type:     typ,
			Prompt:   q.Prompt,
			Options:  append([]string(nil), q.Options...),
		}
	}
	return out
}

package quiz

import (
	"fmt"
	"math"
)

const NotAnswered = "not answered"

// Answers maps a question position in the view to the selected option index.
type Answers map[int]int

// QuestionResult is the review row for one position of a view.
type QuestionResult struct {
	Position      int    `json:"position"`
	Prompt        string `json:"prompt"`
	SelectedIndex *int   `json:"selected_index"`
	SelectedText  string `json:"selected_text"`
	CorrectIndex  int    `json:"correct_index"`
	CorrectText   string `json:"correct_text"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// Result is the outcome of scoring one submission.
type Result struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     float64          `json:"percentage"`
	PassingScore   float64          `json:"passing_score"`
	Passed         bool             `json:"passed"`
	Breakdown      []QuestionResult `json:"breakdown"`
}

// Score compares answers against the view's answer key. Unanswered and
// out-of-range selections both count as not correct.
func Score(view ShuffledView, answers Answers, passingScore float64) (Result, error) {
	total := len(view)
	if total == 0 {
		return Result{}, fmt.Errorf("%w: cannot score an empty view", ErrInvalidQuizState)
	}

	res := Result{
		TotalQuestions: total,
		PassingScore:   passingScore,
		Breakdown:      make([]QuestionResult, total),
	}

	for i, q := range view {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return Result{}, fmt.Errorf("%w: question %d has correct_index %d out of range", ErrInvalidQuizState, i, q.CorrectIndex)
		}

		row := QuestionResult{
			Position:     i,
			Prompt:       q.Prompt,
			SelectedText: NotAnswered,
			CorrectIndex: q.CorrectIndex,
			CorrectText:  q.Options[q.CorrectIndex],
			Explanation:  q.Explanation,
		}

		if selected, ok := answers[i]; ok {
			sel := selected
			row.SelectedIndex = &sel
			if selected >= 0 && selected < len(q.Options) {
				row.SelectedText = q.Options[selected]
			}
			if selected == q.CorrectIndex {
				row.IsCorrect = true
				res.Score++
			}
		}

		res.Breakdown[i] = row
	}

	exact := 100 * float64(res.Score) / float64(total)
	res.Passed = exact >= passingScore
	res.Percentage = roundPercent(exact)
	return res, nil
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}

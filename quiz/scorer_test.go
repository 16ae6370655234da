package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedView() ShuffledView {
	return ShuffledView{
		{Question: Question{Prompt: "a", Options: []string{"x", "y", "z"}, CorrectIndex: 1}},
		{Question: Question{Prompt: "b", Options: []string{"x", "y", "z"}, CorrectIndex: 2}},
		{Question: Question{Prompt: "c", Options: []string{"x", "y", "z"}, CorrectIndex: 2, Explanation: "because"}},
	}
}

func TestScoreTwoOfThreeFailsAtSeventy(t *testing.T) {
	res, err := Score(fixedView(), Answers{0: 1, 1: 2, 2: 0}, 70)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 66.67, res.Percentage)
	assert.False(t, res.Passed)

	assert.True(t, res.Breakdown[0].IsCorrect)
	assert.False(t, res.Breakdown[2].IsCorrect)
	assert.Equal(t, "x", res.Breakdown[2].SelectedText)
	assert.Equal(t, "z", res.Breakdown[2].CorrectText)
	assert.Equal(t, "because", res.Breakdown[2].Explanation)
}

func TestScorePassesOnExactPercentage(t *testing.T) {
	answers := Answers{0: 1, 1: 2, 2: 0}

	res, err := Score(fixedView(), answers, 66.67)
	require.NoError(t, err)
	assert.Equal(t, 66.67, res.Percentage)
	assert.False(t, res.Passed)

	res, err = Score(fixedView(), answers, 66.66)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestScoreUnansweredCountsAsIncorrect(t *testing.T) {
	res, err := Score(fixedView(), Answers{0: 1}, 30)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 33.33, res.Percentage)
	assert.True(t, res.Passed)
	assert.Nil(t, res.Breakdown[1].SelectedIndex)
	assert.Equal(t, NotAnswered, res.Breakdown[1].SelectedText)
}

func TestScoreOutOfRangeSelection(t *testing.T) {
	res, err := Score(fixedView(), Answers{0: 9, 1: -1}, 50)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	require.NotNil(t, res.Breakdown[0].SelectedIndex)
	assert.Equal(t, 9, *res.Breakdown[0].SelectedIndex)
	assert.Equal(t, NotAnswered, res.Breakdown[0].SelectedText)
}

func TestScoreEmptyViewIsInvalid(t *testing.T) {
	_, err := Score(ShuffledView{}, Answers{}, 50)
	assert.ErrorIs(t, err, ErrInvalidQuizState)
}

func TestScoreMatchesCountAndIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	r := NewRandomizer(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		view := r.Shuffle(sampleQuestions())
		answers := Answers{}
		want := 0
		for pos, q := range view {
			if rng.Intn(4) == 0 {
				continue
			}
			sel := rng.Intn(len(q.Options))
			answers[pos] = sel
			if sel == q.CorrectIndex {
				want++
			}
		}

		threshold := float64(rng.Intn(101))
		first, err := Score(view, answers, threshold)
		require.NoError(t, err)
		second, err := Score(view, answers, threshold)
		require.NoError(t, err)

		assert.Equal(t, want, first.Score)
		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first.Percentage, 0.0)
		assert.LessOrEqual(t, first.Percentage, 100.0)
		assert.Equal(t, 100*float64(want)/float64(len(view)) >= threshold, first.Passed)
	}
}

func TestValidateSet(t *testing.T) {
	assert.ErrorIs(t, ValidateSet(nil), ErrInvalidQuizState)
	assert.NoError(t, ValidateSet(sampleQuestions()))

	bad := sampleQuestions()
	bad[1].CorrectIndex = 4
	assert.ErrorIs(t, ValidateSet(bad), ErrInvalidQuizState)

	tooFew := []Question{{Prompt: "p", Options: []string{"only"}, CorrectIndex: 0}}
	assert.ErrorIs(t, ValidateSet(tooFew), ErrInvalidQuizState)

	unknown := []Question{{Type: "essay", Prompt: "p", Options: []string{"a", "b"}}}
	assert.ErrorIs(t, ValidateSet(unknown), ErrInvalidQuizState)
}

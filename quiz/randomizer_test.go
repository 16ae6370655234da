package quiz

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []Question {
	return []Question{
		{Type: SingleChoice, Prompt: "2 + 2", Options: []string{"3", "4", "5"}, CorrectIndex: 1},
		{Type: SingleChoice, Prompt: "Capital of France", Options: []string{"Berlin", "Rome", "Paris", "Madrid"}, CorrectIndex: 2},
		{Type: SingleChoice, Prompt: "Go keyword for goroutines", Options: []string{"async", "spawn", "go"}, CorrectIndex: 2, Explanation: "go starts a goroutine"},
	}
}

func TestShuffleKeepsCorrectAnswerText(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		questions := sampleQuestions()
		view := NewRandomizer(rand.NewSource(seed)).Shuffle(questions)

		require.Len(t, view, len(questions))
		seen := make(map[int]bool)
		for _, sq := range view {
			orig := questions[sq.SourceIndex]
			seen[sq.SourceIndex] = true

			assert.Equal(t, orig.Prompt, sq.Prompt)
			assert.Equal(t, orig.Options[orig.CorrectIndex], sq.Options[sq.CorrectIndex])

			got := append([]string(nil), sq.Options...)
			want := append([]string(nil), orig.Options...)
			sort.Strings(got)
			sort.Strings(want)
			assert.Equal(t, want, got)

			for pos, storedIdx := range sq.OptionOrder {
				assert.Equal(t, orig.Options[storedIdx], sq.Options[pos])
			}
		}
		assert.Len(t, seen, len(questions))
	}
}

func TestShuffleTracksPositionWithDuplicateTexts(t *testing.T) {
	questions := []Question{
		{Prompt: "Pick the second yes", Options: []string{"yes", "no", "yes", "maybe"}, CorrectIndex: 2},
	}
	for seed := int64(0); seed < 100; seed++ {
		view := NewRandomizer(rand.NewSource(seed)).Shuffle(questions)
		require.Len(t, view, 1)
		assert.Equal(t, 2, view[0].OptionOrder[view[0].CorrectIndex], "seed %d", seed)
	}
}

func TestShuffleDoesNotAliasInput(t *testing.T) {
	questions := sampleQuestions()
	before := sampleQuestions()

	view := NewRandomizer(rand.NewSource(7)).Shuffle(questions)
	for i := range view {
		view[i].Options[0] = "mutated"
		view[i].Prompt = "mutated"
	}

	assert.Equal(t, before, questions)
}

func TestShuffleEventuallyReordersQuestions(t *testing.T) {
	r := NewRandomizer(rand.NewSource(42))
	moved := false
	for i := 0; i < 50 && !moved; i++ {
		view := r.Shuffle(sampleQuestions())
		for pos, sq := range view {
			if sq.SourceIndex != pos {
				moved = true
			}
		}
	}
	assert.True(t, moved)
}

func TestPublicHidesAnswerKey(t *testing.T) {
	view := NewRandomizer(rand.NewSource(1)).Shuffle(sampleQuestions())
	public := view.Public()

	require.Len(t, public, len(view))
	for i, pq := range public {
		assert.Equal(t, i, pq.Position)
		assert.Equal(t, view[i].Options, pq.Options)
		assert.Equal(t, SingleChoice, pq.Type)
	}
}

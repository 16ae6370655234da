package quiz

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler produces shuffled views of a question set.
type Shuffler interface {
	Shuffle(questions []Question) ShuffledView
}

// Randomizer shuffles options by index and then question order. A single
// instance is shared by all requests, so the source is guarded.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer seeds from the clock when src is nil.
func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Randomizer{rng: rand.New(src)}
}

// Shuffle returns a deep copy of questions with each option list permuted and
// the question order permuted. CorrectIndex follows the permutation of
// positions, so duplicate option texts cannot confuse it.
func (r *Randomizer) Shuffle(questions []Question) ShuffledView {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := make(ShuffledView, len(questions))
	for qi, q := range questions {
		perm := r.rng.Perm(len(q.Options))

		options := make([]string, len(q.Options))
		correct := -1
		for newPos, oldPos := range perm {
			options[newPos] = q.Options[oldPos]
			if oldPos == q.CorrectIndex {
				correct = newPos
			}
		}

		view[qi] = ShuffledQuestion{
			Question: Question{
				Type:         q.Type,
				Prompt:       q.Prompt,
				Options:      options,
				CorrectIndex: correct,
				Explanation:  q.Explanation,
			},
			SourceIndex: qi,
			OptionOrder: perm,
		}
	}

	r.rng.Shuffle(len(view), func(i, j int) {
		view[i], view[j] = view[j], view[i]
	})

	return view
}

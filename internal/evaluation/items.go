package evaluation

import (
	"math/rand/v2"

	"github.com/abhisek/flashcarding/internal/deck"
)

// BuildItems makes one multiple-choice item per card. The correct option is
// the card's own explanation; distractors are explanations of other cards in
// the pool. Each item has at most nOptions options, fewer when the pool is
// small. newID must not fail.
func BuildItems(cards []*deck.Card, nOptions int, rng *rand.Rand, newID func() string) []deck.MCQItem {
	items := make([]deck.MCQItem, 0, len(cards))
	for _, c := range cards {
		others := make([]*deck.Card, 0, len(cards)-1)
		for _, o := range cards {
			if o.ID != c.ID {
				others = append(others, o)
			}
		}
		rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

		options := []deck.MCQOption{{
			ID:         newID(),
			Text:       c.Explanation,
			Source:     deck.OptionCard,
			FromCardID: c.ID,
		}}
		for _, o := range others {
			if len(options) >= nOptions {
				break
			}
			options = append(options, deck.MCQOption{
				ID:         newID(),
				Text:       o.Explanation,
				Source:     deck.OptionCross,
				FromCardID: o.ID,
			})
		}
		rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

		answer := 0
		for i, o := range options {
			if o.FromCardID == c.ID {
				answer = i
				break
			}
		}
		items = append(items, deck.MCQItem{
			ID:          newID(),
			CardID:      c.ID,
			Stem:        c.Term,
			Options:     options,
			AnswerIndex: answer,
			LectureID:   c.LectureID,
		})
	}
	return items
}

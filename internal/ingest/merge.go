package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/extract"
)

// MergeStats counts what a merge did.
type MergeStats struct {
	Added   int
	Updated int
	Skipped int
}

// Merge folds rows into a lecture's cards by normalized term. An existing
// card takes a row's explanation only when it is strictly longer; otherwise
// a new card is appended with zero stats. Rows with a blank side or an empty
// key are skipped. Rows in the same batch merge with each other as well.
func Merge(tx *deck.Tx, lectureID string, rows []extract.Row) (MergeStats, error) {
	var stats MergeStats

	cards, err := tx.View().LectureCards(lectureID)
	if err != nil {
		return stats, err
	}
	byKey := make(map[string]*deck.Card, len(cards))
	for _, c := range cards {
		k := extract.NormalizeTerm(c.Term)
		if _, seen := byKey[k]; !seen {
			byKey[k] = c
		}
	}

	for _, row := range rows {
		term := strings.TrimSpace(row.Term)
		exp := strings.TrimSpace(row.Explanation)
		key := extract.NormalizeTerm(term)
		if term == "" || exp == "" || key == "" {
			stats.Skipped++
			continue
		}

		if prev, ok := byKey[key]; ok {
			if utf8.RuneCountInString(exp) <= utf8.RuneCountInString(prev.Explanation) {
				continue
			}
			updated, err := tx.EditCard(prev.ID, prev.Term, exp)
			if err != nil {
				return stats, err
			}
			byKey[key] = updated
			stats.Updated++
			continue
		}

		c, err := tx.AddCard(lectureID, term, exp)
		if err != nil {
			return stats, err
		}
		byKey[key] = c
		stats.Added++
	}
	return stats, nil
}

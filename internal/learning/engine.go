// Package learning runs ordered self-review passes over a card scope.
package learning

import (
	"fmt"
	"slices"

	"github.com/abhisek/flashcarding/internal/deck"
)

// Engine drives learning runs stored in a deck store.
type Engine struct {
	store *deck.Store
}

// New creates an engine over st.
func New(st *deck.Store) *Engine {
	return &Engine{store: st}
}

// Start creates a run over the scoped cards in lecture order. The first card
// counts as viewed.
func (e *Engine) Start(setID string, scope deck.Scope) (*deck.LearningRun, error) {
	var run deck.LearningRun
	err := e.store.Update(func(tx *deck.Tx) error {
		order, err := tx.View().ScopeCardIDs(setID, scope)
		if err != nil {
			return err
		}
		run = deck.LearningRun{
			ID:           tx.NewID(),
			SetID:        setID,
			LectureScope: scope,
			CreatedAt:    tx.Now(),
			Order:        order,
			Cursor:       0,
			Events:       []deck.LearningEvent{},
		}
		if run.Order == nil {
			run.Order = []string{}
		}
		tx.PutLearningRun(run)
		if len(order) > 0 {
			markViewed(tx, order[0])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Clamp moves cursor by delta and keeps it inside [0, n-1]; 0 when n is 0.
func Clamp(cursor, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(n-1, cursor+delta))
}

// MoveCursor shifts the run's cursor by delta, clamped to the order bounds.
func (e *Engine) MoveCursor(runID string, delta int) (*deck.LearningRun, error) {
	return e.mutate(runID, func(tx *deck.Tx, run *deck.LearningRun) error {
		run.Cursor = Clamp(run.Cursor, delta, len(run.Order))
		return nil
	})
}

// LogEvent appends an event to the run's log.
func (e *Engine) LogEvent(runID string, ev deck.LearningEvent) error {
	if !ev.Type.Valid() {
		return fmt.Errorf("%w: event type %q", deck.ErrValidation, ev.Type)
	}
	_, err := e.mutate(runID, func(tx *deck.Tx, run *deck.LearningRun) error {
		if ev.T.IsZero() {
			ev.T = tx.Now()
		}
		run.Events = append(slices.Clip(run.Events), ev)
		return nil
	})
	return err
}

// BumpStats merges a stats change into a card.
func (e *Engine) BumpStats(cardID string, fn func(*deck.CardStats)) error {
	return e.store.BumpCardStats(cardID, fn)
}

// Flip records that the current card was turned over.
func (e *Engine) Flip(runID string) (*deck.LearningRun, error) {
	return e.mutate(runID, func(tx *deck.Tx, run *deck.LearningRun) error {
		if len(run.Order) == 0 {
			return nil
		}
		cardID := run.Order[run.Cursor]
		now := tx.Now()
		run.Events = append(slices.Clip(run.Events), deck.LearningEvent{T: now, Type: deck.EventFlip, CardID: cardID})
		if _, err := tx.View().Card(cardID); err != nil {
			return nil
		}
		return tx.BumpCardStats(cardID, func(s *deck.CardStats) {
			s.Flips++
			s.LastSeen = &now
		})
	})
}

// Next advances to the following card. It is a no-op on the last card.
func (e *Engine) Next(runID string) (*deck.LearningRun, error) {
	return e.step(runID, 1, deck.EventNext)
}

// Prev goes back one card. It is a no-op on the first card.
func (e *Engine) Prev(runID string) (*deck.LearningRun, error) {
	return e.step(runID, -1, deck.EventPrev)
}

func (e *Engine) step(runID string, delta int, typ deck.EventType) (*deck.LearningRun, error) {
	return e.mutate(runID, func(tx *deck.Tx, run *deck.LearningRun) error {
		next := Clamp(run.Cursor, delta, len(run.Order))
		if len(run.Order) == 0 || next == run.Cursor {
			return nil
		}
		run.Events = append(slices.Clip(run.Events), deck.LearningEvent{
			T:      tx.Now(),
			Type:   typ,
			CardID: run.Order[run.Cursor],
		})
		run.Cursor = next
		markViewed(tx, run.Order[next])
		return nil
	})
}

func (e *Engine) mutate(runID string, fn func(*deck.Tx, *deck.LearningRun) error) (*deck.LearningRun, error) {
	var out deck.LearningRun
	err := e.store.Update(func(tx *deck.Tx) error {
		cur, err := tx.View().LearningRun(runID)
		if err != nil {
			return err
		}
		out = *cur
		if err := fn(tx, &out); err != nil {
			return err
		}
		tx.PutLearningRun(out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// markViewed bumps views and lastSeen. Cards deleted after the run started
// are skipped.
func markViewed(tx *deck.Tx, cardID string) {
	if _, err := tx.View().Card(cardID); err != nil {
		return
	}
	now := tx.Now()
	_ = tx.BumpCardStats(cardID, func(s *deck.CardStats) {
		s.Views++
		s.LastSeen = &now
	})
}

// Current returns the card under the cursor. It reports false for an empty
// run or a card that no longer exists.
func Current(st *deck.State, run *deck.LearningRun) (*deck.Card, bool) {
	if len(run.Order) == 0 {
		return nil, false
	}
	c, err := st.Card(run.Order[run.Cursor])
	if err != nil {
		return nil, false
	}
	return c, true
}

// Done reports whether the cursor sits on the last card.
func Done(run *deck.LearningRun) bool {
	return len(run.Order) == 0 || run.Cursor == len(run.Order)-1
}

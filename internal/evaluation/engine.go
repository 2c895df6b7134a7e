// Package evaluation builds and scores multiple-choice quizzes over cards.
package evaluation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/abhisek/flashcarding/internal/deck"
)

// DefaultOptions is the usual number of choices per item.
const DefaultOptions = 4

var (
	ErrInvalidOptions  = errors.New("an item needs at least 2 options")
	ErrRunFinished     = errors.New("evaluation run already finished")
	ErrInvalidChoice   = errors.New("choice out of range")
	ErrAlreadyAnswered = errors.New("item already answered")
)

// idAlphabet keeps ids safe to pass as command arguments: no leading dash.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Engine drives evaluation runs stored in a deck store.
type Engine struct {
	store *deck.Store
	rng   *rand.Rand
	newID func() (string, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand makes shuffling deterministic.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithIDFunc overrides item and option ids.
func WithIDFunc(fn func() (string, error)) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an engine over st.
func New(st *deck.Store, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		newID: func() (string, error) { return gonanoid.Generate(idAlphabet, 12) },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start creates a run with one item per scoped card. The rng is only used
// inside the store's write lock, so it needs no locking of its own.
func (e *Engine) Start(setID string, scope deck.Scope, nOptions int) (*deck.EvaluationRun, error) {
	if nOptions < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOptions, nOptions)
	}

	var run deck.EvaluationRun
	err := e.store.Update(func(tx *deck.Tx) error {
		st := tx.View()
		ids, err := st.ScopeCardIDs(setID, scope)
		if err != nil {
			return err
		}
		cards := make([]*deck.Card, 0, len(ids))
		for _, id := range ids {
			if c, ok := st.Cards[id]; ok {
				cards = append(cards, c)
			}
		}

		var idErr error
		newID := func() string {
			id, err := e.newID()
			if err != nil && idErr == nil {
				idErr = err
			}
			return id
		}
		items := BuildItems(cards, nOptions, e.rng, newID)
		if idErr != nil {
			return fmt.Errorf("generate ids: %w", idErr)
		}

		run = deck.EvaluationRun{
			ID:           tx.NewID(),
			SetID:        setID,
			LectureScope: scope,
			CreatedAt:    tx.Now(),
			Items:        items,
			Responses:    []deck.MCQResponse{},
		}
		tx.PutEvaluationRun(run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Answer records a response. A correct answer extends the card's streak; a
// wrong one resets it. The response is kept even if the card was deleted.
func (e *Engine) Answer(runID, itemID string, chosenIndex int) (deck.MCQResponse, error) {
	var resp deck.MCQResponse
	err := e.store.Update(func(tx *deck.Tx) error {
		cur, err := tx.View().EvaluationRun(runID)
		if err != nil {
			return err
		}
		if cur.Finished() {
			return ErrRunFinished
		}
		item, ok := cur.Item(itemID)
		if !ok {
			return &deck.NotFoundError{Kind: deck.KindEvaluationItem, ID: itemID}
		}
		if chosenIndex < 0 || chosenIndex >= len(item.Options) {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidChoice, chosenIndex, len(item.Options))
		}
		if _, done := cur.Response(itemID); done {
			return ErrAlreadyAnswered
		}

		resp = deck.MCQResponse{
			ItemID:      itemID,
			ChosenIndex: chosenIndex,
			Correct:     chosenIndex == item.AnswerIndex,
			T:           tx.Now(),
		}
		run := *cur
		run.Responses = append(slices.Clip(cur.Responses), resp)
		tx.PutEvaluationRun(run)

		if _, err := tx.View().Card(item.CardID); err != nil {
			return nil
		}
		return tx.BumpCardStats(item.CardID, func(s *deck.CardStats) {
			if resp.Correct {
				s.Streak++
			} else {
				s.Streak = 0
			}
		})
	})
	return resp, err
}

// Finish stamps the completion time. Finishing twice is an error.
func (e *Engine) Finish(runID string) (*deck.EvaluationRun, error) {
	var run deck.EvaluationRun
	err := e.store.Update(func(tx *deck.Tx) error {
		cur, err := tx.View().EvaluationRun(runID)
		if err != nil {
			return err
		}
		if cur.Finished() {
			return ErrRunFinished
		}
		run = *cur
		now := tx.Now()
		run.CompletedAt = &now
		tx.PutEvaluationRun(run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

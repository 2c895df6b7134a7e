package deck

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IDFunc produces fresh entity ids.
type IDFunc func() string

// Store owns the current State. Writers are serialized; readers take a
// Snapshot and never block.
type Store struct {
	mu       sync.Mutex
	cur      atomic.Pointer[State]
	newID    IDFunc
	now      func() time.Time
	validate *validator.Validate
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc overrides id generation.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithState seeds the store with an existing graph.
func WithState(st *State) Option {
	return func(s *Store) { s.cur.Store(normalize(st)) }
}

// New creates a store holding an empty graph unless WithState is given.
func New(opts ...Option) *Store {
	s := &Store{
		newID:    uuid.NewString,
		now:      time.Now,
		validate: validator.New(),
	}
	s.cur.Store(NewState())
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the current published state.
func (s *Store) Snapshot() *State {
	return s.cur.Load()
}

// Update runs fn against a transaction over the current state. The resulting
// state is published only if fn returns nil.
func (s *Store) Update(fn func(*Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		st:       *s.cur.Load(),
		newID:    s.newID,
		now:      s.now,
		validate: s.validate,
	}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.dirty != 0 {
		next := tx.st
		s.cur.Store(&next)
	}
	return nil
}

// Swap replaces the current state with the one fn derives from it. fn must
// not modify cur. Nothing is published if fn fails.
func (s *Store) Swap(fn func(cur *State) (*State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.cur.Load())
	if err != nil {
		return err
	}
	s.cur.Store(normalize(next))
	return nil
}

// NewID returns a fresh id from the store's generator.
func (s *Store) NewID() string { return s.newID() }

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }

func normalize(st *State) *State {
	if st == nil {
		return NewState()
	}
	out := *st
	if out.Sets == nil {
		out.Sets = map[string]*Set{}
	}
	if out.Lectures == nil {
		out.Lectures = map[string]*Lecture{}
	}
	if out.Cards == nil {
		out.Cards = map[string]*Card{}
	}
	if out.Jobs == nil {
		out.Jobs = map[string]*Job{}
	}
	if out.LearningRuns == nil {
		out.LearningRuns = map[string]*LearningRun{}
	}
	if out.EvaluationRuns == nil {
		out.EvaluationRuns = map[string]*EvaluationRun{}
	}
	return &out
}

// updateWith is Update for callbacks that produce a value.
func updateWith[T any](s *Store, fn func(*Tx) (T, error)) (T, error) {
	var out T
	err := s.Update(func(tx *Tx) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

const (
	dirtySets uint8 = 1 << iota
	dirtyLectures
	dirtyCards
	dirtyJobs
	dirtyLearning
	dirtyEvaluation
)

// Tx is a copy-on-write view used inside Store.Update. Each map is cloned on
// its first write; records are replaced, never modified in place.
type Tx struct {
	st       State
	dirty    uint8
	newID    IDFunc
	now      func() time.Time
	validate *validator.Validate
}

// View exposes the in-progress state for reads.
func (tx *Tx) View() *State { return &tx.st }

// NewID returns a fresh entity id.
func (tx *Tx) NewID() string { return tx.newID() }

// Now returns the transaction clock.
func (tx *Tx) Now() time.Time { return tx.now() }

func (tx *Tx) sets() map[string]*Set {
	if tx.dirty&dirtySets == 0 {
		tx.st.Sets = maps.Clone(tx.st.Sets)
		tx.dirty |= dirtySets
	}
	return tx.st.Sets
}

func (tx *Tx) lectures() map[string]*Lecture {
	if tx.dirty&dirtyLectures == 0 {
		tx.st.Lectures = maps.Clone(tx.st.Lectures)
		tx.dirty |= dirtyLectures
	}
	return tx.st.Lectures
}

func (tx *Tx) cards() map[string]*Card {
	if tx.dirty&dirtyCards == 0 {
		tx.st.Cards = maps.Clone(tx.st.Cards)
		tx.dirty |= dirtyCards
	}
	return tx.st.Cards
}

func (tx *Tx) jobs() map[string]*Job {
	if tx.dirty&dirtyJobs == 0 {
		tx.st.Jobs = maps.Clone(tx.st.Jobs)
		tx.dirty |= dirtyJobs
	}
	return tx.st.Jobs
}

func (tx *Tx) learningRuns() map[string]*LearningRun {
	if tx.dirty&dirtyLearning == 0 {
		tx.st.LearningRuns = maps.Clone(tx.st.LearningRuns)
		tx.dirty |= dirtyLearning
	}
	return tx.st.LearningRuns
}

func (tx *Tx) evaluationRuns() map[string]*EvaluationRun {
	if tx.dirty&dirtyEvaluation == 0 {
		tx.st.EvaluationRuns = maps.Clone(tx.st.EvaluationRuns)
		tx.dirty |= dirtyEvaluation
	}
	return tx.st.EvaluationRuns
}

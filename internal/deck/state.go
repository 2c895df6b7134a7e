package deck

import (
	"cmp"
	"slices"
)

// State is one published version of the entity graph. A State handed out by
// Store.Snapshot is never modified afterwards; callers must treat it and the
// records it points to as read-only.
type State struct {
	Sets           map[string]*Set
	Lectures       map[string]*Lecture
	Cards          map[string]*Card
	Jobs           map[string]*Job
	LearningRuns   map[string]*LearningRun
	EvaluationRuns map[string]*EvaluationRun
}

// NewState returns an empty graph.
func NewState() *State {
	return &State{
		Sets:           map[string]*Set{},
		Lectures:       map[string]*Lecture{},
		Cards:          map[string]*Card{},
		Jobs:           map[string]*Job{},
		LearningRuns:   map[string]*LearningRun{},
		EvaluationRuns: map[string]*EvaluationRun{},
	}
}

// Set looks up a set by id. A miss is a *NotFoundError.
func (st *State) Set(id string) (*Set, error) {
	if s, ok := st.Sets[id]; ok {
		return s, nil
	}
	return nil, notFound(KindSet, id)
}

// Lecture looks up a lecture by id. A miss is a *NotFoundError.
func (st *State) Lecture(id string) (*Lecture, error) {
	if l, ok := st.Lectures[id]; ok {
		return l, nil
	}
	return nil, notFound(KindLecture, id)
}

// Card looks up a card by id. A miss is a *NotFoundError.
func (st *State) Card(id string) (*Card, error) {
	if c, ok := st.Cards[id]; ok {
		return c, nil
	}
	return nil, notFound(KindCard, id)
}

// Job looks up a job by id. A miss is a *NotFoundError.
func (st *State) Job(id string) (*Job, error) {
	if j, ok := st.Jobs[id]; ok {
		return j, nil
	}
	return nil, notFound(KindJob, id)
}

// LearningRun looks up a learning run by id. A miss is a *NotFoundError.
func (st *State) LearningRun(id string) (*LearningRun, error) {
	if r, ok := st.LearningRuns[id]; ok {
		return r, nil
	}
	return nil, notFound(KindLearningRun, id)
}

// EvaluationRun looks up a evaluation run by id. A miss is a *NotFoundError.
func (st *State) EvaluationRun(id string) (*EvaluationRun, error) {
	if r, ok := st.EvaluationRuns[id]; ok {
		return r, nil
	}
	return nil, notFound(KindEvaluationRun, id)
}

// SortedSets returns all sets ordered by creation time, then id.
func (st *State) SortedSets() []*Set {
	out := make([]*Set, 0, len(st.Sets))
	for _, s := range st.Sets {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Set) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SetLectures returns the lectures of a set in set order.
func (st *State) SetLectures(setID string) ([]*Lecture, error) {
	s, err := st.Set(setID)
	if err != nil {
		return nil, err
	}
	out := make([]*Lecture, 0, len(s.LectureIDs))
	for _, id := range s.LectureIDs {
		if l, ok := st.Lectures[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// LectureCards returns the cards of a lecture in lecture order.
func (st *State) LectureCards(lectureID string) ([]*Card, error) {
	l, err := st.Lecture(lectureID)
	if err != nil {
		return nil, err
	}
	out := make([]*Card, 0, len(l.CardIDs))
	for _, id := range l.CardIDs {
		if c, ok := st.Cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ResolveScope returns the lectures a scope covers. AllLectures expands to the
// set's lectures in set order; explicit ids must all exist and belong to the
// set. A lecture from another set is reported as not found.
func (st *State) ResolveScope(setID string, scope Scope) ([]*Lecture, error) {
	if scope.All {
		return st.SetLectures(setID)
	}
	if _, err := st.Set(setID); err != nil {
		return nil, err
	}
	out := make([]*Lecture, 0, len(scope.LectureIDs))
	for _, id := range scope.LectureIDs {
		l, err := st.Lecture(id)
		if err != nil {
			return nil, err
		}
		if l.SetID != setID {
			return nil, notFound(KindLecture, id)
		}
		out = append(out, l)
	}
	return out, nil
}

// ScopeCardIDs concatenates the card ids of the scoped lectures.
func (st *State) ScopeCardIDs(setID string, scope Scope) ([]string, error) {
	lectures, err := st.ResolveScope(setID, scope)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, l := range lectures {
		ids = append(ids, l.CardIDs...)
	}
	return ids, nil
}

// QueuedJob returns the first queued job for a lecture, if any.
func (st *State) QueuedJob(lectureID string) (*Job, bool) {
	var found *Job
	for _, j := range st.Jobs {
		if j.LectureID != lectureID || j.Stage != StageQueued {
			continue
		}
		if found == nil || j.ID < found.ID {
			found = j
		}
	}
	return found, found != nil
}

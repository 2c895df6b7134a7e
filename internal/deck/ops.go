package deck

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

type titleInput struct {
	Title string `validate:"required,max=200"`
}

type cardInput struct {
	Term        string `validate:"required"`
	Explanation string `validate:"required"`
}

func (tx *Tx) check(v any) error {
	err := tx.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// CreateSet adds an empty set.
func (tx *Tx) CreateSet(title string) (*Set, error) {
	title = strings.TrimSpace(title)
	if err := tx.check(titleInput{Title: title}); err != nil {
		return nil, err
	}
	s := &Set{
		ID:         tx.newID(),
		Title:      title,
		CreatedAt:  tx.now(),
		LectureIDs: []string{},
	}
	tx.sets()[s.ID] = s
	return s, nil
}

// RenameSet changes a set's title.
func (tx *Tx) RenameSet(id, title string) error {
	title = strings.TrimSpace(title)
	if err := tx.check(titleInput{Title: title}); err != nil {
		return err
	}
	s, err := tx.st.Set(id)
	if err != nil {
		return err
	}
	next := *s
	next.Title = title
	tx.sets()[id] = &next
	return nil
}

// DeleteSet removes a set together with its lectures, their cards and any
// jobs attached to those lectures.
func (tx *Tx) DeleteSet(id string) error {
	s, err := tx.st.Set(id)
	if err != nil {
		return err
	}
	for _, lid := range s.LectureIDs {
		tx.dropLecture(lid)
	}
	// Lectures whose set pointer disagrees with the membership list still go.
	for lid, l := range tx.st.Lectures {
		if l.SetID == id {
			tx.dropLecture(lid)
		}
	}
	delete(tx.sets(), id)
	return nil
}

// AddLecture appends a new lecture to a set.
func (tx *Tx) AddLecture(setID, title string) (*Lecture, error) {
	title = strings.TrimSpace(title)
	if err := tx.check(titleInput{Title: title}); err != nil {
		return nil, err
	}
	s, err := tx.st.Set(setID)
	if err != nil {
		return nil, err
	}
	l := &Lecture{
		ID:      tx.newID(),
		SetID:   setID,
		Title:   title,
		Sources: []SourceDoc{},
		CardIDs: []string{},
	}
	tx.lectures()[l.ID] = l

	ns := *s
	ns.LectureIDs = append(slices.Clip(s.LectureIDs), l.ID)
	tx.sets()[setID] = &ns
	return l, nil
}

// RenameLecture changes a lecture's title.
func (tx *Tx) RenameLecture(id, title string) error {
	title = strings.TrimSpace(title)
	if err := tx.check(titleInput{Title: title}); err != nil {
		return err
	}
	l, err := tx.st.Lecture(id)
	if err != nil {
		return err
	}
	next := *l
	next.Title = title
	tx.lectures()[id] = &next
	return nil
}

// DeleteLecture removes a lecture and its cards and detaches it from its set.
func (tx *Tx) DeleteLecture(id string) error {
	l, err := tx.st.Lecture(id)
	if err != nil {
		return err
	}
	if s, ok := tx.st.Sets[l.SetID]; ok {
		ns := *s
		ns.LectureIDs = without(s.LectureIDs, id)
		tx.sets()[s.ID] = &ns
	}
	tx.dropLecture(id)
	return nil
}

func (tx *Tx) dropLecture(id string) {
	l, ok := tx.st.Lectures[id]
	if !ok {
		return
	}
	for _, cid := range l.CardIDs {
		delete(tx.cards(), cid)
	}
	for cid, c := range tx.st.Cards {
		if c.LectureID == id {
			delete(tx.cards(), cid)
		}
	}
	for jid, j := range tx.st.Jobs {
		if j.LectureID == id {
			delete(tx.jobs(), jid)
		}
	}
	delete(tx.lectures(), id)
}

// AppendSource records an ingested source on a lecture.
func (tx *Tx) AppendSource(lectureID string, doc SourceDoc) error {
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: source kind %q", ErrValidation, doc.Kind)
	}
	l, err := tx.st.Lecture(lectureID)
	if err != nil {
		return err
	}
	next := *l
	next.Sources = append(slices.Clip(l.Sources), doc)
	tx.lectures()[lectureID] = &next
	return nil
}

// AddCard creates a card at the end of a lecture. Terms are not checked for
// duplicates here; merging happens during ingestion.
func (tx *Tx) AddCard(lectureID, term, explanation string) (*Card, error) {
	in := cardInput{Term: strings.TrimSpace(term), Explanation: strings.TrimSpace(explanation)}
	if err := tx.check(in); err != nil {
		return nil, err
	}
	l, err := tx.st.Lecture(lectureID)
	if err != nil {
		return nil, err
	}
	c := &Card{
		ID:          tx.newID(),
		LectureID:   lectureID,
		Term:        in.Term,
		Explanation: in.Explanation,
	}
	tx.cards()[c.ID] = c

	nl := *l
	nl.CardIDs = append(slices.Clip(l.CardIDs), c.ID)
	tx.lectures()[lectureID] = &nl
	return c, nil
}

// EditCard replaces a card's term and explanation.
func (tx *Tx) EditCard(id, term, explanation string) (*Card, error) {
	in := cardInput{Term: strings.TrimSpace(term), Explanation: strings.TrimSpace(explanation)}
	if err := tx.check(in); err != nil {
		return nil, err
	}
	c, err := tx.st.Card(id)
	if err != nil {
		return nil, err
	}
	next := *c
	next.Term = in.Term
	next.Explanation = in.Explanation
	tx.cards()[id] = &next
	return &next, nil
}

// DeleteCard removes a card and its lecture membership.
func (tx *Tx) DeleteCard(id string) error {
	c, err := tx.st.Card(id)
	if err != nil {
		return err
	}
	if l, ok := tx.st.Lectures[c.LectureID]; ok {
		nl := *l
		nl.CardIDs = without(l.CardIDs, id)
		tx.lectures()[l.ID] = &nl
	}
	delete(tx.cards(), id)
	return nil
}

// BumpCardStats applies fn to a copy of a card's stats and stores the result.
func (tx *Tx) BumpCardStats(id string, fn func(*CardStats)) error {
	c, err := tx.st.Card(id)
	if err != nil {
		return err
	}
	next := *c
	fn(&next.Stats)
	tx.cards()[id] = &next
	return nil
}

// EnqueueJob creates a queued job for a lecture.
func (tx *Tx) EnqueueJob(lectureID string) (*Job, error) {
	if _, err := tx.st.Lecture(lectureID); err != nil {
		return nil, err
	}
	j := &Job{ID: tx.newID(), LectureID: lectureID, Stage: StageQueued}
	tx.jobs()[j.ID] = j
	return j, nil
}

// PutJob stores a job record, replacing any previous version.
func (tx *Tx) PutJob(j Job) error {
	if !j.Stage.Valid() {
		return fmt.Errorf("%w: job stage %q", ErrValidation, j.Stage)
	}
	if _, err := tx.st.Lecture(j.LectureID); err != nil {
		return err
	}
	tx.jobs()[j.ID] = &j
	return nil
}

// PutLearningRun stores a learning run, replacing any previous version.
func (tx *Tx) PutLearningRun(r LearningRun) {
	tx.learningRuns()[r.ID] = &r
}

// PutEvaluationRun stores an evaluation run, replacing any previous version.
func (tx *Tx) PutEvaluationRun(r EvaluationRun) {
	tx.evaluationRuns()[r.ID] = &r
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// CreateSet adds an empty set.
func (s *Store) CreateSet(title string) (*Set, error) {
	return updateWith(s, func(tx *Tx) (*Set, error) { return tx.CreateSet(title) })
}

// RenameSet changes a set's title.
func (s *Store) RenameSet(id, title string) error {
	return s.Update(func(tx *Tx) error { return tx.RenameSet(id, title) })
}

// DeleteSet removes a set and everything under it.
func (s *Store) DeleteSet(id string) error {
	return s.Update(func(tx *Tx) error { return tx.DeleteSet(id) })
}

// AddLecture appends a new lecture to a set.
func (s *Store) AddLecture(setID, title string) (*Lecture, error) {
	return updateWith(s, func(tx *Tx) (*Lecture, error) { return tx.AddLecture(setID, title) })
}

// RenameLecture changes a lecture's title.
func (s *Store) RenameLecture(id, title string) error {
	return s.Update(func(tx *Tx) error { return tx.RenameLecture(id, title) })
}

// DeleteLecture removes a lecture and its cards.
func (s *Store) DeleteLecture(id string) error {
	return s.Update(func(tx *Tx) error { return tx.DeleteLecture(id) })
}

// AddCard creates a card at the end of a lecture.
func (s *Store) AddCard(lectureID, term, explanation string) (*Card, error) {
	return updateWith(s, func(tx *Tx) (*Card, error) { return tx.AddCard(lectureID, term, explanation) })
}

// EditCard replaces a card's term and explanation.
func (s *Store) EditCard(id, term, explanation string) (*Card, error) {
	return updateWith(s, func(tx *Tx) (*Card, error) { return tx.EditCard(id, term, explanation) })
}

// DeleteCard removes a card.
func (s *Store) DeleteCard(id string) error {
	return s.Update(func(tx *Tx) error { return tx.DeleteCard(id) })
}

// BumpCardStats applies fn to a card's stats.
func (s *Store) BumpCardStats(id string, fn func(*CardStats)) error {
	return s.Update(func(tx *Tx) error { return tx.BumpCardStats(id, fn) })
}

// EnqueueJob creates a queued job for a lecture.
func (s *Store) EnqueueJob(lectureID string) (*Job, error) {
	return updateWith(s, func(tx *Tx) (*Job, error) { return tx.EnqueueJob(lectureID) })
}

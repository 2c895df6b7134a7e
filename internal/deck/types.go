// Package deck holds the canonical entity graph: sets, lectures, cards,
// ingestion jobs and study runs. All mutation goes through Store.Update, which
// publishes immutable copy-on-write states.
package deck

import "time"

// SourceKind identifies where a lecture source came from.
type SourceKind string

const (
	SourceText     SourceKind = "text"
	SourceFile     SourceKind = "file"
	SourcePDF      SourceKind = "pdf"
	SourceMarkdown SourceKind = "markdown"
)

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceText, SourceFile, SourcePDF, SourceMarkdown:
		return true
	}
	return false
}

// Stage is the state of a processing job.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageExtracting Stage = "extracting"
	StageGenerating Stage = "generating"
	StageFinalizing Stage = "finalizing"
	StageDone       Stage = "done"
	StageError      Stage = "error"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageQueued, StageExtracting, StageGenerating, StageFinalizing, StageDone, StageError:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageError
}

// EventType is the kind of a learning event.
type EventType string

const (
	EventFlip EventType = "flip"
	EventNext EventType = "next"
	EventPrev EventType = "prev"
	EventView EventType = "view"
)

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	switch e {
	case EventFlip, EventNext, EventPrev, EventView:
		return true
	}
	return false
}

// OptionSource records how a multiple-choice option was produced.
type OptionSource string

const (
	OptionCard  OptionSource = "card"
	OptionGPT   OptionSource = "gpt"
	OptionCross OptionSource = "cross"
)

// Valid reports whether o is a known option source.
func (o OptionSource) Valid() bool {
	switch o {
	case OptionCard, OptionGPT, OptionCross:
		return true
	}
	return false
}

// Set is a named collection of lectures.
type Set struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	LectureIDs []string  `json:"lectureIds"`
}

// Lecture groups cards derived from one body of material.
type Lecture struct {
	ID      string      `json:"id"`
	SetID   string      `json:"setId"`
	Title   string      `json:"title"`
	Sources []SourceDoc `json:"sources"`
	CardIDs []string    `json:"cardIds"`
}

// SourceDoc is one ingested input. Sources are append-only.
type SourceDoc struct {
	ID      string      `json:"id"`
	Kind    SourceKind  `json:"kind"`
	Name    string      `json:"name"`
	RawText string      `json:"rawText,omitempty"`
	Chunks  []TextChunk `json:"chunks"`
}

// TextChunk is a paragraph-aligned slice of a source.
type TextChunk struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// CardStats tracks how a card has been studied.
type CardStats struct {
	Views    int        `json:"views"`
	Flips    int        `json:"flips"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
	Streak   int        `json:"streak"`
}

// Card is a single term/explanation pair.
type Card struct {
	ID          string    `json:"id"`
	LectureID   string    `json:"lectureId"`
	Term        string    `json:"term"`
	Explanation string    `json:"explanation"`
	Stats       CardStats `json:"stats"`
}

// Job tracks one ingestion. Jobs are transient and never exported.
type Job struct {
	ID        string  `json:"id"`
	LectureID string  `json:"lectureId"`
	Stage     Stage   `json:"stage"`
	Progress  float64 `json:"progress"`
	Error     string  `json:"error,omitempty"`
}

// LearningEvent is one entry in a learning run's log.
type LearningEvent struct {
	T      time.Time `json:"t"`
	Type   EventType `json:"type"`
	CardID string    `json:"cardId"`
}

// LearningRun is an ordered self-review pass over a card scope.
type LearningRun struct {
	ID           string          `json:"id"`
	SetID        string          `json:"setId"`
	LectureScope Scope           `json:"lectureScope"`
	CreatedAt    time.Time       `json:"createdAt"`
	Order        []string        `json:"order"`
	Cursor       int             `json:"cursor"`
	Events       []LearningEvent `json:"events"`
}

// MCQOption is one answer choice.
type MCQOption struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Source     OptionSource `json:"source"`
	FromCardID string       `json:"fromCardId,omitempty"`
}

// MCQItem is a multiple-choice question generated from a card.
type MCQItem struct {
	ID          string      `json:"id"`
	CardID      string      `json:"cardId"`
	Stem        string      `json:"stem"`
	Options     []MCQOption `json:"options"`
	AnswerIndex int         `json:"answerIndex"`
	LectureID   string      `json:"lectureId"`
}

// MCQResponse records an answer to an item.
type MCQResponse struct {
	ItemID      string    `json:"itemId"`
	ChosenIndex int       `json:"chosenIndex"`
	Correct     bool      `json:"correct"`
	T           time.Time `json:"t"`
}

// EvaluationRun is a multiple-choice quiz over a card scope.
type EvaluationRun struct {
	ID           string        `json:"id"`
	SetID        string        `json:"setId"`
	LectureScope Scope         `json:"lectureScope"`
	CreatedAt    time.Time     `json:"createdAt"`
	Items        []MCQItem     `json:"items"`
	Responses    []MCQResponse `json:"responses"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
}

// Item returns the item with the given id.
func (r *EvaluationRun) Item(id string) (MCQItem, bool) {
	for _, it := range r.Items {
		if it.ID == id {
			return it, true
		}
	}
	return MCQItem{}, false
}

// Response returns the recorded response for an item.
func (r *EvaluationRun) Response(itemID string) (MCQResponse, bool) {
	for _, resp := range r.Responses {
		if resp.ItemID == itemID {
			return resp, true
		}
	}
	return MCQResponse{}, false
}

// Finished reports whether the run has been completed.
func (r *EvaluationRun) Finished() bool {
	return r.CompletedAt != nil
}

package deck

import (
	"errors"
	"fmt"
)

// Kind names an entity type in error messages.
type Kind string

const (
	KindSet            Kind = "set"
	KindLecture        Kind = "lecture"
	KindCard           Kind = "card"
	KindJob            Kind = "job"
	KindLearningRun    Kind = "learning run"
	KindEvaluationRun  Kind = "evaluation run"
	KindEvaluationItem Kind = "evaluation item"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps rejected user input.
	ErrValidation = errors.New("invalid input")
)

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(kind Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

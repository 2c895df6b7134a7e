// Package cardgen produces candidate flashcard rows from lecture material.
// Generators are composable: the heuristic and remote implementations can be
// wrapped with retry and event-logging decorators.
package cardgen

import (
	"context"

	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/source"
)

// Generator is the boundary to whatever turns text into cards.
type Generator interface {
	// Generate returns candidate rows for the input. Rows may contain blank
	// fields or duplicates; callers validate and merge them.
	Generate(ctx context.Context, in Input) (*Result, error)

	// Name identifies the generator in logs and events.
	Name() string
}

// Input is the material to generate from. At least one of Text and File
// should be set.
type Input struct {
	Text string
	File *source.File
}

// Empty reports whether there is nothing to generate from.
func (in Input) Empty() bool {
	return in.Text == "" && (in.File == nil || len(in.File.Data) == 0)
}

// Result holds generated rows.
type Result struct {
	Rows []extract.Row

	// Summary is set by generators that summarize. The heuristic one never does.
	Summary string
}

package cardgen

import (
	"context"
	"fmt"

	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/source"
)

// Heuristic extracts rows locally with the pattern passes in package extract.
type Heuristic struct {
	// MaxRows caps the result; zero means extract.MaxRows.
	MaxRows int
}

// NewHeuristic returns a local generator.
func NewHeuristic(maxRows int) *Heuristic {
	return &Heuristic{MaxRows: maxRows}
}

func (h *Heuristic) Generate(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := in.Text
	if in.File != nil {
		fileText, err := source.Text(*in.File)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", in.File.Name, err)
		}
		if text != "" && fileText != "" {
			text += "\n\n"
		}
		text += fileText
	}

	rows := extract.Extract(text)
	if h.MaxRows > 0 && len(rows) > h.MaxRows {
		rows = rows[:h.MaxRows]
	}
	return &Result{Rows: rows}, nil
}

func (h *Heuristic) Name() string { return "heuristic" }

// Package snapshot exports the deck graph to a portable JSON document and
// merges such documents back in.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/schemacheck"
)

// Version is the only document version this package reads and writes.
const Version = 1

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidSnapshot reports a document that cannot be imported.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Document is the on-disk export format.
type Document struct {
	Version    int                      `json:"version"`
	ExportedAt time.Time                `json:"exportedAt"`
	Sets       map[string]*deck.Set     `json:"sets"`
	Lectures   map[string]*deck.Lecture `json:"lectures"`
	Cards      map[string]*deck.Card    `json:"cards"`
	Jobs       map[string]*deck.Job     `json:"jobs"`
	Runs       *Runs                    `json:"runs,omitempty"`
}

// Runs groups learning and evaluation history.
type Runs struct {
	Learning   map[string]*deck.LearningRun   `json:"learning"`
	Evaluation map[string]*deck.EvaluationRun `json:"evaluation"`
}

// Export captures st. Jobs are transient and always exported empty.
func Export(st *deck.State, now time.Time) *Document {
	return &Document{
		Version:    Version,
		ExportedAt: now.UTC(),
		Sets:       maps.Clone(st.Sets),
		Lectures:   maps.Clone(st.Lectures),
		Cards:      maps.Clone(st.Cards),
		Jobs:       map[string]*deck.Job{},
		Runs: &Runs{
			Learning:   maps.Clone(st.LearningRuns),
			Evaluation: maps.Clone(st.EvaluationRuns),
		},
	}
}

// fileStamp is RFC 3339 basic format; it has no characters that are
// reserved in Windows file names.
const fileStamp = "20060102T150405Z"

// FileName is the default export name for a document taken at t.
func FileName(t time.Time) string {
	return "flashcarding_" + t.UTC().Format(fileStamp) + ".json"
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Decode validates raw against the document schema and decodes it.
func Decode(raw []byte) (*Document, error) {
	if err := schemacheck.Validate("snapshot", schemaJSON, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, doc.Version)
	}
	return &doc, nil
}

// Merge overlays doc onto cur and returns the result; cur is not modified.
// Imported records win on id conflicts. Membership lists are then rebuilt
// from parent pointers so local children added after the export stay
// listed. Runs are replaced only when the document carries them. Jobs
// always come from cur.
func Merge(cur *deck.State, doc *Document) (*deck.State, error) {
	next := *cur
	next.Sets = union(cur.Sets, doc.Sets)
	next.Lectures = union(cur.Lectures, doc.Lectures)
	next.Cards = union(cur.Cards, doc.Cards)
	if doc.Runs != nil {
		next.LearningRuns = maps.Clone(doc.Runs.Learning)
		next.EvaluationRuns = maps.Clone(doc.Runs.Evaluation)
		if next.LearningRuns == nil {
			next.LearningRuns = map[string]*deck.LearningRun{}
		}
		if next.EvaluationRuns == nil {
			next.EvaluationRuns = map[string]*deck.EvaluationRun{}
		}
	}
	relink(&next, cur)
	if err := Check(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Import decodes raw and merges it into store atomically. The store is left
// untouched on any error.
func Import(store *deck.Store, raw []byte) (*deck.State, error) {
	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	var merged *deck.State
	err = store.Swap(func(cur *deck.State) (*deck.State, error) {
		m, err := Merge(cur, doc)
		merged = m
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Check verifies that every reference in st resolves and that membership
// lists agree with parent pointers in both directions. Merge repairs list
// disagreements, so after a merge only id mismatches, missing parents and
// unknown source kinds remain.
func Check(st *deck.State) error {
	for id, s := range st.Sets {
		if s == nil || s.ID != id {
			return invalid("set %q: id mismatch", id)
		}
		for _, lid := range s.LectureIDs {
			l, ok := st.Lectures[lid]
			if !ok {
				return invalid("set %q lists missing lecture %q", id, lid)
			}
			if l.SetID != id {
				return invalid("set %q lists lecture %q owned by %q", id, lid, l.SetID)
			}
		}
	}
	for id, l := range st.Lectures {
		if l == nil || l.ID != id {
			return invalid("lecture %q: id mismatch", id)
		}
		s, ok := st.Sets[l.SetID]
		if !ok {
			return invalid("lecture %q points at missing set %q", id, l.SetID)
		}
		if !slices.Contains(s.LectureIDs, id) {
			return invalid("lecture %q not listed by set %q", id, l.SetID)
		}
		for _, cid := range l.CardIDs {
			c, ok := st.Cards[cid]
			if !ok {
				return invalid("lecture %q lists missing card %q", id, cid)
			}
			if c.LectureID != id {
				return invalid("lecture %q lists card %q owned by %q", id, cid, c.LectureID)
			}
		}
		for _, src := range l.Sources {
			if !src.Kind.Valid() {
				return invalid("lecture %q source %q: unknown kind %q", id, src.ID, src.Kind)
			}
		}
	}
	for id, c := range st.Cards {
		if c == nil || c.ID != id {
			return invalid("card %q: id mismatch", id)
		}
		l, ok := st.Lectures[c.LectureID]
		if !ok {
			return invalid("card %q points at missing lecture %q", id, c.LectureID)
		}
		if !slices.Contains(l.CardIDs, id) {
			return invalid("card %q not listed by lecture %q", id, c.LectureID)
		}
	}
	for id, r := range st.LearningRuns {
		if r == nil || r.ID != id {
			return invalid("learning run %q: id mismatch", id)
		}
	}
	for id, r := range st.EvaluationRuns {
		if r == nil || r.ID != id {
			return invalid("evaluation run %q: id mismatch", id)
		}
	}
	return nil
}

// relink rewrites Set.LectureIDs and Lecture.CardIDs in next so they agree
// with parent pointers. Listed ids keep their order, imported list first and
// then the list in cur. Children no list mentions are appended by id. Edited
// records are copied; published ones are never written.
func relink(next, cur *deck.State) {
	lectures := childrenOf(next.Lectures, func(l *deck.Lecture) string { return l.SetID })
	for id, s := range next.Sets {
		if s == nil {
			continue
		}
		var local []string
		if c := cur.Sets[id]; c != nil {
			local = c.LectureIDs
		}
		if ids := membership(lectures[id], s.LectureIDs, local); !slices.Equal(ids, s.LectureIDs) {
			cp := *s
			cp.LectureIDs = ids
			next.Sets[id] = &cp
		}
	}
	cards := childrenOf(next.Cards, func(c *deck.Card) string { return c.LectureID })
	for id, l := range next.Lectures {
		if l == nil {
			continue
		}
		var local []string
		if c := cur.Lectures[id]; c != nil {
			local = c.CardIDs
		}
		if ids := membership(cards[id], l.CardIDs, local); !slices.Equal(ids, l.CardIDs) {
			cp := *l
			cp.CardIDs = ids
			next.Lectures[id] = &cp
		}
	}
}

func childrenOf[V comparable](m map[string]V, parent func(V) string) map[string]map[string]bool {
	var zero V
	out := map[string]map[string]bool{}
	for id, v := range m {
		if v == zero {
			continue
		}
		p := parent(v)
		if out[p] == nil {
			out[p] = map[string]bool{}
		}
		out[p][id] = true
	}
	return out
}

func membership(children map[string]bool, lists ...[]string) []string {
	out := make([]string, 0, len(children))
	seen := make(map[string]bool, len(children))
	for _, list := range lists {
		for _, id := range list {
			if children[id] && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	var rest []string
	for id := range children {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func union[V any](base, over map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/flashcarding/internal/cardgen"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/source"
)

func newLecture(t *testing.T) (*deck.Store, string) {
	t.Helper()
	st := deck.New()
	set, err := st.CreateSet("Biology")
	require.NoError(t, err)
	l, err := st.AddLecture(set.ID, "Cells")
	require.NoError(t, err)
	return st, l.ID
}

func lectureCards(t *testing.T, st *deck.Store, lectureID string) []*deck.Card {
	t.Helper()
	cards, err := st.Snapshot().LectureCards(lectureID)
	require.NoError(t, err)
	return cards
}

func TestIngest_MitosisMeiosis(t *testing.T) {
	st, lid := newLecture(t)
	p := New(st, cardgen.NewHeuristic(0), nil)

	job, err := p.Ingest(context.Background(), Request{
		LectureID: lid,
		Text:      "Mitosis: cell division producing two identical cells\nMeiosis: division producing four gametes",
	})
	require.NoError(t, err)
	assert.Equal(t, deck.StageDone, job.Stage)
	assert.Equal(t, 1.0, job.Progress)
	assert.Empty(t, job.Error)

	cards := lectureCards(t, st, lid)
	require.Len(t, cards, 2)
	assert.Equal(t, "Mitosis", cards[0].Term)
	assert.Equal(t, "Meiosis", cards[1].Term)
	assert.Zero(t, cards[0].Stats)

	l, err := st.Snapshot().Lecture(lid)
	require.NoError(t, err)
	require.Len(t, l.Sources, 1)
	assert.Equal(t, deck.SourceText, l.Sources[0].Kind)
	assert.Equal(t, defaultTextName, l.Sources[0].Name)
	assert.Len(t, l.Sources[0].Chunks, 1)

	stored, err := st.Snapshot().Job(job.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.StageDone, stored.Stage)
}

func TestIngest_LongestExplanationWins(t *testing.T) {
	tests := []struct {
		name         string
		existing     string
		incoming     string
		wantExisting string
	}{
		{"longer replaces", "short", "a much longer explanation", "a much longer explanation"},
		{"shorter ignored", "a much longer explanation", "short", "a much longer explanation"},
		{"tie keeps existing", "abcde", "vwxyz", "abcde"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, lid := newLecture(t)
			_, err := st.AddCard(lid, "Osmosis", tt.existing)
			require.NoError(t, err)

			gen := cardgen.NewMockGenerator(cardgen.MockResponse{
				Rows: []extract.Row{{Term: "osmosis!", Explanation: tt.incoming}},
			})
			job, err := New(st, gen, nil).Ingest(context.Background(), Request{LectureID: lid, Text: "ignored"})
			require.NoError(t, err)
			assert.Equal(t, deck.StageDone, job.Stage)

			cards := lectureCards(t, st, lid)
			require.Len(t, cards, 1)
			assert.Equal(t, "Osmosis", cards[0].Term)
			assert.Equal(t, tt.wantExisting, cards[0].Explanation)
		})
	}
}

func TestMerge_BatchRowsMergeTogether(t *testing.T) {
	st, lid := newLecture(t)
	var stats MergeStats
	err := st.Update(func(tx *deck.Tx) error {
		var err error
		stats, err = Merge(tx, lid, []extract.Row{
			{Term: "ATP", Explanation: "energy"},
			{Term: "atp", Explanation: "energy currency of the cell"},
			{Term: "  ", Explanation: "blank term"},
			{Term: "Ribosome", Explanation: ""},
			{Term: "???", Explanation: "no key"},
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, MergeStats{Added: 1, Updated: 1, Skipped: 3}, stats)

	cards := lectureCards(t, st, lid)
	require.Len(t, cards, 1)
	assert.Equal(t, "ATP", cards[0].Term)
	assert.Equal(t, "energy currency of the cell", cards[0].Explanation)
}

func TestIngest_GenerationFailure(t *testing.T) {
	st, lid := newLecture(t)
	gen := cardgen.NewMockGenerator(cardgen.MockResponse{
		Err: &cardgen.ErrGenerationFailed{Status: 500, Body: "boom"},
	})

	job, err := New(st, gen, nil).Ingest(context.Background(), Request{LectureID: lid, Text: "A: b"})
	require.NoError(t, err)
	assert.Equal(t, deck.StageError, job.Stage)
	assert.Equal(t, 1.0, job.Progress)
	assert.Contains(t, job.Error, "boom")

	assert.Empty(t, lectureCards(t, st, lid))
	l, err := st.Snapshot().Lecture(lid)
	require.NoError(t, err)
	assert.Len(t, l.Sources, 1, "source written before generation persists")
}

func TestIngest_ReusesQueuedJob(t *testing.T) {
	st, lid := newLecture(t)
	queued, err := st.EnqueueJob(lid)
	require.NoError(t, err)

	job, err := New(st, cardgen.NewHeuristic(0), nil).Ingest(context.Background(), Request{LectureID: lid, Text: "A: b"})
	require.NoError(t, err)
	assert.Equal(t, queued.ID, job.ID)
	assert.Len(t, st.Snapshot().Jobs, 1)
}

func TestIngest_UnknownLecture(t *testing.T) {
	st := deck.New()
	gen := cardgen.NewMockGenerator()

	_, err := New(st, gen, nil).Ingest(context.Background(), Request{LectureID: "missing", Text: "A: b"})
	assert.True(t, errors.Is(err, deck.ErrNotFound))
	assert.Empty(t, st.Snapshot().Jobs)
	assert.Zero(t, gen.CallCount())
}

func TestIngest_FileSource(t *testing.T) {
	st, lid := newLecture(t)
	gen := cardgen.NewMockGenerator(cardgen.MockResponse{
		Rows: []extract.Row{{Term: "Cell", Explanation: "unit of life"}},
	})
	file := &source.File{Name: "notes.md", Data: []byte("# Cell\nunit of life")}

	_, err := New(st, gen, nil).Ingest(context.Background(), Request{LectureID: lid, File: file})
	require.NoError(t, err)

	l, err := st.Snapshot().Lecture(lid)
	require.NoError(t, err)
	require.Len(t, l.Sources, 1)
	assert.Equal(t, deck.SourceMarkdown, l.Sources[0].Kind)
	assert.Equal(t, "notes.md", l.Sources[0].Name)
	assert.Equal(t, "# Cell\nunit of life", l.Sources[0].RawText)

	require.Equal(t, 1, gen.CallCount())
	assert.Same(t, file, gen.Calls[0].File)
}

func TestIngest_SameLectureSerialized(t *testing.T) {
	st, lid := newLecture(t)
	p := New(st, cardgen.NewHeuristic(0), nil)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := p.Ingest(context.Background(), Request{
				LectureID: lid,
				Text:      fmt.Sprintf("Mitosis: division\nMeiosis: gametes %d", i),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	cards := lectureCards(t, st, lid)
	assert.Len(t, cards, 2, "concurrent ingestions must not duplicate terms")

	l, err := st.Snapshot().Lecture(lid)
	require.NoError(t, err)
	assert.Len(t, l.Sources, 8)
}

func TestIngest_ChunksLongText(t *testing.T) {
	st, lid := newLecture(t)
	a := make([]byte, 1800)
	b := make([]byte, 800)
	for i := range a {
		a[i] = 'a'
	}
	for i := range b {
		b[i] = 'b'
	}

	_, err := New(st, cardgen.NewHeuristic(0), nil).Ingest(context.Background(), Request{
		LectureID: lid,
		Text:      string(a) + "\n\n" + string(b),
	})
	require.NoError(t, err)

	l, err := st.Snapshot().Lecture(lid)
	require.NoError(t, err)
	require.Len(t, l.Sources[0].Chunks, 2)
	assert.Equal(t, 0, l.Sources[0].Chunks[0].Order)
	assert.Equal(t, 1, l.Sources[0].Chunks[1].Order)
}

func TestKeyedMutex_ReleasesKeys(t *testing.T) {
	var k keyedMutex
	unlock := k.Lock("a")
	unlock()
	if len(k.locks) != 0 {
		t.Fatalf("locks = %d, want 0", len(k.locks))
	}
}

package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashcarding/internal/config"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/ingest"
	"github.com/abhisek/flashcarding/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	cfg.DB = filepath.Join(t.TempDir(), "nested", "flashcarding.db")
	cfg.Snapshots.Keep = 2
	return cfg
}

func TestOpen_PersistAndRestore(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	set, err := a.Deck.CreateSet("Biology")
	require.NoError(t, err)
	lec, err := a.Deck.AddLecture(set.ID, "Cells")
	require.NoError(t, err)
	_, err = a.Deck.AddCard(lec.ID, "Mitosis", "Cell division")
	require.NoError(t, err)
	require.NoError(t, a.Persist(ctx))
	require.NoError(t, a.Close())

	b, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	st := b.Deck.Snapshot()
	require.Contains(t, st.Sets, set.ID)
	assert.Equal(t, "Biology", st.Sets[set.ID].Title)
	cards, err := st.LectureCards(lec.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Mitosis", cards[0].Term)
}

func TestPersist_PrunesHistory(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	for range 3 {
		require.NoError(t, a.Persist(ctx))
	}
	hist, err := a.SnapshotHistory(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestOpen_CorruptSnapshotFails(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	require.NoError(t, store.EnsureDir(cfg.DB))
	db, err := store.Open(cfg.DB)
	require.NoError(t, err)
	bad := &store.Snapshot{Data: []byte(`{"version":1,"sets":{},"lectures":{},"cards":{"c":{"id":"c","lectureId":"gone","term":"t","explanation":"e"}}}`)}
	require.NoError(t, db.SnapshotRepo().Save(ctx, bad))
	require.NoError(t, db.Close())

	_, err = Open(ctx, cfg, nil)
	assert.Error(t, err)
}

func TestOpen_IngestRecordsGenerationEvent(t *testing.T) {
	ctx := context.Background()
	a, err := Open(ctx, testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	set, err := a.Deck.CreateSet("Biology")
	require.NoError(t, err)
	lec, err := a.Deck.AddLecture(set.ID, "Cells")
	require.NoError(t, err)

	job, err := a.Pipeline.Ingest(ctx, ingest.Request{
		LectureID: lec.ID,
		Text:      "Mitosis: cell division\nMeiosis: reductional division",
	})
	require.NoError(t, err)
	assert.Equal(t, deck.StageDone, job.Stage)

	events, err := a.GenerationEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "heuristic", events[0].Generator)
	assert.Equal(t, lec.ID, events[0].LectureID)
	assert.Equal(t, 2, events[0].Rows)
	assert.True(t, events[0].Success)
}

package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/flashcarding/internal/cardgen"
	"github.com/abhisek/flashcarding/internal/config"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/evaluation"
	"github.com/abhisek/flashcarding/internal/ingest"
	"github.com/abhisek/flashcarding/internal/learning"
	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/snapshot"
	"github.com/abhisek/flashcarding/internal/store"
)

// App wires the deck store to its engines and to local persistence. Every
// command builds one with Open and closes it when done.
type App struct {
	Config     *config.Config
	Log        *logger.Logger
	Deck       *deck.Store
	Generator  cardgen.Generator
	Pipeline   *ingest.Pipeline
	Learning   *learning.Engine
	Evaluation *evaluation.Engine

	db        *store.Store
	snapshots store.SnapshotRepo
	events    store.EventRepo
}

// Open connects to the configured database, restores the latest snapshot
// and builds the engines. deckOpts are passed to deck.New.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, deckOpts ...deck.Option) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	dsn, err := resolveDSN(cfg.DB)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Config:    cfg,
		Log:       log,
		db:        db,
		snapshots: db.SnapshotRepo(),
		events:    db.EventRepo(),
	}

	st, err := a.restore(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.Deck = deck.New(append([]deck.Option{deck.WithState(st)}, deckOpts...)...)

	gen, err := cardgen.New(cfg.Cardgen(), a.events, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build generator: %w", err)
	}
	a.Generator = gen
	a.Pipeline = ingest.New(a.Deck, gen, log, ingest.WithChunkSize(cfg.Ingest.ChunkSize))
	a.Learning = learning.New(a.Deck)
	a.Evaluation = evaluation.New(a.Deck)
	return a, nil
}

// resolveDSN maps an empty setting to the XDG default and makes sure the
// parent directory of a file path exists.
func resolveDSN(db string) (string, error) {
	if db == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return "", fmt.Errorf("resolve DB path: %w", err)
		}
		db = p
	}
	if strings.HasPrefix(db, "file:") || db == ":memory:" {
		return db, nil
	}
	if err := store.EnsureDir(db); err != nil {
		return "", fmt.Errorf("create DB dir: %w", err)
	}
	return db, nil
}

func (a *App) restore(ctx context.Context) (*deck.State, error) {
	snap, err := a.snapshots.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return deck.NewState(), nil
	}
	doc, err := snapshot.Decode(snap.Data)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot %d: %w", snap.Sequence, err)
	}
	st, err := snapshot.Merge(deck.NewState(), doc)
	if err != nil {
		return nil, fmt.Errorf("restore snapshot %d: %w", snap.Sequence, err)
	}
	a.Log.Debug("restored snapshot", "sequence", snap.Sequence, "sets", len(st.Sets), "cards", len(st.Cards))
	return st, nil
}

// Persist saves the current graph as a new snapshot and prunes history.
func (a *App) Persist(ctx context.Context) error {
	now := a.Deck.Now()
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snapshot.Export(a.Deck.Snapshot(), now)); err != nil {
		return err
	}
	snap := &store.Snapshot{Timestamp: now, Data: buf.Bytes()}
	if err := a.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := a.snapshots.Prune(ctx, a.Config.Snapshots.Keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	a.Log.Debug("saved snapshot", "sequence", snap.Sequence)
	return nil
}

// SnapshotHistory lists saved snapshots, newest first.
func (a *App) SnapshotHistory(ctx context.Context, limit int) ([]store.Snapshot, error) {
	return a.snapshots.List(ctx, limit)
}

// GenerationEvents lists generator calls, newest first.
func (a *App) GenerationEvents(ctx context.Context, limit int) ([]store.GenerationEvent, error) {
	return a.events.Generations(ctx, store.QueryOpts{Limit: limit})
}

// Events exposes the generation event log for generators built outside
// Open, such as the one behind the HTTP service.
func (a *App) Events() store.EventRepo {
	return a.events
}

// Close releases the database and flushes the logger.
func (a *App) Close() error {
	a.Log.Sync()
	return a.db.Close()
}

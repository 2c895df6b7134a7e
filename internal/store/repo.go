package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before
}

// Snapshot is a stored copy of the exported deck document.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      json.RawMessage
}

// SnapshotRepo manages the local snapshot history.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is filled from the global
	// counter.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// List returns up to limit snapshots, newest first, without their data.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// GenerationEventData captures one card generator call.
type GenerationEventData struct {
	Generator    string
	LectureID    string
	Rows         int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// GenerationEvent is a stored GenerationEventData.
type GenerationEvent struct {
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// EventRepo provides append and query access to generation events.
type EventRepo interface {
	// AppendGeneration records a generator call.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// Generations returns events newest first.
	Generations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)
}

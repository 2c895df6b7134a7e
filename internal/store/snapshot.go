package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// snapshotRepo implements SnapshotRepo with raw SQL.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		n, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = n
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (sequence, created_at, data) VALUES (?, ?, ?)`,
		snap.Sequence, snap.Timestamp.UnixMilli(), string(snap.Data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	var (
		s    Snapshot
		ms   int64
		data string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, created_at, data FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&s.ID, &s.Sequence, &ms, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	s.Timestamp = time.UnixMilli(ms)
	s.Data = []byte(data)
	return &s, nil
}

func (r *snapshotRepo) List(ctx context.Context, limit int) ([]Snapshot, error) {
	q := `SELECT id, sequence, created_at FROM snapshots ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			s  Snapshot
			ms int64
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &ms); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Timestamp = time.UnixMilli(ms)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

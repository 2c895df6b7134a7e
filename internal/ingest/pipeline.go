// Package ingest turns lecture material into cards. Each ingestion is
// tracked by a deck.Job moving through queued, extracting, generating,
// finalizing and done, or ending in error when generation fails.
package ingest

import (
	"context"
	"fmt"

	"github.com/abhisek/flashcarding/internal/cardgen"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/extract"
	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/source"
)

// Progress reported at each stage.
const (
	ProgressExtracting = 0.2
	ProgressGenerating = 0.5
	ProgressFinalizing = 0.9
	ProgressDone       = 1.0
)

const defaultTextName = "Pasted text"

// Request is one piece of material for a lecture.
type Request struct {
	LectureID string
	Name      string
	Text      string
	File      *source.File
}

// Pipeline runs ingestions against a deck store.
type Pipeline struct {
	store     *deck.Store
	gen       cardgen.Generator
	log       *logger.Logger
	chunkSize int
	locks     keyedMutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChunkSize sets the paragraph chunk bound.
func WithChunkSize(n int) Option {
	return func(p *Pipeline) { p.chunkSize = n }
}

// New creates a pipeline. A nil logger discards.
func New(st *deck.Store, gen cardgen.Generator, log *logger.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	p := &Pipeline{
		store:     st,
		gen:       gen,
		log:       log,
		chunkSize: extract.DefaultChunkSize,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ingest processes req and returns the final job. A generation failure is
// not a Go error: it is reported through the job's error stage. Errors are
// returned for unknown lectures or when the lecture disappears mid-flight.
// Ingestions for the same lecture run one at a time.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (*deck.Job, error) {
	unlock := p.locks.Lock(req.LectureID)
	defer unlock()

	if _, err := p.store.Snapshot().Lecture(req.LectureID); err != nil {
		return nil, err
	}
	log := p.log.With("lecture", req.LectureID)

	// queued -> extracting
	job, err := p.begin(req.LectureID)
	if err != nil {
		return nil, err
	}
	log = log.With("job", job.ID)
	log.Debug("ingest stage", "stage", job.Stage)

	// extracting -> generating
	doc := p.sourceDoc(req, log)
	err = p.store.Update(func(tx *deck.Tx) error {
		if err := tx.AppendSource(req.LectureID, doc); err != nil {
			return err
		}
		job.Stage, job.Progress = deck.StageGenerating, ProgressGenerating
		return tx.PutJob(job)
	})
	if err != nil {
		return nil, fmt.Errorf("record source: %w", err)
	}
	log.Debug("ingest stage", "stage", job.Stage, "chunks", len(doc.Chunks))

	res, genErr := p.gen.Generate(cardgen.WithLecture(ctx, req.LectureID), cardgen.Input{Text: req.Text, File: req.File})
	if genErr != nil {
		// generating -> error
		job.Stage, job.Progress, job.Error = deck.StageError, ProgressDone, genErr.Error()
		log.Warn("card generation failed", "generator", p.gen.Name(), "error", genErr)
		if err := p.store.Update(func(tx *deck.Tx) error { return tx.PutJob(job) }); err != nil {
			return nil, fmt.Errorf("record job failure: %w", err)
		}
		return &job, nil
	}

	// generating -> finalizing
	var rows []extract.Row
	if res != nil {
		rows = res.Rows
	}
	var stats MergeStats
	err = p.store.Update(func(tx *deck.Tx) error {
		var err error
		if stats, err = Merge(tx, req.LectureID, rows); err != nil {
			return err
		}
		job.Stage, job.Progress = deck.StageFinalizing, ProgressFinalizing
		return tx.PutJob(job)
	})
	if err != nil {
		return nil, fmt.Errorf("merge cards: %w", err)
	}
	log.Debug("ingest stage", "stage", job.Stage, "added", stats.Added, "updated", stats.Updated, "skipped", stats.Skipped)

	// finalizing -> done
	job.Stage, job.Progress = deck.StageDone, ProgressDone
	if err := p.store.Update(func(tx *deck.Tx) error { return tx.PutJob(job) }); err != nil {
		return nil, fmt.Errorf("finish job: %w", err)
	}
	log.Info("ingest finished", "added", stats.Added, "updated", stats.Updated)
	return &job, nil
}

// begin claims the lecture's queued job, or creates one, and moves it to
// extracting.
func (p *Pipeline) begin(lectureID string) (deck.Job, error) {
	var job deck.Job
	err := p.store.Update(func(tx *deck.Tx) error {
		if q, ok := tx.View().QueuedJob(lectureID); ok {
			job = *q
		} else {
			job = deck.Job{ID: tx.NewID(), LectureID: lectureID}
		}
		job.Stage, job.Progress, job.Error = deck.StageExtracting, ProgressExtracting, ""
		return tx.PutJob(job)
	})
	return job, err
}

func (p *Pipeline) sourceDoc(req Request, log *logger.Logger) deck.SourceDoc {
	kind := deck.SourceText
	name := req.Name
	text := req.Text
	if req.File != nil {
		kind = source.KindOf(req.File.Name)
		if name == "" {
			name = req.File.Name
		}
		if text == "" {
			t, err := source.Text(*req.File)
			if err != nil {
				log.Warn("file text unavailable", "file", req.File.Name, "error", err)
			}
			text = t
		}
	}
	if name == "" {
		name = defaultTextName
	}

	parts := extract.Chunk(text, p.chunkSize)
	chunks := make([]deck.TextChunk, len(parts))
	for i, part := range parts {
		chunks[i] = deck.TextChunk{ID: p.store.NewID(), Order: i, Text: part}
	}
	return deck.SourceDoc{
		ID:      p.store.NewID(),
		Kind:    kind,
		Name:    name,
		RawText: text,
		Chunks:  chunks,
	}
}

package cardgen

import (
	"context"
	"time"

	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/store"
)

// LoggingGenerator is a decorator that records every call as an event.
type LoggingGenerator struct {
	inner     Generator
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Generator with event logging. A nil logger discards.
func WithLogging(g Generator, repo store.EventRepo, log *logger.Logger) Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingGenerator{inner: g, eventRepo: repo, log: log}
}

func (l *LoggingGenerator) Generate(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	res, err := l.inner.Generate(ctx, in)

	data := store.GenerationEventData{
		Generator: l.inner.Name(),
		LectureID: LectureFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if res != nil {
		data.Rows = len(res.Rows)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Recording must not fail the generation. Use a fresh context so a
	// cancelled call is still recorded.
	if logErr := l.eventRepo.AppendGeneration(context.WithoutCancel(ctx), data); logErr != nil {
		l.log.Warn("record generation event", "error", logErr)
	}
	l.log.Debug("generation finished",
		"generator", data.Generator, "lecture", data.LectureID,
		"rows", data.Rows, "latency_ms", data.LatencyMs, "ok", data.Success)

	return res, err
}

func (l *LoggingGenerator) Name() string { return l.inner.Name() }

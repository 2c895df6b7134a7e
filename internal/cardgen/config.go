package cardgen

import (
	"fmt"
	"net/http"
	"time"

	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/store"
)

// Generator modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

const (
	DefaultBaseURL  = "http://127.0.0.1:8000/api"
	DefaultEndpoint = "/generate-flashcards-with-summary"
)

// Config selects and tunes a generator.
type Config struct {
	// Mode is "local" (heuristic extraction) or "remote" (generation service).
	Mode string

	BaseURL  string
	Endpoint string

	// Timeout bounds each HTTP attempt. Every retry gets a fresh one.
	Timeout time.Duration

	// MaxRows caps local extraction output.
	MaxRows int

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the local generator with remote defaults filled in.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeLocal,
		BaseURL:  DefaultBaseURL,
		Endpoint: DefaultEndpoint,
		Timeout:  30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// New builds the configured generator. Remote generators get the retry
// decorator; every generator gets event logging when repo is non-nil.
func New(cfg Config, repo store.EventRepo, log *logger.Logger) (Generator, error) {
	var g Generator
	switch cfg.Mode {
	case ModeLocal, "":
		g = NewHeuristic(cfg.MaxRows)
	case ModeRemote:
		client := &http.Client{Timeout: cfg.Timeout}
		g = WithRetry(NewRemote(cfg.BaseURL, cfg.Endpoint, client), cfg.Retry)
	default:
		return nil, fmt.Errorf("unknown generator mode %q", cfg.Mode)
	}
	if repo != nil {
		g = WithLogging(g, repo, log)
	}
	return g, nil
}

package cardgen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/flashcarding/internal/extract"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okRows = []extract.Row{{Term: "ATP", Explanation: "energy currency"}}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockGenerator(MockResponse{Rows: okRows})
	g := WithRetry(mock, retryConfig())

	res, err := g.Generate(context.Background(), Input{Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %v", res.Rows)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unavailable", &ErrUnavailable{Err: errors.New("down")}},
		{"server error", &ErrGenerationFailed{Status: 503, Body: "busy"}},
		{"rate limited", &ErrGenerationFailed{Status: 429}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockGenerator(MockResponse{Err: tt.err}, MockResponse{Rows: okRows})
			g := WithRetry(mock, retryConfig())

			if _, err := g.Generate(context.Background(), Input{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mock.CallCount() != 2 {
				t.Fatalf("expected 2 calls, got %d", mock.CallCount())
			}
		})
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	down := &ErrUnavailable{Err: errors.New("down")}
	mock := NewMockGenerator(MockResponse{Err: down}, MockResponse{Err: down}, MockResponse{Err: down})
	g := WithRetry(mock, retryConfig())

	_, err := g.Generate(context.Background(), Input{})
	var unavailable *ErrUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	mock := NewMockGenerator(MockResponse{Err: &ErrGenerationFailed{Status: 400, Body: "Provide either 'text' or 'file'."}})
	g := WithRetry(mock, retryConfig())

	_, err := g.Generate(context.Background(), Input{})
	var failed *ErrGenerationFailed
	if !errors.As(err, &failed) || failed.Status != 400 {
		t.Fatalf("expected 400 failure, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := &ErrInvalidResponse{Content: json.RawMessage(`{}`), Err: errors.New("missing flashcards")}
	mock := NewMockGenerator(MockResponse{Err: bad}, MockResponse{Err: bad}, MockResponse{Rows: okRows})
	g := WithRetry(mock, retryConfig())

	_, err := g.Generate(context.Background(), Input{})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockGenerator(
		MockResponse{Err: &ErrUnavailable{}},
		MockResponse{Rows: okRows},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	cfg.MaxWait = time.Second
	g := WithRetry(mock, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Generate(ctx, Input{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_NameDelegates(t *testing.T) {
	g := WithRetry(NewMockGenerator(), retryConfig())
	if g.Name() != "mock" {
		t.Errorf("name = %q, want mock", g.Name())
	}
}

package cardgen

import (
	"context"
	"sync"

	"github.com/abhisek/flashcarding/internal/extract"
)

// MockResponse is a canned answer for MockGenerator.
type MockResponse struct {
	Rows []extract.Row
	Err  error
}

// MockGenerator is a deterministic Generator for testing. It returns canned
// responses in FIFO order and records all inputs.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Input
}

// NewMockGenerator creates a MockGenerator with the given canned responses.
func NewMockGenerator(responses ...MockResponse) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// Generate returns the next canned response, or ErrUnavailable once the
// queue is empty.
func (m *MockGenerator) Generate(_ context.Context, in Input) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, in)

	if len(m.responses) == 0 {
		return nil, &ErrUnavailable{}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{Rows: resp.Rows}, nil
}

func (m *MockGenerator) Name() string { return "mock" }

// AddResponse appends a canned response to the queue.
func (m *MockGenerator) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

package inference

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a lightweight in-memory Client useful for tests and examples.
// Responses are matched by prompt substring in registration order, so tests
// can script the decision and synthesis calls independently.
type MockClient struct {
	mu        sync.Mutex
	rules     []mockRule
	fallback  string
	err       error
	chunkSize int
	calls     []string
}

type mockRule struct {
	substring string
	response  string
	err       error
}

// NewMockClient constructs a MockClient that streams in 4-byte chunks.
func NewMockClient() *MockClient {
	return &MockClient{fallback: "mock response", chunkSize: 4}
}

// AddResponse registers a canned completion for prompts containing substring.
func (m *MockClient) AddResponse(substring, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{substring: substring, response: response})
}

// AddError registers a failure for prompts containing substring, letting tests
// fail one stage's call while others succeed.
func (m *MockClient) AddError(substring string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{substring: substring, err: err})
}

// SetFallback sets the completion returned when no rule matches.
func (m *MockClient) SetFallback(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = response
}

// FailWith makes every subsequent call fail with err.
func (m *MockClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the prompts received so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockClient) lookup(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	if m.err != nil {
		return "", m.err
	}
	for _, r := range m.rules {
		if strings.Contains(prompt, r.substring) {
			return r.response, r.err
		}
	}
	return m.fallback, nil
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, prompt string, _ float64) (string, error) {
	return m.lookup(prompt)
}

// CompleteStream implements Client; the full response is split into fixed-size
// chunks to exercise fragment handling in consumers.
func (m *MockClient) CompleteStream(ctx context.Context, prompt string, _ float64) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		full, err := m.lookup(prompt)
		if err != nil {
			errCh <- err
			return
		}
		for i := 0; i < len(full); i += m.chunkSize {
			end := i + m.chunkSize
			if end > len(full) {
				end = len(full)
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- full[i:end]:
			}
		}
	}()

	return out, errCh
}

// Provider implements Client.
func (m *MockClient) Provider() string { return "mock" }

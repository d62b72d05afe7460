// Package stream models the push-based delivery of an in-progress answer to a
// transport-owned sink. The orchestrator produces an ordered sequence of
// discrete messages; the transport layer (WebSocket, test buffer) consumes
// them. This decouples the core from any specific connection object.
package stream

import (
	"context"
	"sync"
)

// Kind tags a streamed message.
type Kind string

const (
	// KindStatus is a free-text progress marker ("planning", "executing finance").
	KindStatus Kind = "status"
	// KindPlan carries the computed invocation plan, sent once after the decision stage.
	KindPlan Kind = "plan"
	// KindToolResult carries one completed tool invocation, sent as it finishes.
	KindToolResult Kind = "tool_result"
	// KindToken carries one synthesis fragment, in delivery order.
	KindToken Kind = "token"
	// KindDone is the terminal marker; no further messages follow.
	KindDone Kind = "done"
	// KindError is a terminal marker carrying a message; it replaces done on fatal failure.
	KindError Kind = "error"
)

// Message is one discrete unit sent to the consumer.
type Message struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"` // status text, token fragment or error cause
	Tool    string `json:"tool,omitempty"`    // set on tool_result messages
	Data    any    `json:"data,omitempty"`    // plan or tool result payload
}

// Sink is the push-based destination for streamed messages. A Send error
// signals the consumer can no longer accept output (connection closed); the
// producer must stop emitting further messages.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// BufferSink collects messages in memory. Useful for tests and for draining a
// stream after the fact.
type BufferSink struct {
	mu       sync.Mutex
	messages []Message
}

// NewBufferSink creates an empty BufferSink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// Send implements Sink.
func (s *BufferSink) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy of the messages received so far, in order.
func (s *BufferSink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Kinds returns just the message kinds, in order. Handy for assertions.
func (s *BufferSink) Kinds() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]Kind, len(s.messages))
	for i, m := range s.messages {
		kinds[i] = m.Kind
	}
	return kinds
}

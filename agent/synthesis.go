package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sarib95965/llm-agent/prompt"
)

// serializeResults renders the execution results (including failures, so the
// model can acknowledge unavailable data) for embedding in the synthesis
// prompt. Both synthesis modes use this, keeping their prompts identical.
func serializeResults(results Results) string {
	if len(results) == 0 {
		return ""
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return prompt.NoToolOutput
	}
	return string(b)
}

// synthesize produces the final answer text in one blocking call.
func (a *Agent) synthesize(ctx context.Context, input string, results Results) (string, error) {
	return a.client.Complete(ctx, prompt.Synthesis(input, serializeResults(results)), a.opts.SynthesisTemperature)
}

// synthesizeStream produces the final answer incrementally, invoking emit for
// each coalesced fragment in delivery order. Prompt construction is identical
// to synthesize, so the concatenated fragments match the batch output modulo
// chunk boundaries.
//
// If emit reports the consumer can no longer accept output, the model stream
// is cancelled so no further fragments are pulled and the underlying
// connection is released.
func (a *Agent) synthesizeStream(ctx context.Context, input string, results Results, emit func(fragment string) error) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fragments, errCh := a.client.CompleteStream(streamCtx, prompt.Synthesis(input, serializeResults(results)), a.opts.SynthesisTemperature)

	buf := newCoalescer(a.opts.FlushBytes, a.opts.FlushInterval)
	for fragment := range fragments {
		chunk, ready := buf.add(fragment)
		if !ready {
			continue
		}
		if err := emit(chunk); err != nil {
			cancel()
			for range fragments { // unblock the producer so it can exit
			}
			return err
		}
	}
	if err := <-errCh; err != nil {
		return err
	}
	if tail := buf.flush(); tail != "" {
		if err := emit(tail); err != nil {
			return err
		}
	}
	return nil
}

// coalescer batches raw model fragments into fewer, larger sink messages.
// A chunk is released when the buffer is big enough, ends on a natural
// breakpoint, or enough time has passed since the last release.
type coalescer struct {
	buf       strings.Builder
	maxBytes  int
	interval  time.Duration
	lastFlush time.Time
}

func newCoalescer(maxBytes int, interval time.Duration) *coalescer {
	return &coalescer{maxBytes: maxBytes, interval: interval, lastFlush: time.Now()}
}

func (c *coalescer) add(fragment string) (string, bool) {
	if fragment == "" {
		return "", false
	}
	c.buf.WriteString(fragment)

	if c.buf.Len() >= c.maxBytes ||
		time.Since(c.lastFlush) >= c.interval ||
		isBreakpoint(fragment[len(fragment)-1]) {
		return c.flush(), true
	}
	return "", false
}

func (c *coalescer) flush() string {
	out := c.buf.String()
	c.buf.Reset()
	c.lastFlush = time.Now()
	return out
}

func isBreakpoint(b byte) bool {
	switch b {
	case ' ', '\n', '\t', '.', ',', ':', ';', '!', '?':
		return true
	}
	return false
}

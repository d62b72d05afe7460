package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarib95965/llm-agent/inference"
	"github.com/sarib95965/llm-agent/logging"
	"github.com/sarib95965/llm-agent/stream"
	"github.com/sarib95965/llm-agent/tool"
)

// Options configure an Agent.
type Options struct {
	// DecisionTemperature is the sampling temperature for the decision stage.
	DecisionTemperature float64

	// SynthesisTemperature is the sampling temperature for the synthesis
	// stage. Lower than the decision default for more consistent output.
	SynthesisTemperature float64

	// MaxConcurrentTools bounds parallel tool invocations within one request.
	MaxConcurrentTools int

	// FlushBytes is the coalescing buffer size for streamed fragments.
	FlushBytes int

	// FlushInterval is the maximum time a streamed fragment is held back.
	FlushInterval time.Duration

	// Logger defaults to a NoOpLogger if nil.
	Logger logging.Logger
}

// Agent sequences the decision, execution and synthesis stages. It owns no
// tool or inference logic itself and holds no cross-request mutable state, so
// a single Agent serves concurrent requests.
type Agent struct {
	client  inference.Client
	catalog *tool.Catalog
	logger  logging.Logger
	opts    Options
}

// New creates an Agent over the given inference client and tool catalog.
func New(client inference.Client, catalog *tool.Catalog, optFns ...func(o *Options)) *Agent {
	opts := Options{
		DecisionTemperature:  0.7,
		SynthesisTemperature: 0.3,
		MaxConcurrentTools:   4,
		FlushBytes:           20,
		FlushInterval:        50 * time.Millisecond,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		client:  client,
		catalog: catalog,
		logger:  opts.Logger,
		opts:    opts,
	}
}

// Answer is the terminal value of one request. It is immutable once
// constructed; its only further lifecycle is being handed to the transport.
type Answer struct {
	ID        string  `json:"id"`
	Input     string  `json:"original_prompt"`
	FinalText string  `json:"final_response"`
	Plan      Plan    `json:"tool_plan"`
	Results   Results `json:"tool_results"`
}

// Respond runs decision -> execution -> synthesis and returns the assembled
// answer. Tool failures are recorded in the answer's results rather than
// failing the request; only an inference failure during decision or synthesis
// is fatal.
func (a *Agent) Respond(ctx context.Context, input string) (*Answer, error) {
	id := uuid.NewString()
	a.logger.Info("request received", "request_id", id, "state", "planning")

	plan, err := a.decide(ctx, input)
	if err != nil {
		return nil, err
	}
	a.logger.Info("plan computed", "request_id", id, "state", "executing", "tools", len(plan))

	results := a.execute(ctx, plan, nil)
	a.logger.Info("execution finished", "request_id", id, "state", "synthesizing")

	text, err := a.synthesize(ctx, input, results)
	if err != nil {
		return nil, err
	}
	a.logger.Info("request complete", "request_id", id, "state", "done")

	return &Answer{ID: id, Input: input, FinalText: text, Plan: plan, Results: results}, nil
}

// RespondStreaming runs the same pipeline but emits progress and the final
// answer incrementally to sink. Decision and execution complete synchronously
// before any answer text is produced; only the synthesized answer is streamed
// token by token.
//
// A sink Send error means the consumer disconnected: production stops, no
// terminal done message is sent, and the error is returned.
func (a *Agent) RespondStreaming(ctx context.Context, input string, sink stream.Sink) error {
	id := uuid.NewString()
	a.logger.Info("streaming request received", "request_id", id, "state", "planning")

	// Sinks are not required to be safe for concurrent use; tool results
	// arrive from executor goroutines, so serialize all sends.
	var sendMu sync.Mutex
	send := func(msg stream.Message) error {
		sendMu.Lock()
		defer sendMu.Unlock()
		return sink.Send(ctx, msg)
	}

	if err := send(stream.Message{Kind: stream.KindStatus, Message: "analyzing your request"}); err != nil {
		return err
	}

	plan, err := a.decide(ctx, input)
	if err != nil {
		_ = send(stream.Message{Kind: stream.KindError, Message: err.Error()})
		return err
	}
	if err := send(stream.Message{Kind: stream.KindPlan, Data: plan}); err != nil {
		return err
	}

	a.logger.Info("plan computed", "request_id", id, "state", "executing", "tools", len(plan))
	for _, entry := range plan {
		if err := send(stream.Message{Kind: stream.KindStatus, Message: "executing " + entry.Tool}); err != nil {
			return err
		}
	}

	results := a.execute(ctx, plan, func(name string, res ToolResult) {
		if err := send(stream.Message{Kind: stream.KindToolResult, Tool: name, Data: res}); err != nil {
			a.logger.Warn("dropping tool result, consumer gone", "request_id", id, "tool", name)
		}
	})

	a.logger.Info("execution finished", "request_id", id, "state", "synthesizing")
	if err := send(stream.Message{Kind: stream.KindStatus, Message: "generating final response"}); err != nil {
		return err
	}

	err = a.synthesizeStream(ctx, input, results, func(fragment string) error {
		return send(stream.Message{Kind: stream.KindToken, Message: fragment})
	})
	if err != nil {
		var infErr *inference.InferenceError
		if errors.As(err, &infErr) {
			// Fatal backend failure: report it as the terminal message.
			_ = send(stream.Message{Kind: stream.KindError, Message: err.Error()})
		}
		return err
	}

	a.logger.Info("streaming request complete", "request_id", id, "state", "done")
	return send(stream.Message{Kind: stream.KindDone})
}

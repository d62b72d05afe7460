package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarib95965/llm-agent/inference"
	"github.com/sarib95965/llm-agent/stream"
	"github.com/sarib95965/llm-agent/tool"
)

func openSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func newTestAgent(t *testing.T, client inference.Client, tools ...tool.Tool) *Agent {
	t.Helper()
	catalog, err := tool.NewCatalog(tools...)
	require.NoError(t, err)
	return New(client, catalog)
}

func financeStub() tool.Tool {
	return tool.NewFunctionTool("finance", "Fetch market data", openSchema(),
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"symbol": args["symbol"], "price": 64250.5}, nil
		})
}

func failingStub(name string) tool.Tool {
	return tool.NewFunctionTool(name, "Always fails", openSchema(),
		func(context.Context, map[string]any) (any, error) {
			return nil, tool.NewToolError(name, "data source unreachable", "UPSTREAM_ERROR")
		})
}

// decisionKey / synthesisKey are substrings unique to each stage's prompt,
// letting the mock client script the two calls independently.
const (
	decisionKey  = "Decide which tools"
	synthesisKey = "data retrieved from tools"
)

func TestRespond_ToolScenario(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": [{"tool": "finance", "args": {"type": "crypto", "symbol": "BTC"}}]}`)
	client.AddResponse(synthesisKey, "BTC is trading at $64,250.50, up 1.9% today.")

	a := newTestAgent(t, client, financeStub())

	answer, err := a.Respond(context.Background(), "What is the price of BTC?")
	require.NoError(t, err)

	assert.NotEmpty(t, answer.ID)
	assert.Equal(t, "What is the price of BTC?", answer.Input)
	assert.Contains(t, answer.FinalText, "64,250.50")
	require.Len(t, answer.Plan, 1)
	assert.Equal(t, "finance", answer.Plan[0].Tool)
	require.Contains(t, answer.Results, "finance")
	assert.Equal(t, StatusSuccess, answer.Results["finance"].Status)

	// The synthesis prompt embeds the serialized tool results.
	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1], `"finance"`)
	assert.Contains(t, calls[1], StatusSuccess)
}

func TestRespond_NoToolNeeded(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": []}`)
	client.AddResponse(synthesisKey, "Hello! How can I help you today?")

	a := newTestAgent(t, client, financeStub())

	answer, err := a.Respond(context.Background(), "Hello")
	require.NoError(t, err)

	assert.Empty(t, answer.Plan)
	assert.Empty(t, answer.Results)
	assert.Equal(t, "Hello! How can I help you today?", answer.FinalText)

	// Synthesis prompt must carry no tool-result content for an empty plan.
	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1], "No tool results available.")
	assert.NotContains(t, calls[1], StatusSuccess)
}

func TestRespond_UnparseablePlanDegrades(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, "buy low, sell high")
	client.AddResponse(synthesisKey, "Here is some general advice.")

	a := newTestAgent(t, client, financeStub())

	answer, err := a.Respond(context.Background(), "Any tips?")
	require.NoError(t, err)
	assert.Empty(t, answer.Plan)
	assert.Equal(t, "Here is some general advice.", answer.FinalText)
}

func TestRespond_UnknownToolDropped(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": [{"tool": "weather", "args": {}}, {"tool": "finance", "args": {"symbol": "AAPL"}}]}`)
	client.AddResponse(synthesisKey, "AAPL data attached.")

	a := newTestAgent(t, client, financeStub())

	answer, err := a.Respond(context.Background(), "Weather and AAPL please")
	require.NoError(t, err)

	require.Len(t, answer.Plan, 1)
	assert.Equal(t, "finance", answer.Plan[0].Tool)
	assert.NotContains(t, answer.Results, "weather")
	assert.Contains(t, answer.Results, "finance")
}

func TestRespond_PartialToolFailure(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": [{"tool": "finance", "args": {"symbol": "BTC"}}, {"tool": "broken", "args": {}}]}`)
	client.AddResponse(synthesisKey, "BTC data attached; the other source was unavailable.")

	a := newTestAgent(t, client, financeStub(), failingStub("broken"))

	answer, err := a.Respond(context.Background(), "BTC and more")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, answer.Results["finance"].Status)
	assert.Equal(t, StatusFailure, answer.Results["broken"].Status)
	assert.Contains(t, answer.Results["broken"].Error, "data source unreachable")
	assert.NotEmpty(t, answer.FinalText)
}

func TestRespond_DecisionInferenceErrorIsFatal(t *testing.T) {
	client := inference.NewMockClient()
	client.FailWith(inference.NewInferenceError("mock", "backend down", errors.New("dial refused")))

	a := newTestAgent(t, client, financeStub())

	_, err := a.Respond(context.Background(), "What is the price of BTC?")
	require.Error(t, err)
	var infErr *inference.InferenceError
	assert.ErrorAs(t, err, &infErr)
}

func TestRespond_SynthesisInferenceErrorIsFatal(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": []}`)
	client.AddError(synthesisKey, inference.NewInferenceError("mock", "backend down", nil))

	a := newTestAgent(t, client, financeStub())

	_, err := a.Respond(context.Background(), "Hello")
	require.Error(t, err)
	var infErr *inference.InferenceError
	assert.ErrorAs(t, err, &infErr)
}

// -------------------- Executor Tests --------------------

func TestExecute_FailsClosedOnUnregisteredTool(t *testing.T) {
	a := newTestAgent(t, inference.NewMockClient(), financeStub())

	results := a.execute(context.Background(), Plan{
		{Tool: "ghost", Args: map[string]any{}},
		{Tool: "finance", Args: map[string]any{"symbol": "BTC"}},
	}, nil)

	assert.NotContains(t, results, "ghost")
	assert.Contains(t, results, "finance")
}

func TestExecute_ReportsResultsAsTheyFinish(t *testing.T) {
	a := newTestAgent(t, inference.NewMockClient(), financeStub(), failingStub("broken"))

	var mu sync.Mutex
	var seen []string
	results := a.execute(context.Background(), Plan{
		{Tool: "finance", Args: map[string]any{"symbol": "BTC"}},
		{Tool: "broken", Args: map[string]any{}},
	}, func(name string, _ ToolResult) {
		mu.Lock()
		seen = append(seen, name)
		mu.Unlock()
	})

	assert.Len(t, results, 2)
	assert.ElementsMatch(t, []string{"finance", "broken"}, seen)
}

// -------------------- Streaming Tests --------------------

func TestRespondStreaming_MessageSequence(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": [{"tool": "finance", "args": {"symbol": "BTC"}}]}`)
	client.AddResponse(synthesisKey, "BTC is trading at $64,250.50, up 1.9% today.")

	a := newTestAgent(t, client, financeStub())
	sink := stream.NewBufferSink()

	err := a.RespondStreaming(context.Background(), "What is the price of BTC?", sink)
	require.NoError(t, err)

	msgs := sink.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, stream.KindStatus, msgs[0].Kind)
	assert.Equal(t, stream.KindPlan, msgs[1].Kind)
	assert.Equal(t, stream.KindDone, msgs[len(msgs)-1].Kind)

	var toolResults, tokens int
	var text strings.Builder
	for _, m := range msgs {
		switch m.Kind {
		case stream.KindToolResult:
			toolResults++
			assert.Equal(t, "finance", m.Tool)
		case stream.KindToken:
			tokens++
			text.WriteString(m.Message)
		}
	}
	assert.Equal(t, 1, toolResults)
	assert.Greater(t, tokens, 1)
	assert.Equal(t, "BTC is trading at $64,250.50, up 1.9% today.", text.String())
}

func TestRespondStreaming_MatchesBatchOutput(t *testing.T) {
	const final = "The answer, assembled from several fragments, is forty-two."

	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": []}`)
	client.AddResponse(synthesisKey, final)

	a := newTestAgent(t, client, financeStub())

	answer, err := a.Respond(context.Background(), "question")
	require.NoError(t, err)

	sink := stream.NewBufferSink()
	require.NoError(t, a.RespondStreaming(context.Background(), "question", sink))

	var text strings.Builder
	for _, m := range sink.Messages() {
		if m.Kind == stream.KindToken {
			text.WriteString(m.Message)
		}
	}
	assert.Equal(t, answer.FinalText, text.String())
}

func TestRespondStreaming_DecisionFailureSendsTerminalError(t *testing.T) {
	client := inference.NewMockClient()
	client.FailWith(inference.NewInferenceError("mock", "backend down", nil))

	a := newTestAgent(t, client, financeStub())
	sink := stream.NewBufferSink()

	err := a.RespondStreaming(context.Background(), "anything", sink)
	require.Error(t, err)

	kinds := sink.Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, stream.KindError, kinds[len(kinds)-1])
	assert.NotContains(t, kinds, stream.KindDone)
}

func TestRespondStreaming_SynthesisFailureSendsTerminalError(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": []}`)
	client.AddError(synthesisKey, inference.NewInferenceError("mock", "backend down", nil))

	a := newTestAgent(t, client, financeStub())
	sink := stream.NewBufferSink()

	err := a.RespondStreaming(context.Background(), "question", sink)
	require.Error(t, err)

	kinds := sink.Kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, stream.KindError, kinds[len(kinds)-1])
	assert.NotContains(t, kinds, stream.KindDone)
	assert.NotContains(t, kinds, stream.KindToken)
}

// failAfterSink accepts a fixed number of messages then reports the consumer
// as gone, simulating a mid-stream disconnect.
type failAfterSink struct {
	mu        sync.Mutex
	remaining int
	messages  []stream.Message
}

func (s *failAfterSink) Send(_ context.Context, msg stream.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remaining <= 0 {
		return fmt.Errorf("connection closed")
	}
	s.remaining--
	s.messages = append(s.messages, msg)
	return nil
}

func TestRespondStreaming_ConsumerDisconnectStopsProduction(t *testing.T) {
	client := inference.NewMockClient()
	client.AddResponse(decisionKey, `{"plans": []}`)
	client.AddResponse(synthesisKey, strings.Repeat("many words flow here ", 50))

	a := newTestAgent(t, client, financeStub())

	// Allow the preamble (status, plan, status) plus two token messages.
	sink := &failAfterSink{remaining: 5}

	err := a.RespondStreaming(context.Background(), "question", sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")

	var tokens int
	for _, m := range sink.messages {
		assert.NotEqual(t, stream.KindDone, m.Kind)
		assert.NotEqual(t, stream.KindError, m.Kind)
		if m.Kind == stream.KindToken {
			tokens++
		}
	}
	assert.Equal(t, 2, tokens)
}

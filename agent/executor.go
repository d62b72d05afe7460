package agent

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sarib95965/llm-agent/tool"
)

// Tool invocation outcome classification.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ToolResult records the outcome of a single tool invocation.
type ToolResult struct {
	Status  string `json:"status"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Results maps tool names to their invocation outcomes. It is built during the
// execution stage and never mutated afterwards.
type Results map[string]ToolResult

// execute runs every plan entry against the catalog and collects the outcomes.
//
// Entries are independent, so they run concurrently bounded by
// MaxConcurrentTools; invocations perform external network calls and must not
// be unbounded. One entry's failure never aborts the others (partial-failure
// semantics). If onResult is non-nil it is called once per completed entry, as
// it finishes.
func (a *Agent) execute(ctx context.Context, plan Plan, onResult func(name string, res ToolResult)) Results {
	results := make(Results, len(plan))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(a.opts.MaxConcurrentTools)

	for _, entry := range plan {
		g.Go(func() error {
			t, ok := a.catalog.Lookup(entry.Tool)
			if !ok {
				// The decision stage drops unknown tools; fail closed if one
				// slips through rather than invoking something unexpected.
				a.logger.Error("plan references unregistered tool", "tool", entry.Tool)
				return nil
			}

			res := a.invoke(ctx, t, entry)

			mu.Lock()
			results[entry.Tool] = res
			mu.Unlock()

			if onResult != nil {
				onResult(entry.Tool, res)
			}
			return nil
		})
	}

	_ = g.Wait() // invocation errors are recorded per entry, never returned

	return results
}

func (a *Agent) invoke(ctx context.Context, t tool.Tool, entry PlanEntry) ToolResult {
	args := entry.Args
	if args == nil {
		args = map[string]any{}
	}

	payload, err := t.Call(ctx, args)
	if err != nil {
		a.logger.Warn("tool invocation failed", "tool", entry.Tool, "error", err)
		return ToolResult{Status: StatusFailure, Error: err.Error()}
	}

	a.logger.Debug("tool invocation succeeded", "tool", entry.Tool)
	return ToolResult{Status: StatusSuccess, Payload: payload}
}

package agent

import (
	"context"
	"errors"

	"github.com/sarib95965/llm-agent/prompt"
)

// decide produces the invocation plan for the given input.
//
// An *inference.InferenceError from the underlying call is fatal and returned
// to the caller. A *PlanParseError degrades to an empty plan so the request
// proceeds directly to synthesis. Entries referencing tools absent from the
// catalog are dropped without aborting the rest of the plan.
func (a *Agent) decide(ctx context.Context, input string) (Plan, error) {
	raw, err := a.client.Complete(ctx, prompt.Decision(input, a.catalog.Tools()), a.opts.DecisionTemperature)
	if err != nil {
		return nil, err
	}

	plan, err := parsePlan(raw)
	if err != nil {
		var parseErr *PlanParseError
		if !errors.As(err, &parseErr) {
			return nil, err
		}
		a.logger.Warn("unparseable plan, proceeding without tools", "error", err)
		return Plan{}, nil
	}

	valid := make(Plan, 0, len(plan))
	for _, entry := range plan {
		if _, ok := a.catalog.Lookup(entry.Tool); !ok {
			a.logger.Warn("dropping plan entry for unknown tool", "tool", entry.Tool)
			continue
		}
		valid = append(valid, entry)
	}

	return valid, nil
}

package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlanEntry is one intended tool invocation decided by the model.
type PlanEntry struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// Plan is the ordered list of tool invocations for one request. Entries are
// independent; no entry may depend on another's output.
type Plan []PlanEntry

// PlanParseError reports model output that could not be parsed into a plan at
// all. It is recovered locally by substituting an empty plan and is never
// surfaced as a request failure.
type PlanParseError struct {
	Raw string // The model output that failed to parse
	Err error  // Underlying decode error, if any
}

func (e *PlanParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plan parse error: %v", e.Err)
	}
	return "plan parse error: no structured plan found"
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *PlanParseError) Unwrap() error { return e.Err }

// planEnvelope matches the instructed {"plans": [...]} response shape.
type planEnvelope struct {
	Plans []PlanEntry `json:"plans"`
}

// parsePlan extracts an invocation plan from raw model output.
//
// The parse is deliberately tolerant: models wrap JSON in prose or code
// fences, answer with a bare entry instead of the envelope, or reply "none"
// when no tool is needed. Accepted shapes, in order:
//
//	{"plans": [{"tool": ..., "args": ...}, ...]}
//	[{"tool": ..., "args": ...}, ...]
//	{"tool": ..., "args": ...}
//
// Entries with an empty or null tool name are dropped ("no tool needed").
// Output that contains no recognizable structure at all yields *PlanParseError.
func parsePlan(raw string) (Plan, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" || strings.EqualFold(text, "none") {
		return Plan{}, nil
	}

	candidate, ok := extractJSON(text)
	if !ok {
		if strings.Contains(strings.ToLower(text), "none") {
			return Plan{}, nil
		}
		return nil, &PlanParseError{Raw: raw}
	}

	var envelope planEnvelope
	if err := json.Unmarshal([]byte(candidate), &envelope); err == nil && envelope.Plans != nil {
		return compactPlan(envelope.Plans), nil
	}

	var entries []PlanEntry
	if err := json.Unmarshal([]byte(candidate), &entries); err == nil {
		return compactPlan(entries), nil
	}

	var single PlanEntry
	if err := json.Unmarshal([]byte(candidate), &single); err == nil {
		return compactPlan([]PlanEntry{single}), nil
	}

	return nil, &PlanParseError{Raw: raw, Err: fmt.Errorf("unmarshaling %q", candidate)}
}

// compactPlan drops "no tool" entries (null / empty tool names).
func compactPlan(entries []PlanEntry) Plan {
	plan := make(Plan, 0, len(entries))
	for _, e := range entries {
		if e.Tool == "" {
			continue
		}
		plan = append(plan, e)
	}
	return plan
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSON returns the outermost JSON object or array embedded in text,
// ignoring any surrounding prose.
func extractJSON(text string) (string, bool) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start := objStart
	end := strings.LastIndexByte(text, '}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start = arrStart
		end = strings.LastIndexByte(text, ']')
	}
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Package agent implements the orchestration core of the query-answering
// agent: the decision stage that turns free-text input into a structured
// invocation plan, the execution stage that runs the plan against the tool
// catalog, and the synthesis stage that produces the final answer in batch or
// token-streamed form.
//
// Each request moves through a strict three-phase pipeline
// (planning -> executing -> synthesizing); the stages share no mutable state
// beyond the read-only catalog, so requests are served concurrently without
// coordination.
package agent

// Package prompt builds the decision and synthesis prompts sent to the
// inference backend. Keeping construction here isolates wording changes from
// the orchestration stages.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sarib95965/llm-agent/tool"
)

// SystemInstruction is the system message attached to every backend call.
const SystemInstruction = "You are a helpful financial and web search assistant. " +
	"Always provide specific numerical values, dates, and percentages from the data provided. " +
	"Never use placeholders or incomplete dates."

// NoToolOutput is the serialized result placeholder used when no tool ran.
const NoToolOutput = "No tool results available."

// Decision builds the prompt asking the model which tools (if any) to invoke
// for the given user input. The catalog's name, description and argument
// schema for each tool are embedded so the model can produce a structured plan.
func Decision(input string, tools []tool.Tool) string {
	var sb strings.Builder

	sb.WriteString("You are an intelligent assistant capable of calling external tools to perform tasks.\n")
	sb.WriteString("When given a user's query, analyze whether to use tools or respond directly.\n\n")
	sb.WriteString("Available tools:\n")
	for _, t := range tools {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Name(), t.Description()))
		if schema, err := json.Marshal(t.Parameters()); err == nil {
			sb.WriteString(fmt.Sprintf("  arguments schema: %s\n", schema))
		}
	}

	sb.WriteString("\nDecide which tools (if any) should be used for the user's request.\n")
	sb.WriteString("You can break the request into multiple parts and call one tool per part if needed.\n")
	sb.WriteString("Return only a JSON object in this exact format: ")
	sb.WriteString(`{"plans": [{"tool": "tool_name", "args": {...}}, ...]}.` + "\n")
	sb.WriteString(`If no tool is needed, return {"plans": []}.` + "\n")
	sb.WriteString("No reasoning, just the JSON.\n\n")
	sb.WriteString(fmt.Sprintf("User input: %q\n", input))

	return sb.String()
}

// Synthesis builds the prompt that turns serialized tool output into the final
// user-facing answer. It is used verbatim by both the batch and streaming
// synthesis paths so their outputs are textually equivalent.
func Synthesis(input, toolOutput string) string {
	if toolOutput == "" {
		toolOutput = NoToolOutput
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a helpful financial and web search assistant. The user asked: %q\n\n", input))
	sb.WriteString(fmt.Sprintf("Here is the data retrieved from tools:\n%s\n\n", toolOutput))
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("1. Extract the specific numerical values, prices, dates, and key information from the tool output\n")
	sb.WriteString("2. Present the information in a clear, human-readable format\n")
	sb.WriteString("3. For market data, include current price, change amount, change percentage, and trading date\n")
	sb.WriteString("4. For search results, summarize the key findings\n")
	sb.WriteString("5. Be specific and accurate with numbers, dates, and percentages\n")
	sb.WriteString("6. If there are errors in the tool output, mention the affected data is unavailable\n")
	sb.WriteString("7. If there is no tool output, answer from your own knowledge without mentioning tools\n\n")
	sb.WriteString("Provide a helpful and informative response using the actual data from the tools:")

	return sb.String()
}

// Package tool implements the data-retrieval capability subsystem that lets the
// agent invoke external structured capabilities (market data, web search) with
// schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"fmt"

	"github.com/sarib95965/llm-agent/internal/util"
)

// Tool defines the capability surface shared by every data-retrieval tool.
//
// A tool exposes a stable name, a human-readable description consumed by the
// decision stage's prompt construction, and a single invoke operation. Tools
// are stateless and safe to invoke concurrently by multiple requests; they
// hold no per-request state.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a minimal JSON schema for their arguments
//   - Validate arguments themselves and fail with *ToolError
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool within the catalog.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the model to help it decide when to use the tool.
	Description() string

	// Parameters returns a minimal JSON-Schema-like map describing the
	// expected arguments (type, properties, required).
	Parameters() map[string]any

	// Call invokes the tool with arguments decoded from the model's plan.
	// Invalid or missing required arguments, and failures to reach or parse
	// the backing data source, are reported as *ToolError.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents argument validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool invocation.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Package tool implements the function calling subsystem that lets a
// conversational model invoke structured shipping capabilities (rate
// shopping, order lookup) with schema validated arguments and consistent
// error handling.
package tool

import (
	"context"
	"fmt"
)

// Tool defines the interface for capabilities exposed to a function-calling
// model. Implementations must be safe for concurrent use; the assistant may
// execute tool calls from parallel chat turns.
type Tool interface {
	// Name returns the unique tool name used in function call declarations
	// and routing (snake_case recommended).
	Name() string

	// Description returns the short natural language description exposed to
	// models.
	Description() string

	// Parameters returns a minimal JSON-schema-like map describing the
	// accepted arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments. The returned
	// value must be JSON-serializable so it can be fed back to the model.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Error codes used by ToolError.
const (
	// CodeValidation marks a schema / argument mismatch.
	CodeValidation = "VALIDATION_ERROR"
	// CodeExecution marks a failure inside the tool implementation.
	CodeExecution = "EXECUTION_ERROR"
)

// ToolError is the uniform error type surfaced by tool execution. Tools may
// return it directly to preserve a custom code; any other error is wrapped
// with CodeExecution.
type ToolError struct {
	Tool    string `json:"tool"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed (%s): %s", e.Tool, e.Code, e.Message)
}

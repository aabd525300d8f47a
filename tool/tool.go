// Package tool implements the function calling subsystem that lets the
// workflow agent drive the analysis pipeline: schema-validated arguments,
// consistent error codes and the analysis toolset itself.
package tool

import (
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/internal/util"
)

// Tool is a callable capability exposed to the model.
//
// Implementations should provide descriptive snake_case names, a JSON schema
// for their parameters, and be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description is provided to the model to decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]interface{}

	// Call executes the tool with validated arguments and the tool context.
	Call(toolCtx *core.ToolContext, args map[string]interface{}) (interface{}, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string      `json:"tool"`              // Name of the tool that failed
	Message string      `json:"message"`           // Error message
	Code    string      `json:"code"`              // Error code for categorization
	Details interface{} `json:"details,omitempty"` // Additional error details
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

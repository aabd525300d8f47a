package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/logging"
)

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()
	return core.NewToolContext(context.Background(), core.NewSession("s1"), nil, logging.NewDefault(), "fc-1")
}

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		"required": []string{"x"},
	}
}

func TestFunctionToolCall(t *testing.T) {
	ft := NewFunctionTool("echo", "Echo the x argument.", echoSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return args["x"], nil
		})

	assert.Equal(t, "echo", ft.Name())
	assert.Equal(t, "Echo the x argument.", ft.Description())
	assert.Equal(t, echoSchema(), ft.Parameters())

	result, err := ft.Call(newToolContext(t), map[string]any{"x": 7.0})
	require.NoError(t, err)
	assert.Equal(t, 7.0, result)
}

func TestFunctionToolValidation(t *testing.T) {
	called := false
	ft := NewFunctionTool("echo", "", echoSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			called = true
			return nil, nil
		})

	_, err := ft.Call(newToolContext(t), map[string]any{})
	require.Error(t, err)
	assert.False(t, called)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	ft := NewFunctionTool("boom", "", echoSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, fmt.Errorf("disk on fire")
		})

	_, err := ft.Call(newToolContext(t), map[string]any{"x": 1.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "disk on fire")
}

func TestFunctionToolForwardsToolError(t *testing.T) {
	original := NewToolError("boom", "already wrapped", "CUSTOM_CODE")
	ft := NewFunctionTool("boom", "", echoSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return nil, original
		})

	_, err := ft.Call(newToolContext(t), map[string]any{"x": 1.0})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Same(t, original, toolErr)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Path string `json:"path" description:"File to load"`
	}
	ft := NewFunctionToolFromStruct("load", "Load a file.", args{},
		func(tc *core.ToolContext, a map[string]any) (any, error) {
			return a["path"], nil
		})

	props := ft.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "path")

	_, err := ft.Call(newToolContext(t), map[string]any{})
	assert.Error(t, err)

	result, err := ft.Call(newToolContext(t), map[string]any{"path": "mesh.vtk"})
	require.NoError(t, err)
	assert.Equal(t, "mesh.vtk", result)
}

package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/core"
)

func userRequest(text string) Request {
	return Request{Contents: []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}},
	}}
}

func TestMockModelInfo(t *testing.T) {
	m := NewMockModel("test-model")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("m")
	m.AddResponse("hi", "hello")

	resp, err := m.Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content.Text())
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Generate(context.Background(), userRequest("unseen"))
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unseen", resp.Content.Text())
}

func TestMockModelScript(t *testing.T) {
	m := NewMockModel("m")
	m.AddResponse("hi", "canned")
	m.Script(
		Response{Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "1", Name: "tool"}},
		}}, FinishReason: "tool_calls"},
		Response{Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.TextPart{Text: "final"},
		}}, FinishReason: "stop"},
	)

	// Scripted responses win over canned ones and drain in order.
	resp, err := m.Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	require.Len(t, resp.Content.FunctionCalls(), 1)

	resp, err = m.Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "final", resp.Content.Text())

	// Script exhausted; canned matching resumes.
	resp, err = m.Generate(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "canned", resp.Content.Text())
}

func TestMockModelNoContents(t *testing.T) {
	m := NewMockModel("m")
	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)
}

func TestMockModelCancelledContext(t *testing.T) {
	m := NewMockModel("m")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, userRequest("hi"))
	assert.ErrorIs(t, err, context.Canceled)
}

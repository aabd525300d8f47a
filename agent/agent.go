// Package agent implements the workflow agent: a synchronous loop that sends
// the conversation to a language model, executes the tool calls it requests
// against the analysis pipeline, and feeds the results back until the model
// produces a final text answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/logging"
	"github.com/shingyusik/scientific-analysis-agent/model"
	"github.com/shingyusik/scientific-analysis-agent/tool"
)

// DefaultMaxIterations caps model/tool round trips per Run call.
const DefaultMaxIterations = 16

// Options configures a WorkflowAgent.
type Options struct {
	Logger        logging.Logger
	Artifacts     core.ArtifactStore
	MaxIterations int
}

// WorkflowAgent drives a model with a toolset over a session. One Run call
// handles one user turn end to end, including any tool round trips. The
// agent itself is stateless between runs; all history lives in the session.
type WorkflowAgent struct {
	name        string
	model       model.Model
	instruction Instruction
	tools       []tool.Tool
	toolIndex   map[string]tool.Tool
	sessions    core.SessionStore
	artifacts   core.ArtifactStore
	logger      logging.Logger
	maxIter     int
}

// New constructs a WorkflowAgent.
func New(name string, m model.Model, instruction Instruction, tools []tool.Tool,
	sessions core.SessionStore, optFns ...func(o *Options)) (*WorkflowAgent, error) {
	if m == nil {
		return nil, fmt.Errorf("model must not be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store must not be nil")
	}

	opts := Options{MaxIterations: DefaultMaxIterations}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	index := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		if _, exists := index[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		index[t.Name()] = t
	}

	return &WorkflowAgent{
		name:        name,
		model:       m,
		instruction: instruction,
		tools:       tools,
		toolIndex:   index,
		sessions:    sessions,
		artifacts:   opts.Artifacts,
		logger:      logging.OrNoOp(opts.Logger),
		maxIter:     opts.MaxIterations,
	}, nil
}

// Name returns the agent's name, used as the author of its session events.
func (a *WorkflowAgent) Name() string { return a.name }

// Run processes one user message: it appends it to the session, loops the
// model until it stops requesting tool calls, and returns the final text.
func (a *WorkflowAgent) Run(ctx context.Context, sessionID, userText string) (string, error) {
	session, err := a.sessions.Get(sessionID)
	if err != nil {
		if session, err = a.sessions.Create(sessionID); err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
	}

	userContent := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: userText}}}
	if err := a.sessions.AppendEvent(sessionID, core.NewEvent("user", userContent)); err != nil {
		return "", fmt.Errorf("append user event: %w", err)
	}

	defs := a.toolDefinitions()

	for iter := 0; iter < a.maxIter; iter++ {
		instructions, err := a.instruction.Resolve(session)
		if err != nil {
			return "", fmt.Errorf("resolve instruction: %w", err)
		}

		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: instructions,
			Contents:     session.ConversationHistory(),
			Tools:        defs,
		})
		if err != nil {
			return "", fmt.Errorf("model generate: %w", err)
		}

		if err := a.sessions.AppendEvent(sessionID, core.NewEvent(a.name, resp.Content)); err != nil {
			return "", fmt.Errorf("append assistant event: %w", err)
		}

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			a.logger.Info("agent.run.complete", "session", sessionID, "iterations", iter+1)
			return resp.Content.Text(), nil
		}

		responses := make([]core.Part, 0, len(calls))
		for _, call := range calls {
			responses = append(responses, core.FunctionResponsePart{
				FunctionResponse: a.dispatch(ctx, session, call),
			})
		}
		toolContent := core.Content{Role: "tool", Parts: responses}
		if err := a.sessions.AppendEvent(sessionID, core.NewEvent(a.name, toolContent)); err != nil {
			return "", fmt.Errorf("append tool event: %w", err)
		}
	}

	return "", fmt.Errorf("no final response after %d iterations", a.maxIter)
}

// toolDefinitions converts the toolset to model-facing declarations.
func (a *WorkflowAgent) toolDefinitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, len(a.tools))
	for i, t := range a.tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}

// dispatch executes one function call and converts any failure, including a
// panicking tool, into a FunctionResponse the model can recover from.
func (a *WorkflowAgent) dispatch(ctx context.Context, session *core.Session,
	call core.FunctionCall) (fr core.FunctionResponse) {
	fr = core.FunctionResponse{ID: call.ID, Name: call.Name}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("agent.tool.panic", "tool", call.Name, "panic", fmt.Sprintf("%v", r))
			fr.Response = nil
			fr.Error = fmt.Sprintf("tool %s panicked: %v", call.Name, r)
		}
	}()

	t, ok := a.toolIndex[call.Name]
	if !ok {
		fr.Error = fmt.Sprintf("unknown tool: %s", call.Name)
		return fr
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			fr.Error = fmt.Sprintf("invalid tool arguments: %v", err)
			return fr
		}
	}

	toolCtx := core.NewToolContext(ctx, session, a.artifacts, a.logger, call.ID)
	result, err := t.Call(toolCtx, args)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}
	fr.Response = result
	return fr
}

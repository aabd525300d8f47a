package core

import (
	"context"
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/logging"
)

// ToolContext is the constrained surface handed to tool implementations:
// session state, artifact persistence, logging and the function call id
// correlating a model request with its execution.
type ToolContext struct {
	ctx            context.Context
	session        *Session
	artifacts      ArtifactStore
	logger         logging.Logger
	functionCallID string
}

// NewToolContext binds a tool invocation to its session and services.
func NewToolContext(ctx context.Context, session *Session, artifacts ArtifactStore,
	logger logging.Logger, functionCallID string) *ToolContext {
	return &ToolContext{
		ctx:            ctx,
		session:        session,
		artifacts:      artifacts,
		logger:         logging.OrNoOp(logger),
		functionCallID: functionCallID,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the owning session's id, "" without a session.
func (tc *ToolContext) SessionID() string {
	if tc.session == nil {
		return ""
	}
	return tc.session.ID
}

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// FunctionCallID correlates the model's call request with this execution.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// GetState retrieves a session state value.
func (tc *ToolContext) GetState(k string) (any, bool) {
	if tc.session == nil {
		return nil, false
	}
	return tc.session.GetState(k)
}

// SetState records a session state value.
func (tc *ToolContext) SetState(k string, v any) {
	if tc.session != nil {
		tc.session.SetState(k, v)
	}
}

// SaveArtifact persists artifact bytes under the invocation's session.
func (tc *ToolContext) SaveArtifact(id string, data []byte) error {
	if tc.artifacts == nil {
		return fmt.Errorf("artifact store not configured")
	}
	return tc.artifacts.Save(tc.SessionID(), id, data)
}

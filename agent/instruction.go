package agent

import (
	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/internal/util"
)

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from session state, environment, etc.
type Provider interface {
	Instruction(session *core.Session) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(session *core.Session) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(s *core.Session) (string, error) { return f(s) }

// Instruction represents either a static instruction string or a dynamic
// provider. Static text is rendered as a template against the session state,
// so "{{.dataset_name}}" style placeholders resolve at run time.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(session *core.Session) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider or rendering
// the template as needed.
func (i Instruction) Resolve(session *core.Session) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(session)
	}
	var state map[string]any
	if session != nil {
		state = session.Clone().State
	}
	return util.RenderTemplate(i.text, state)
}

package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/core"
)

func TestInstructionStatic(t *testing.T) {
	i := NewInstructionFromText("analyze the data")
	assert.True(t, i.IsStatic())

	out, err := i.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "analyze the data", out)
}

func TestInstructionTemplate(t *testing.T) {
	i := NewInstructionFromText(`dataset: {{default "unknown" .dataset_name}}`)

	out, err := i.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "dataset: unknown", out)

	s := core.NewSession("s1")
	s.SetState("dataset_name", "cone")
	out, err = i.Resolve(s)
	require.NoError(t, err)
	assert.Equal(t, "dataset: cone", out)
}

func TestInstructionProvider(t *testing.T) {
	i := NewInstructionFromFunc(func(s *core.Session) (string, error) {
		return "dynamic for " + s.ID, nil
	})
	assert.False(t, i.IsStatic())

	out, err := i.Resolve(core.NewSession("s1"))
	require.NoError(t, err)
	assert.Equal(t, "dynamic for s1", out)
}

func TestInstructionProviderError(t *testing.T) {
	i := NewInstructionFromFunc(func(s *core.Session) (string, error) {
		return "", fmt.Errorf("no instruction available")
	})
	_, err := i.Resolve(core.NewSession("s1"))
	assert.Error(t, err)
}

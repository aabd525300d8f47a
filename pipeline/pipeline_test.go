package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(filter.DefaultRegistry(), dataset.Cone(16), "cone")
}

func TestApplyAppendsOneStep(t *testing.T) {
	p := newTestPipeline(t)

	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)
	require.Equal(t, 1, p.StepCount())

	assert.Equal(t, filter.TypeSlice, step.Type)
	assert.Equal(t, "Slice (cone)", step.Name)
	assert.True(t, step.Valid)
	assert.True(t, step.Visible)
	assert.False(t, step.Data.IsEmpty())
	assert.NotNil(t, step.Renderable)
	assert.Equal(t, "", step.InputID())

	// The new step becomes selected and the head
	assert.Equal(t, step, p.Selected())
}

func TestApplyUnknownFilterLeavesChainUntouched(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Apply("warp_filter", nil)
	require.Error(t, err)

	var unknown *filter.UnknownFilterError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, 0, p.StepCount())
}

func TestApplyFailureLeavesChainUntouched(t *testing.T) {
	p := newTestPipeline(t)

	params := filter.DefaultSliceParams().Params()
	params["normal"] = []float64{0, 0, 0}
	_, err := p.Apply(filter.TypeSlice, params)
	require.Error(t, err)

	var appErr *filter.ApplicationError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 0, p.StepCount())
	assert.Nil(t, p.Selected())
}

func TestApplyChainsOntoHead(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)

	// Head follows the last applied step, so the slice consumes the
	// elevation output.
	second, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.InputID())
	assert.Equal(t, "Slice (Elevation (cone))", second.Name)
}

func TestUpdateReappliesAgainstSameInput(t *testing.T) {
	p := newTestPipeline(t)

	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)
	before := step.Data

	params := step.Params.Clone()
	params["offsets"] = []float64{0.5}
	require.NoError(t, p.Update(0, params))

	assert.NotSame(t, before, step.Data)
	assert.Equal(t, []float64{0.5}, step.Params.Floats("offsets", nil))
	assert.True(t, step.Valid)
}

func TestUpdateIsIdempotent(t *testing.T) {
	p := newTestPipeline(t)

	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	params := step.Params.Clone()
	params["offsets"] = []float64{0.25}

	require.NoError(t, p.Update(0, params))
	first := step.Data

	// Updating again with identical parameters reproduces the same output.
	require.NoError(t, p.Update(0, params))
	assert.NotSame(t, first, step.Data)
	assert.Equal(t, first, step.Data)
	assert.Equal(t, params, step.Params)
}

func TestUpdateFailureLeavesStepUnchanged(t *testing.T) {
	p := newTestPipeline(t)

	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)
	before := step.Data
	beforeParams := step.Params.Clone()

	bad := step.Params.Clone()
	bad["normal"] = []float64{0, 0, 0}
	require.Error(t, p.Update(0, bad))

	assert.Same(t, before, step.Data)
	assert.Equal(t, beforeParams, step.Params)
	assert.True(t, step.Valid)
}

func TestUpdateInvalidatesDownstream(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	downstream, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.Update(0, nil))
	assert.False(t, downstream.Valid)

	// Recompute restores validity in chain order
	require.NoError(t, p.Recompute())
	assert.True(t, downstream.Valid)
	assert.False(t, downstream.Data.IsEmpty())
}

func TestRemoveRewiresConsumers(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	second, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.Remove(0))
	require.Equal(t, 1, p.StepCount())

	// The survivor consumes the removed step's input (the root) and is
	// invalid until recomputed.
	assert.Equal(t, "", second.InputID())
	assert.False(t, second.Valid)

	require.NoError(t, p.Recompute())
	assert.True(t, second.Valid)
}

func TestRemoveMiddleStepRewiresOntoPredecessor(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	_, err = p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	third, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.Remove(1))
	require.Equal(t, 2, p.StepCount())

	// The downstream step consumes the removed step's input, the first
	// step's output, and is invalid until recomputed.
	assert.Equal(t, first.ID, third.InputID())
	assert.True(t, first.Valid)
	assert.False(t, third.Valid)

	require.NoError(t, p.Recompute())
	assert.True(t, third.Valid)
	assert.False(t, third.Data.IsEmpty())
}

func TestRemoveOutOfRange(t *testing.T) {
	p := newTestPipeline(t)
	assert.Error(t, p.Remove(0))
	assert.Error(t, p.Remove(-1))
}

func TestCommitPinsHead(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	_, err = p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	// Re-commit the first step; the next filter consumes its output, not
	// the slice's.
	require.NoError(t, p.Commit(0))
	third, err := p.Apply(filter.TypeContour, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.InputID())
}

func TestCommitInvalidatedStepFails(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	second, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.Update(0, nil)) // invalidates the slice
	require.False(t, second.Valid)

	idx, ok := p.IndexOf(second.ID)
	require.True(t, ok)
	assert.Error(t, p.Commit(idx))
}

func TestSelect(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	_, err = p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.Select(first.ID))
	assert.Equal(t, first, p.Selected())

	// Selection pins the head as well
	next, err := p.Apply(filter.TypeContour, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, next.InputID())

	// Clearing re-roots onto the raw dataset
	require.NoError(t, p.Select(""))
	assert.Nil(t, p.Selected())
	last, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)
	assert.Equal(t, "", last.InputID())

	assert.Error(t, p.Select("nonexistent"))
}

func TestSetVisible(t *testing.T) {
	p := newTestPipeline(t)
	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	require.NoError(t, p.SetVisible(step.ID, false))
	assert.False(t, step.Visible)
	assert.Error(t, p.SetVisible("nonexistent", false))
}

func TestClear(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	replacement := dataset.Cone(8)
	p.Clear(replacement, "cone8")

	assert.Equal(t, 0, p.StepCount())
	assert.Same(t, replacement, p.Root())
	assert.Equal(t, "cone8", p.RootName())
	assert.Nil(t, p.Selected())
}

func TestSummary(t *testing.T) {
	p := newTestPipeline(t)
	assert.Contains(t, p.Summary(), "No filters applied.")

	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	summary := p.Summary()
	assert.Contains(t, summary, "Root: cone")
	assert.Contains(t, summary, "Slice (cone)")
	assert.Contains(t, summary, step.ID)
	assert.Contains(t, summary, "Currently selected")
}

func TestStepInfo(t *testing.T) {
	p := newTestPipeline(t)
	step, err := p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	info := step.Info()
	assert.Contains(t, info, "Slice (cone)")
	assert.Contains(t, info, "Number of Points")
}

func TestDraw(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	_, err = p.Apply(filter.TypeSlice, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Draw(&buf))

	dot := buf.String()
	assert.Contains(t, dot, "cone (root)")
	assert.Contains(t, dot, "Elevation (cone)")
	assert.Contains(t, dot, "->")
}

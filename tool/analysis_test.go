package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/artifact"
	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/logging"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
)

func newToolsetFixture(t *testing.T) (*AnalysisToolset, *core.ToolContext, *artifact.InMemoryStore) {
	t.Helper()
	p := pipeline.New(filter.DefaultRegistry(), dataset.Cone(16), "cone")
	ts := NewAnalysisToolset(p)
	store := artifact.NewInMemoryStore()
	tc := core.NewToolContext(context.Background(), core.NewSession("s1"), store, logging.NewDefault(), "fc-1")
	return ts, tc, store
}

func findTool(t *testing.T, ts *AnalysisToolset, name string) Tool {
	t.Helper()
	for _, tl := range ts.Tools() {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not in toolset", name)
	return nil
}

func TestToolsetRoster(t *testing.T) {
	ts, _, _ := newToolsetFixture(t)

	tools := ts.Tools()
	require.Len(t, tools, 11)

	seen := map[string]bool{}
	for _, tl := range tools {
		assert.NotEmpty(t, tl.Description(), tl.Name())
		assert.False(t, seen[tl.Name()], "duplicate tool %s", tl.Name())
		seen[tl.Name()] = true
	}
	for _, name := range []string{
		"get_pipeline_info", "get_data_info", "select_pipeline_item", "delete_item",
		"apply_slice_filter", "apply_clip_filter", "apply_contour_filter",
		"get_filter_params", "update_filter_params", "commit_filter", "render_snapshot",
	} {
		assert.True(t, seen[name], name)
	}
}

func TestGetPipelineInfoTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	result, err := findTool(t, ts, "get_pipeline_info").Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "No filters applied.")
}

func TestGetDataInfoTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	result, err := findTool(t, ts, "get_data_info").Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "root dataset")
	assert.Contains(t, result.(string), "cone")

	_, err = findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{})
	require.NoError(t, err)

	// A freshly applied step is selected, so data info now describes it.
	result, err = findTool(t, ts, "get_data_info").Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Slice (cone)")
}

func TestApplySliceFilterTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	result, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{
		"offsets": []any{0.5},
	})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Applied")

	require.Equal(t, 1, ts.Pipeline().StepCount())
	step, err := ts.Pipeline().Step(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, step.Params.Floats("offsets", nil))
	// Unspecified parameters keep their defaults.
	assert.Equal(t, []float64{1, 0, 0}, step.Params.Floats("normal", nil))
}

func TestApplyFilterToolFailure(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	_, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{
		"normal": []any{0.0, 0.0, 0.0},
	})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Equal(t, 0, ts.Pipeline().StepCount())
}

func TestApplyContourFilterTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	result, err := findTool(t, ts, "apply_contour_filter").Call(tc, map[string]any{
		"values": []any{0.25, 0.75},
	})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Applied")

	_, err = findTool(t, ts, "apply_contour_filter").Call(tc, map[string]any{
		"array_name": "Pressure",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pressure")
}

func TestSelectPipelineItemTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	_, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{})
	require.NoError(t, err)
	step, err := ts.Pipeline().Step(0)
	require.NoError(t, err)

	sel := findTool(t, ts, "select_pipeline_item")

	result, err := sel.Call(tc, map[string]any{"id": step.ID})
	require.NoError(t, err)
	assert.Contains(t, result.(string), step.ID)

	result, err = sel.Call(tc, map[string]any{"id": ""})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Selection cleared")
	assert.Nil(t, ts.Pipeline().Selected())

	_, err = sel.Call(tc, map[string]any{"id": "nonexistent"})
	assert.Error(t, err)
}

func TestDeleteItemTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	_, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{})
	require.NoError(t, err)

	result, err := findTool(t, ts, "delete_item").Call(tc, map[string]any{"index": 0.0})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Deleted step 0")
	assert.Equal(t, 0, ts.Pipeline().StepCount())

	_, err = findTool(t, ts, "delete_item").Call(tc, map[string]any{"index": 5.0})
	assert.Error(t, err)
}

func TestFilterParamsTools(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	_, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{})
	require.NoError(t, err)

	result, err := findTool(t, ts, "get_filter_params").Call(tc, map[string]any{"index": 0.0})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "offsets")

	result, err = findTool(t, ts, "update_filter_params").Call(tc, map[string]any{
		"index":  0.0,
		"params": map[string]any{"offsets": []any{0.25}},
	})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Updated step 0")

	step, err := ts.Pipeline().Step(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, step.Params.Floats("offsets", nil))

	_, err = findTool(t, ts, "update_filter_params").Call(tc, map[string]any{
		"index":  0.0,
		"params": map[string]any{"normal": []any{0.0, 0.0, 0.0}},
	})
	assert.Error(t, err)
}

func TestCommitFilterTool(t *testing.T) {
	ts, tc, _ := newToolsetFixture(t)

	_, err := findTool(t, ts, "apply_slice_filter").Call(tc, map[string]any{})
	require.NoError(t, err)
	first, err := ts.Pipeline().Step(0)
	require.NoError(t, err)

	result, err := findTool(t, ts, "commit_filter").Call(tc, map[string]any{"index": 0.0})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Committed step 0")

	_, err = findTool(t, ts, "apply_clip_filter").Call(tc, map[string]any{})
	require.NoError(t, err)
	second, err := ts.Pipeline().Step(1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.InputID())
}

func TestRenderSnapshotTool(t *testing.T) {
	ts, tc, store := newToolsetFixture(t)

	result, err := findTool(t, ts, "render_snapshot").Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "snapshot.png")

	data, err := store.Load("s1", "snapshot.png")
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])

	_, err = findTool(t, ts, "render_snapshot").Call(tc, map[string]any{"artifact_id": "view1.png"})
	require.NoError(t, err)
	_, err = store.Load("s1", "view1.png")
	assert.NoError(t, err)
}

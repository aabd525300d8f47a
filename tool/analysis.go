package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// AnalysisToolset exposes a pipeline to the model as a set of function tools.
// The toolset holds the live pipeline; tools mutate it synchronously, so the
// embedding application must serialize agent runs against direct access.
type AnalysisToolset struct {
	pipeline   *pipeline.Pipeline
	renderOpts render.Options
}

// NewAnalysisToolset binds the tools to a pipeline. Render options apply to
// the render_snapshot tool.
func NewAnalysisToolset(p *pipeline.Pipeline, optFns ...func(o *render.Options)) *AnalysisToolset {
	opts := render.DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &AnalysisToolset{pipeline: p, renderOpts: opts}
}

// Pipeline returns the bound pipeline.
func (ts *AnalysisToolset) Pipeline() *pipeline.Pipeline { return ts.pipeline }

// Tools returns the full analysis toolset.
func (ts *AnalysisToolset) Tools() []Tool {
	return []Tool{
		ts.getPipelineInfo(),
		ts.getDataInfo(),
		ts.selectPipelineItem(),
		ts.deleteItem(),
		ts.applyFilter(filter.TypeSlice, "apply_slice_filter",
			"Apply a slice filter that cuts the current data with one or more planes. "+
				"Optional arguments: origin and normal (3-element arrays) define the cutting plane, "+
				"offsets (array of numbers) produces one parallel slice per offset along the normal."),
		ts.applyFilter(filter.TypeClip, "apply_clip_filter",
			"Apply a clip filter that keeps the cells of the current data on the positive side "+
				"of a plane. Optional arguments: origin and normal (3-element arrays)."),
		ts.applyFilter(filter.TypeContour, "apply_contour_filter",
			"Apply a contour filter that extracts isosurfaces of a scalar field from the current "+
				"data. Optional arguments: values (array of isovalues), array_name (scalar field; "+
				"defaults to the active scalars)."),
		ts.getFilterParams(),
		ts.updateFilterParams(),
		ts.commitFilter(),
		ts.renderSnapshot(),
	}
}

// noArgsSchema is the schema for tools that take no arguments.
func noArgsSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func indexSchema(desc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"index": map[string]any{
				"type":        "integer",
				"description": desc,
			},
		},
		"required": []string{"index"},
	}
}

// argIndex extracts the required integer "index" argument.
func argIndex(args map[string]any) (int, error) {
	v, ok := args["index"]
	if !ok {
		return 0, fmt.Errorf("missing required argument: index")
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("index must be a number, got %T", v)
	}
	return int(f), nil
}

func (ts *AnalysisToolset) getPipelineInfo() Tool {
	return NewFunctionTool(
		"get_pipeline_info",
		"Get an overview of the analysis pipeline: the root dataset, every applied filter step "+
			"with its index, id and validity, and the currently selected step.",
		noArgsSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			return ts.pipeline.Summary(), nil
		},
	)
}

func (ts *AnalysisToolset) getDataInfo() Tool {
	return NewFunctionTool(
		"get_data_info",
		"Get detailed information about the currently selected step's data (or the root dataset "+
			"when nothing is selected): point and cell counts, bounds, available data arrays and "+
			"the active scalar field.",
		noArgsSchema(),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			if sel := ts.pipeline.Selected(); sel != nil {
				return sel.Info(), nil
			}
			info := engine.DataInfo(ts.pipeline.Root())
			return fmt.Sprintf("Name: %s (root dataset)\n%s", ts.pipeline.RootName(), info.String()), nil
		},
	)
}

func (ts *AnalysisToolset) selectPipelineItem() Tool {
	return NewFunctionTool(
		"select_pipeline_item",
		"Select a pipeline step by id as the active target. Subsequent filters consume the "+
			"selected step's output. Pass an empty id to clear the selection and work on the "+
			"root dataset again.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Step id from get_pipeline_info, or empty to clear",
				},
			},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			id, _ := args["id"].(string)
			if err := ts.pipeline.Select(id); err != nil {
				return nil, err
			}
			if id == "" {
				return "Selection cleared; the root dataset is active.", nil
			}
			sel := ts.pipeline.Selected()
			return fmt.Sprintf("Selected %s (%s).", sel.Name, sel.ID), nil
		},
	)
}

func (ts *AnalysisToolset) deleteItem() Tool {
	return NewFunctionTool(
		"delete_item",
		"Delete the pipeline step at the given index. Steps that consumed its output are "+
			"re-rooted onto its input and must be recomputed.",
		indexSchema("Zero-based step index from get_pipeline_info"),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			i, err := argIndex(args)
			if err != nil {
				return nil, err
			}
			step, err := ts.pipeline.Step(i)
			if err != nil {
				return nil, err
			}
			name := step.Name
			if err := ts.pipeline.Remove(i); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Deleted step %d (%s).", i, name), nil
		},
	)
}

// applyFilter builds an apply_* tool for one registered filter type. The
// argument object is passed through as filter parameters; missing keys fall
// back to the filter's defaults.
func (ts *AnalysisToolset) applyFilter(typeID, name, description string) Tool {
	numberArray := func(desc string) map[string]any {
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "number"},
			"description": desc,
		}
	}
	properties := map[string]any{}
	switch typeID {
	case filter.TypeSlice:
		properties["origin"] = numberArray("Plane origin [x, y, z]")
		properties["normal"] = numberArray("Plane normal [x, y, z]")
		properties["offsets"] = numberArray("Signed plane offsets along the normal")
	case filter.TypeClip:
		properties["origin"] = numberArray("Plane origin [x, y, z]")
		properties["normal"] = numberArray("Plane normal [x, y, z]")
	case filter.TypeContour:
		properties["values"] = numberArray("Contour isovalues")
		properties["array_name"] = map[string]any{
			"type":        "string",
			"description": "Scalar field to contour; defaults to the active scalars",
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	return NewFunctionTool(name, description, schema,
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			params := paramsFromArgs(typeID, args)
			step, err := ts.pipeline.Apply(typeID, params)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Applied %s as step %q (id: %s). Result: %d points, %d cells.",
				step.DisplayName, step.Name, step.ID, step.Data.NumPoints(), step.Data.NumCells()), nil
		},
	)
}

// paramsFromArgs merges supplied arguments over the filter's defaults so a
// partial argument object never drops a parameter.
func paramsFromArgs(typeID string, args map[string]any) filter.Params {
	var defaults filter.Params
	switch typeID {
	case filter.TypeSlice:
		defaults = filter.DefaultSliceParams().Params()
	case filter.TypeClip:
		defaults = filter.DefaultClipParams().Params()
	case filter.TypeContour:
		defaults = filter.DefaultContourParams().Params()
	default:
		defaults = filter.Params{}
	}
	for k, v := range args {
		if v != nil {
			defaults[k] = v
		}
	}
	return defaults
}

func (ts *AnalysisToolset) getFilterParams() Tool {
	return NewFunctionTool(
		"get_filter_params",
		"Get the parameters of the pipeline step at the given index as JSON.",
		indexSchema("Zero-based step index from get_pipeline_info"),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			i, err := argIndex(args)
			if err != nil {
				return nil, err
			}
			step, err := ts.pipeline.Step(i)
			if err != nil {
				return nil, err
			}
			data, err := json.Marshal(step.Params)
			if err != nil {
				return nil, fmt.Errorf("encode params: %w", err)
			}
			return fmt.Sprintf("Step %d (%s) parameters: %s", i, step.Name, data), nil
		},
	)
}

func (ts *AnalysisToolset) updateFilterParams() Tool {
	return NewFunctionTool(
		"update_filter_params",
		"Update the parameters of the pipeline step at the given index and re-apply its filter. "+
			"Downstream steps are invalidated and recomputed. Only pass the parameters to change.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"index": map[string]any{
					"type":        "integer",
					"description": "Zero-based step index from get_pipeline_info",
				},
				"params": map[string]any{
					"type":        "object",
					"description": "Parameter overrides, e.g. {\"offsets\": [0.5]}",
				},
			},
			"required": []string{"index", "params"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			i, err := argIndex(args)
			if err != nil {
				return nil, err
			}
			overrides, ok := args["params"].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("params must be an object")
			}
			step, err := ts.pipeline.Step(i)
			if err != nil {
				return nil, err
			}
			params := step.Params.Clone()
			for k, v := range overrides {
				params[k] = v
			}
			if err := ts.pipeline.Update(i, params); err != nil {
				return nil, err
			}
			if err := ts.pipeline.Recompute(); err != nil {
				return nil, fmt.Errorf("downstream recompute failed: %w", err)
			}
			return fmt.Sprintf("Updated step %d (%s). Result: %d points, %d cells.",
				i, step.Name, step.Data.NumPoints(), step.Data.NumCells()), nil
		},
	)
}

func (ts *AnalysisToolset) commitFilter() Tool {
	return NewFunctionTool(
		"commit_filter",
		"Commit the pipeline step at the given index, pinning its output as the input for "+
			"subsequently applied filters. Call this after applying a filter to chain on top of it.",
		indexSchema("Zero-based step index from get_pipeline_info"),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			i, err := argIndex(args)
			if err != nil {
				return nil, err
			}
			if err := ts.pipeline.Commit(i); err != nil {
				return nil, err
			}
			step, _ := ts.pipeline.Step(i)
			return fmt.Sprintf("Committed step %d (%s); new filters will consume its output.", i, step.Name), nil
		},
	)
}

func (ts *AnalysisToolset) renderSnapshot() Tool {
	return NewFunctionTool(
		"render_snapshot",
		"Render the currently selected step (or the root dataset when nothing is selected) "+
			"to a PNG image and store it as a session artifact. Returns the artifact id.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"artifact_id": map[string]any{
					"type":        "string",
					"description": "Artifact name; defaults to snapshot.png",
				},
			},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			id, _ := args["artifact_id"].(string)
			if id == "" {
				id = "snapshot.png"
			}

			var r *render.Renderable
			if sel := ts.pipeline.Selected(); sel != nil {
				if !sel.Valid {
					return nil, fmt.Errorf("selected step %q is invalidated; recompute first", sel.Name)
				}
				r = sel.Renderable
			}
			if r == nil {
				var err error
				r, err = render.New(ts.pipeline.Root(), ts.renderOpts)
				if err != nil {
					return nil, fmt.Errorf("render root dataset: %w", err)
				}
			}

			var buf bytes.Buffer
			if err := r.EncodePNG(&buf); err != nil {
				return nil, fmt.Errorf("encode snapshot: %w", err)
			}
			if err := tc.SaveArtifact(id, buf.Bytes()); err != nil {
				return nil, fmt.Errorf("save snapshot artifact: %w", err)
			}
			return fmt.Sprintf("Snapshot saved as artifact %q (%d bytes).", id, buf.Len()), nil
		},
	)
}

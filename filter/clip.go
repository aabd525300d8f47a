package filter

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// TypeClip is the registry identifier of the clip filter.
const TypeClip = "clip_filter"

// ClipParams are the typed parameters of the clip filter.
type ClipParams struct {
	Origin      dataset.Vec3
	Normal      dataset.Vec3
	ShowPreview bool
}

// DefaultClipParams returns the clip defaults: keep the +X half-space.
func DefaultClipParams() ClipParams {
	return ClipParams{
		Normal:      dataset.Vec3{1, 0, 0},
		ShowPreview: true,
	}
}

// ClipParamsFrom reads the flat form with defaults for missing keys.
func ClipParamsFrom(p Params) ClipParams {
	def := DefaultClipParams()
	return ClipParams{
		Origin:      p.Vec3("origin", def.Origin),
		Normal:      p.Vec3("normal", def.Normal),
		ShowPreview: p.Bool("show_preview", def.ShowPreview),
	}
}

// Params converts to the flat persistence form.
func (cp ClipParams) Params() Params {
	return Params{
		"origin":       []float64{cp.Origin[0], cp.Origin[1], cp.Origin[2]},
		"normal":       []float64{cp.Normal[0], cp.Normal[1], cp.Normal[2]},
		"show_preview": cp.ShowPreview,
	}
}

// ClipFilter removes the part of the dataset on the negative side of a
// plane.
type ClipFilter struct{}

// NewClipFilter constructs a clip filter instance.
func NewClipFilter() *ClipFilter { return &ClipFilter{} }

// FilterType implements Filter.
func (f *ClipFilter) FilterType() string { return TypeClip }

// DisplayName implements Filter.
func (f *ClipFilter) DisplayName() string { return "Clip" }

// DefaultParams implements Filter.
func (f *ClipFilter) DefaultParams() Params { return DefaultClipParams().Params() }

// Apply implements Filter.
func (f *ClipFilter) Apply(input *dataset.Dataset, p Params) (*render.Renderable, *dataset.Dataset, error) {
	cp := ClipParamsFrom(p)
	out, err := engine.Clip(input, cp.Origin, cp.Normal)
	if err != nil {
		return nil, nil, applicationError(TypeClip, err)
	}

	opts := render.DefaultOptions()
	opts.Style = render.StyleSurfaceWithEdges
	renderable, err := render.New(out, opts)
	if err != nil {
		return nil, nil, applicationError(TypeClip, err)
	}
	return renderable, out, nil
}

// ParamsWidget implements WidgetProvider.
func (f *ClipFilter) ParamsWidget(defaults Params, bounds [6]float64) (Widget, bool) {
	cp := ClipParamsFrom(defaults)
	return Widget{
		Title: "Filter Parameters",
		Fields: []WidgetField{
			{Name: "show_preview", Label: "Show Plane", Kind: FieldBool, Default: cp.ShowPreview},
			{Name: "origin", Label: "Origin", Kind: FieldVec3, Default: cp.Origin},
			{Name: "normal", Label: "Normal", Kind: FieldVec3, Default: cp.Normal, Min: -1, Max: 1},
		},
	}, true
}

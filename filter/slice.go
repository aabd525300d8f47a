package filter

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// TypeSlice is the registry identifier of the slice filter.
const TypeSlice = "slice_filter"

// SliceParams are the typed parameters of the slice filter.
type SliceParams struct {
	Origin      dataset.Vec3
	Normal      dataset.Vec3
	Offsets     []float64
	ShowPreview bool // Show the interactive plane in editing front-ends
}

// DefaultSliceParams returns the slice defaults: a YZ plane through the
// origin with a single zero offset.
func DefaultSliceParams() SliceParams {
	return SliceParams{
		Normal:      dataset.Vec3{1, 0, 0},
		Offsets:     []float64{0},
		ShowPreview: true,
	}
}

// SliceParamsFrom reads the flat form, falling back to defaults for missing
// keys and ignoring unknown ones.
func SliceParamsFrom(p Params) SliceParams {
	def := DefaultSliceParams()
	return SliceParams{
		Origin:      p.Vec3("origin", def.Origin),
		Normal:      p.Vec3("normal", def.Normal),
		Offsets:     p.Floats("offsets", def.Offsets),
		ShowPreview: p.Bool("show_preview", def.ShowPreview),
	}
}

// Params converts to the flat persistence form.
func (sp SliceParams) Params() Params {
	return Params{
		"origin":       []float64{sp.Origin[0], sp.Origin[1], sp.Origin[2]},
		"normal":       []float64{sp.Normal[0], sp.Normal[1], sp.Normal[2]},
		"offsets":      append([]float64(nil), sp.Offsets...),
		"show_preview": sp.ShowPreview,
	}
}

// SliceFilter cuts a dataset along a plane, producing the intersection
// geometry rendered as white line work (the cut has no surface of its own).
type SliceFilter struct{}

// NewSliceFilter constructs a slice filter instance.
func NewSliceFilter() *SliceFilter { return &SliceFilter{} }

// FilterType implements Filter.
func (f *SliceFilter) FilterType() string { return TypeSlice }

// DisplayName implements Filter.
func (f *SliceFilter) DisplayName() string { return "Slice" }

// DefaultParams implements Filter.
func (f *SliceFilter) DefaultParams() Params { return DefaultSliceParams().Params() }

// Apply implements Filter.
func (f *SliceFilter) Apply(input *dataset.Dataset, p Params) (*render.Renderable, *dataset.Dataset, error) {
	sp := SliceParamsFrom(p)
	out, err := engine.Slice(input, sp.Origin, sp.Normal, sp.Offsets)
	if err != nil {
		return nil, nil, applicationError(TypeSlice, err)
	}

	opts := render.DefaultOptions()
	opts.Style = render.StyleWireframe
	opts.Color = render.Color{1, 1, 1}
	renderable, err := render.New(out, opts)
	if err != nil {
		return nil, nil, applicationError(TypeSlice, err)
	}
	return renderable, out, nil
}

// ParamsWidget implements WidgetProvider.
func (f *SliceFilter) ParamsWidget(defaults Params, bounds [6]float64) (Widget, bool) {
	sp := SliceParamsFrom(defaults)
	return Widget{
		Title: "Filter Parameters",
		Fields: []WidgetField{
			{Name: "show_preview", Label: "Show Plane", Kind: FieldBool, Default: sp.ShowPreview},
			{Name: "origin", Label: "Origin", Kind: FieldVec3, Default: sp.Origin},
			{Name: "normal", Label: "Normal", Kind: FieldVec3, Default: sp.Normal, Min: -1, Max: 1},
			{Name: "offsets", Label: "Slice Offsets", Kind: FieldFloatList, Default: sp.Offsets,
				Min: offsetRange(bounds, sp.Origin, sp.Normal, false),
				Max: offsetRange(bounds, sp.Origin, sp.Normal, true)},
		},
	}, true
}

// offsetRange projects the bounding box corners onto the plane normal to
// bound the useful offset range shown in editors.
func offsetRange(bounds [6]float64, origin, normal dataset.Vec3, max bool) float64 {
	unit, ok := normal.Normalized()
	if !ok {
		return 0
	}
	var lo, hi float64
	first := true
	for _, x := range bounds[0:2] {
		for _, y := range bounds[2:4] {
			for _, z := range bounds[4:6] {
				d := dataset.Vec3{x, y, z}.Sub(origin).Dot(unit)
				if first {
					lo, hi = d, d
					first = false
					continue
				}
				if d < lo {
					lo = d
				}
				if d > hi {
					hi = d
				}
			}
		}
	}
	if max {
		return hi
	}
	return lo
}

package filter

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// TypeContour is the registry identifier of the contour filter.
const TypeContour = "contour_filter"

// ContourParams are the typed parameters of the contour filter.
type ContourParams struct {
	Values    []float64
	ArrayName string // Scalar field to contour; "" means the active array
}

// DefaultContourParams returns the contour defaults: the 0.5 iso-level of
// the active scalar field.
func DefaultContourParams() ContourParams {
	return ContourParams{Values: []float64{0.5}}
}

// ContourParamsFrom reads the flat form with defaults for missing keys.
func ContourParamsFrom(p Params) ContourParams {
	def := DefaultContourParams()
	return ContourParams{
		Values:    p.Floats("values", def.Values),
		ArrayName: p.String("array_name", def.ArrayName),
	}
}

// Params converts to the flat persistence form.
func (cp ContourParams) Params() Params {
	return Params{
		"values":     append([]float64(nil), cp.Values...),
		"array_name": cp.ArrayName,
	}
}

// ContourFilter extracts iso-surfaces of a scalar field. A dataset without
// the requested field fails with engine.MissingScalarFieldError wrapped in
// an ApplicationError.
type ContourFilter struct{}

// NewContourFilter constructs a contour filter instance.
func NewContourFilter() *ContourFilter { return &ContourFilter{} }

// FilterType implements Filter.
func (f *ContourFilter) FilterType() string { return TypeContour }

// DisplayName implements Filter.
func (f *ContourFilter) DisplayName() string { return "Contour" }

// DefaultParams implements Filter.
func (f *ContourFilter) DefaultParams() Params { return DefaultContourParams().Params() }

// Apply implements Filter.
func (f *ContourFilter) Apply(input *dataset.Dataset, p Params) (*render.Renderable, *dataset.Dataset, error) {
	cp := ContourParamsFrom(p)
	out, err := engine.Contour(input, cp.Values, cp.ArrayName)
	if err != nil {
		return nil, nil, applicationError(TypeContour, err)
	}

	renderable, err := render.New(out, render.DefaultOptions())
	if err != nil {
		return nil, nil, applicationError(TypeContour, err)
	}
	return renderable, out, nil
}

// ParamsWidget implements WidgetProvider.
func (f *ContourFilter) ParamsWidget(defaults Params, bounds [6]float64) (Widget, bool) {
	cp := ContourParamsFrom(defaults)
	return Widget{
		Title: "Filter Parameters",
		Fields: []WidgetField{
			{Name: "values", Label: "Isovalues", Kind: FieldFloatList, Default: cp.Values},
			{Name: "array_name", Label: "Scalar Array", Kind: FieldChoice, Default: cp.ArrayName},
		},
	}, true
}

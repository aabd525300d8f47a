package filter

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
	"github.com/shingyusik/scientific-analysis-agent/render"
)

// TypeElevation is the registry identifier of the elevation filter.
const TypeElevation = "elevation_filter"

// ElevationParams are the typed parameters of the elevation filter. Zero
// Low/High means "span the input's bounding box", resolved at apply time.
type ElevationParams struct {
	Low  dataset.Vec3
	High dataset.Vec3
}

// DefaultElevationParams returns the elevation defaults.
func DefaultElevationParams() ElevationParams { return ElevationParams{} }

// ElevationParamsFrom reads the flat form with defaults for missing keys.
func ElevationParamsFrom(p Params) ElevationParams {
	def := DefaultElevationParams()
	return ElevationParams{
		Low:  p.Vec3("low", def.Low),
		High: p.Vec3("high", def.High),
	}
}

// Params converts to the flat persistence form.
func (ep ElevationParams) Params() Params {
	return Params{
		"low":  []float64{ep.Low[0], ep.Low[1], ep.Low[2]},
		"high": []float64{ep.High[0], ep.High[1], ep.High[2]},
	}
}

// ElevationFilter attaches a normalized elevation scalar, giving scalar-less
// meshes a field to contour and color by.
type ElevationFilter struct{}

// NewElevationFilter constructs an elevation filter instance.
func NewElevationFilter() *ElevationFilter { return &ElevationFilter{} }

// FilterType implements Filter.
func (f *ElevationFilter) FilterType() string { return TypeElevation }

// DisplayName implements Filter.
func (f *ElevationFilter) DisplayName() string { return "Elevation" }

// DefaultParams implements Filter.
func (f *ElevationFilter) DefaultParams() Params { return DefaultElevationParams().Params() }

// Apply implements Filter.
func (f *ElevationFilter) Apply(input *dataset.Dataset, p Params) (*render.Renderable, *dataset.Dataset, error) {
	ep := ElevationParamsFrom(p)

	if ep.Low == ep.High {
		if input.IsEmpty() {
			return nil, nil, applicationError(TypeElevation, engine.ErrEmptyDataset)
		}
		b := input.Bounds()
		ep.Low = dataset.Vec3{b[0], b[2], b[4]}
		ep.High = dataset.Vec3{b[1], b[3], b[5]}
	}

	out, err := engine.Elevation(input, ep.Low, ep.High)
	if err != nil {
		return nil, nil, applicationError(TypeElevation, err)
	}

	renderable, err := render.New(out, render.DefaultOptions())
	if err != nil {
		return nil, nil, applicationError(TypeElevation, err)
	}
	return renderable, out, nil
}

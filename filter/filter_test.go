package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/engine"
)

// -------------------- Registry --------------------

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(TypeSlice, func() Filter { return NewSliceFilter() }))

	ctor, err := r.Resolve(TypeSlice)
	require.NoError(t, err)
	assert.Equal(t, TypeSlice, ctor().FilterType())
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	ctor := func() Filter { return NewSliceFilter() }
	require.NoError(t, r.Register(TypeSlice, ctor))

	err := r.Register(TypeSlice, ctor)
	require.Error(t, err)

	var dup *DuplicateFilterError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, TypeSlice, dup.Type)
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("warp_filter")
	require.Error(t, err)

	var unknown *UnknownFilterError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "warp_filter", unknown.Type)
}

func TestRegistryTypeMismatch(t *testing.T) {
	r := NewRegistry()
	err := r.Register("other_filter", func() Filter { return NewSliceFilter() })
	assert.Error(t, err)
}

func TestRegistryListOrder(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{TypeSlice, TypeClip, TypeContour, TypeElevation}, r.Types())

	list := r.List()
	require.Len(t, list, 4)
	assert.Equal(t, "Slice", list[0].DisplayName)
	assert.NotEmpty(t, list[0].Defaults)
}

// -------------------- Params --------------------

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"origin":  []float64{1, 2, 3},
		"normal":  []any{0.0, 0.0, 1.0}, // JSON-decoded shape
		"offsets": []any{-0.5, 0.5},
		"flag":    true,
		"name":    "Elevation",
		"value":   0.25,
	}

	assert.Equal(t, dataset.Vec3{1, 2, 3}, p.Vec3("origin", dataset.Vec3{}))
	assert.Equal(t, dataset.Vec3{0, 0, 1}, p.Vec3("normal", dataset.Vec3{}))
	assert.Equal(t, []float64{-0.5, 0.5}, p.Floats("offsets", nil))
	assert.True(t, p.Bool("flag", false))
	assert.Equal(t, "Elevation", p.String("name", ""))
	assert.Equal(t, 0.25, p.Float("value", 0))

	// Missing keys fall back
	assert.Equal(t, dataset.Vec3{9, 9, 9}, p.Vec3("missing", dataset.Vec3{9, 9, 9}))
	assert.Equal(t, 7.0, p.Float("missing", 7))
}

func TestParamsClone(t *testing.T) {
	p := Params{"offsets": []float64{1, 2}}
	c := p.Clone()
	c["offsets"].([]float64)[0] = 99
	c["extra"] = true

	assert.Equal(t, 1.0, p["offsets"].([]float64)[0])
	assert.NotContains(t, p, "extra")
}

func TestSliceParamsRoundTrip(t *testing.T) {
	sp := DefaultSliceParams()
	got := SliceParamsFrom(sp.Params())
	assert.Equal(t, sp, got)

	// Defaults fill missing keys
	got = SliceParamsFrom(Params{})
	assert.Equal(t, DefaultSliceParams(), got)
}

// -------------------- Filters --------------------

func TestSliceFilterApply(t *testing.T) {
	f := NewSliceFilter()
	cone := dataset.Cone(16)

	renderable, out, err := f.Apply(cone, f.DefaultParams())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.False(t, out.IsEmpty())
	require.NotNil(t, renderable)
	assert.False(t, renderable.Empty())
}

func TestSliceFilterDegenerateNormal(t *testing.T) {
	f := NewSliceFilter()
	params := f.DefaultParams()
	params["normal"] = []float64{0, 0, 0}

	_, _, err := f.Apply(dataset.Cone(8), params)
	require.Error(t, err)

	var appErr *ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, TypeSlice, appErr.Filter)
	assert.ErrorIs(t, err, engine.ErrDegenerateNormal)
}

func TestClipFilterApply(t *testing.T) {
	f := NewClipFilter()
	params := f.DefaultParams()
	params["origin"] = []float64{-2, 0, 0}

	_, out, err := f.Apply(dataset.Cone(8), params)
	require.NoError(t, err)
	assert.Equal(t, dataset.Cone(8).NumCells(), out.NumCells())
}

func TestContourFilterApply(t *testing.T) {
	f := NewContourFilter()
	cone := dataset.Cone(16)

	_, out, err := f.Apply(cone, f.DefaultParams())
	require.NoError(t, err)
	assert.False(t, out.IsEmpty())
}

func TestContourFilterMissingArray(t *testing.T) {
	f := NewContourFilter()
	params := f.DefaultParams()
	params["array_name"] = "Pressure"

	_, _, err := f.Apply(dataset.Cone(8), params)
	require.Error(t, err)

	var appErr *ApplicationError
	require.True(t, errors.As(err, &appErr))
	var missing *engine.MissingScalarFieldError
	assert.True(t, errors.As(err, &missing))
}

func TestElevationFilterApply(t *testing.T) {
	f := NewElevationFilter()
	cone := dataset.Cone(8)

	_, out, err := f.Apply(cone, f.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Elevation", out.ActiveScalarName())
	assert.Equal(t, cone.NumPoints(), out.NumPoints())
}

// -------------------- Widgets --------------------

func TestSliceParamsWidget(t *testing.T) {
	f := NewSliceFilter()
	bounds := [6]float64{-1.5, 1.5, -1, 1, -1, 1}

	w, ok := f.ParamsWidget(f.DefaultParams(), bounds)
	require.True(t, ok)
	assert.Equal(t, "Filter Parameters", w.Title)

	var offsets *WidgetField
	for i := range w.Fields {
		if w.Fields[i].Name == "offsets" {
			offsets = &w.Fields[i]
		}
	}
	require.NotNil(t, offsets)
	// Range spans the bounding box projected onto the x normal
	assert.InDelta(t, -1.5, offsets.Min, 1e-12)
	assert.InDelta(t, 1.5, offsets.Max, 1e-12)
}

func TestElevationFilterHasNoWidget(t *testing.T) {
	var f Filter = NewElevationFilter()
	_, isProvider := f.(WidgetProvider)
	assert.False(t, isProvider)
}

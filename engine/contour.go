package engine

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// Contour extracts the iso-surface (iso-lines for surface meshes) of a point
// scalar field at each of the given values. arrayName selects the field; an
// empty name means the dataset's active scalars. A dataset without the
// requested field fails with *MissingScalarFieldError before any geometry
// work.
func Contour(ds *dataset.Dataset, values []float64, arrayName string) (*dataset.Dataset, error) {
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}

	var scalars []float64
	if arrayName != "" {
		s, ok := ds.PointScalars(arrayName)
		if !ok {
			return nil, &MissingScalarFieldError{Requested: arrayName, Available: ds.PointArrayNames()}
		}
		scalars = s
	} else {
		s, ok := ds.ActiveScalars()
		if !ok {
			return nil, &MissingScalarFieldError{Available: ds.PointArrayNames()}
		}
		scalars = s
	}

	if len(values) == 0 {
		values = []float64{0}
	}

	var out *dataset.Dataset
	field := make([]float64, len(scalars))
	for _, value := range values {
		for i, s := range scalars {
			field[i] = s - value
		}
		out = merge(out, cutByField(ds, field))
	}
	return out, nil
}

// Elevation attaches an "Elevation" point scalar ramping from 0 at low to 1
// at high (projection onto the low-high axis, clamped) and makes it the
// active array. The input is not modified.
func Elevation(ds *dataset.Dataset, low, high dataset.Vec3) (*dataset.Dataset, error) {
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}
	axis := high.Sub(low)
	lenSq := axis.Dot(axis)
	if lenSq == 0 {
		return nil, ErrDegenerateNormal
	}

	out := ds.Clone()
	elevation := make([]float64, out.NumPoints())
	for i, p := range out.Points {
		t := p.Sub(low).Dot(axis) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		elevation[i] = t
	}
	_ = out.AddPointScalars("Elevation", elevation)
	_ = out.SetActiveScalars("Elevation")
	return out, nil
}

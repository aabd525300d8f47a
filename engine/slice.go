package engine

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// Slice cuts the dataset with the plane defined by origin and normal and
// returns the intersection geometry. Each entry in offsets shifts the plane
// along its normal and contributes one cut; nil or empty offsets mean a
// single cut through the origin. Active point scalars are interpolated onto
// the cut.
func Slice(ds *dataset.Dataset, origin, normal dataset.Vec3, offsets []float64) (*dataset.Dataset, error) {
	unit, ok := normal.Normalized()
	if !ok {
		return nil, ErrDegenerateNormal
	}
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}
	if len(offsets) == 0 {
		offsets = []float64{0}
	}

	var out *dataset.Dataset
	field := make([]float64, ds.NumPoints())
	for _, offset := range offsets {
		shifted := origin.Add(unit.Scale(offset))
		for i, p := range ds.Points {
			field[i] = p.Sub(shifted).Dot(unit)
		}
		out = merge(out, cutByField(ds, field))
	}
	return out, nil
}

// Clip removes the geometry on the negative side of the plane defined by
// origin and normal. Cells are kept whole: a cell survives only when all of
// its points lie on the non-negative side. Point and cell arrays are carried
// over for the surviving geometry.
func Clip(ds *dataset.Dataset, origin, normal dataset.Vec3) (*dataset.Dataset, error) {
	unit, ok := normal.Normalized()
	if !ok {
		return nil, ErrDegenerateNormal
	}
	if ds.IsEmpty() {
		return nil, ErrEmptyDataset
	}

	keepPoint := make([]bool, ds.NumPoints())
	for i, p := range ds.Points {
		keepPoint[i] = p.Sub(origin).Dot(unit) >= 0
	}

	out := dataset.New()
	remap := make([]int, ds.NumPoints())
	for i := range remap {
		remap[i] = -1
	}

	var keptCells []int
	for ci, cell := range ds.Cells {
		all := true
		for _, p := range cell.Points {
			if !keepPoint[p] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		pts := make([]int, len(cell.Points))
		for i, p := range cell.Points {
			if remap[p] < 0 {
				remap[p] = len(out.Points)
				out.Points = append(out.Points, ds.Points[p])
			}
			pts[i] = remap[p]
		}
		out.Cells = append(out.Cells, dataset.Cell{Type: cell.Type, Points: pts})
		keptCells = append(keptCells, ci)
	}

	for _, name := range ds.PointArrayNames() {
		src, _ := ds.PointScalars(name)
		values := make([]float64, len(out.Points))
		for old, idx := range remap {
			if idx >= 0 {
				values[idx] = src[old]
			}
		}
		_ = out.AddPointScalars(name, values)
	}
	for _, name := range ds.CellArrayNames() {
		src, _ := ds.CellScalars(name)
		values := make([]float64, len(keptCells))
		for i, ci := range keptCells {
			values[i] = src[ci]
		}
		_ = out.AddCellScalars(name, values)
	}
	if active := ds.ActiveScalarName(); active != "" {
		_ = out.SetActiveScalars(active)
	}
	return out, nil
}

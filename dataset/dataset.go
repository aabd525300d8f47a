// Package dataset holds the in-memory mesh model shared by the engine,
// filters and renderer: points, typed cells and named scalar arrays. Filters
// treat datasets as immutable and always produce new instances.
package dataset

import (
	"fmt"
	"math"
)

// CellType identifies the shape of a cell.
type CellType uint8

// Supported cell shapes. The engine decomposes quads and hexahedra into
// simplices before cutting, so these six cover all loader output.
const (
	Vertex CellType = iota
	Line
	Triangle
	Quad
	Tetra
	Hexahedron
)

// String returns the lowercase name of the cell type.
func (t CellType) String() string {
	switch t {
	case Vertex:
		return "vertex"
	case Line:
		return "line"
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	case Tetra:
		return "tetra"
	case Hexahedron:
		return "hexahedron"
	default:
		return "unknown"
	}
}

// PointCount returns the number of points a cell of this type references.
func (t CellType) PointCount() int {
	switch t {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Tetra:
		return 4
	case Hexahedron:
		return 8
	default:
		return 0
	}
}

// Cell references points of its dataset by index.
type Cell struct {
	Type   CellType
	Points []int
}

// Dataset is a mesh: points, cells and named scalar arrays attached to
// points or cells. One point array may be marked active; contouring and
// scalar coloring operate on the active array.
type Dataset struct {
	Points []Vec3
	Cells  []Cell

	pointData  map[string][]float64
	pointOrder []string
	cellData   map[string][]float64
	cellOrder  []string
	active     string
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		pointData: map[string][]float64{},
		cellData:  map[string][]float64{},
	}
}

// NumPoints returns the number of points.
func (d *Dataset) NumPoints() int { return len(d.Points) }

// NumCells returns the number of cells.
func (d *Dataset) NumCells() int { return len(d.Cells) }

// IsEmpty reports whether the dataset has no geometry at all.
func (d *Dataset) IsEmpty() bool { return d == nil || len(d.Points) == 0 }

// AddPointScalars attaches a named per-point scalar array. The array length
// must match the point count. The first array added becomes active.
func (d *Dataset) AddPointScalars(name string, values []float64) error {
	if len(values) != len(d.Points) {
		return fmt.Errorf("point array %q has %d values for %d points", name, len(values), len(d.Points))
	}
	if _, exists := d.pointData[name]; !exists {
		d.pointOrder = append(d.pointOrder, name)
	}
	d.pointData[name] = values
	if d.active == "" {
		d.active = name
	}
	return nil
}

// AddCellScalars attaches a named per-cell scalar array.
func (d *Dataset) AddCellScalars(name string, values []float64) error {
	if len(values) != len(d.Cells) {
		return fmt.Errorf("cell array %q has %d values for %d cells", name, len(values), len(d.Cells))
	}
	if _, exists := d.cellData[name]; !exists {
		d.cellOrder = append(d.cellOrder, name)
	}
	d.cellData[name] = values
	return nil
}

// PointScalars returns the named per-point array.
func (d *Dataset) PointScalars(name string) ([]float64, bool) {
	v, ok := d.pointData[name]
	return v, ok
}

// CellScalars returns the named per-cell array.
func (d *Dataset) CellScalars(name string) ([]float64, bool) {
	v, ok := d.cellData[name]
	return v, ok
}

// PointArrayNames lists point arrays in the order they were added.
func (d *Dataset) PointArrayNames() []string {
	names := make([]string, len(d.pointOrder))
	copy(names, d.pointOrder)
	return names
}

// CellArrayNames lists cell arrays in the order they were added.
func (d *Dataset) CellArrayNames() []string {
	names := make([]string, len(d.cellOrder))
	copy(names, d.cellOrder)
	return names
}

// SetActiveScalars marks a point array as the active scalar field.
func (d *Dataset) SetActiveScalars(name string) error {
	if _, ok := d.pointData[name]; !ok {
		return fmt.Errorf("no point array named %q", name)
	}
	d.active = name
	return nil
}

// ActiveScalarName returns the name of the active point array, or "" when
// the dataset has none.
func (d *Dataset) ActiveScalarName() string {
	if d == nil {
		return ""
	}
	return d.active
}

// ActiveScalars returns the active point scalar array.
func (d *Dataset) ActiveScalars() ([]float64, bool) {
	if d == nil || d.active == "" {
		return nil, false
	}
	v, ok := d.pointData[d.active]
	return v, ok
}

// ScalarRange returns the min and max of the named point array.
func (d *Dataset) ScalarRange(name string) (lo, hi float64, ok bool) {
	values, exists := d.pointData[name]
	if !exists || len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}

// Bounds returns the axis-aligned bounding box as
// [xmin, xmax, ymin, ymax, zmin, zmax]. An empty dataset yields all zeros.
func (d *Dataset) Bounds() [6]float64 {
	var b [6]float64
	if d.IsEmpty() {
		return b
	}
	p := d.Points[0]
	b = [6]float64{p[0], p[0], p[1], p[1], p[2], p[2]}
	for _, p := range d.Points[1:] {
		for axis := 0; axis < 3; axis++ {
			b[2*axis] = math.Min(b[2*axis], p[axis])
			b[2*axis+1] = math.Max(b[2*axis+1], p[axis])
		}
	}
	return b
}

// Center returns the center of the bounding box.
func (d *Dataset) Center() Vec3 {
	b := d.Bounds()
	return Vec3{(b[0] + b[1]) / 2, (b[2] + b[3]) / 2, (b[4] + b[5]) / 2}
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := New()
	out.Points = make([]Vec3, len(d.Points))
	copy(out.Points, d.Points)
	out.Cells = make([]Cell, len(d.Cells))
	for i, c := range d.Cells {
		pts := make([]int, len(c.Points))
		copy(pts, c.Points)
		out.Cells[i] = Cell{Type: c.Type, Points: pts}
	}
	for _, name := range d.pointOrder {
		values := make([]float64, len(d.pointData[name]))
		copy(values, d.pointData[name])
		out.pointData[name] = values
		out.pointOrder = append(out.pointOrder, name)
	}
	for _, name := range d.cellOrder {
		values := make([]float64, len(d.cellData[name]))
		copy(values, d.cellData[name])
		out.cellData[name] = values
		out.cellOrder = append(out.cellOrder, name)
	}
	out.active = d.active
	return out
}

package engine

import (
	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// Slicing and contouring share one mechanism: intersect the mesh with the
// zero level set of a per-point scalar field. For a slice the field is the
// signed distance to the plane; for a contour it is the active scalar minus
// the isovalue. Cells are decomposed into simplices first, then each simplex
// is cut by linear interpolation along its crossing edges:
//
//	line     -> vertex
//	triangle -> line segment
//	tetra    -> triangle or quad (emitted as two triangles)

// decompose splits a cell into simplices, each expressed as point indices of
// the owning dataset.
func decompose(c dataset.Cell) [][]int {
	p := c.Points
	switch c.Type {
	case dataset.Vertex, dataset.Line, dataset.Triangle, dataset.Tetra:
		return [][]int{p}
	case dataset.Quad:
		return [][]int{{p[0], p[1], p[2]}, {p[0], p[2], p[3]}}
	case dataset.Hexahedron:
		// Standard 5-tetra split of a hexahedron in VTK point order.
		return [][]int{
			{p[0], p[1], p[3], p[4]},
			{p[1], p[2], p[3], p[6]},
			{p[1], p[3], p[4], p[6]},
			{p[1], p[4], p[5], p[6]},
			{p[3], p[4], p[6], p[7]},
		}
	default:
		return nil
	}
}

// edgeKey identifies an undirected mesh edge for interpolation dedup.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// cutter accumulates the output of one level-set cut.
type cutter struct {
	in    *dataset.Dataset
	field []float64

	out       *dataset.Dataset
	edgePoint map[edgeKey]int
	arrays    map[string][]float64 // interpolated point arrays, parallel to out.Points
	names     []string
}

func newCutter(in *dataset.Dataset, field []float64) *cutter {
	c := &cutter{
		in:        in,
		field:     field,
		out:       dataset.New(),
		edgePoint: map[edgeKey]int{},
		arrays:    map[string][]float64{},
		names:     in.PointArrayNames(),
	}
	for _, name := range c.names {
		c.arrays[name] = nil
	}
	return c
}

// interp returns the output point index of the crossing on edge (a, b),
// creating it on first use.
func (c *cutter) interp(a, b int) int {
	key := newEdgeKey(a, b)
	if idx, ok := c.edgePoint[key]; ok {
		return idx
	}
	sa, sb := c.field[a], c.field[b]
	t := sa / (sa - sb)
	idx := len(c.out.Points)
	c.out.Points = append(c.out.Points, c.in.Points[a].Lerp(c.in.Points[b], t))
	for _, name := range c.names {
		src, _ := c.in.PointScalars(name)
		c.arrays[name] = append(c.arrays[name], src[a]+t*(src[b]-src[a]))
	}
	c.edgePoint[key] = idx
	return idx
}

func (c *cutter) addCell(t dataset.CellType, pts ...int) {
	c.out.Cells = append(c.out.Cells, dataset.Cell{Type: t, Points: pts})
}

// cutSimplex emits the intersection of one simplex with the zero level set.
// Vertices with field >= 0 count as the positive side, so simplices touching
// the level set only at a vertex produce nothing.
func (c *cutter) cutSimplex(pts []int) {
	var neg, pos []int
	for _, p := range pts {
		if c.field[p] < 0 {
			neg = append(neg, p)
		} else {
			pos = append(pos, p)
		}
	}
	if len(neg) == 0 || len(pos) == 0 {
		return
	}

	switch len(pts) {
	case 2:
		c.addCell(dataset.Vertex, c.interp(pts[0], pts[1]))
	case 3:
		// One vertex isolated on its side; two crossing edges.
		lone, pair := neg[0], pos
		if len(neg) == 2 {
			lone, pair = pos[0], neg
		}
		c.addCell(dataset.Line, c.interp(lone, pair[0]), c.interp(lone, pair[1]))
	case 4:
		if len(neg) == 2 { // 2-2 split: quad cross-section
			a0, a1 := neg[0], neg[1]
			b0, b1 := pos[0], pos[1]
			q0 := c.interp(a0, b0)
			q1 := c.interp(a0, b1)
			q2 := c.interp(a1, b1)
			q3 := c.interp(a1, b0)
			c.addCell(dataset.Triangle, q0, q1, q2)
			c.addCell(dataset.Triangle, q0, q2, q3)
			return
		}
		// 1-3 split: triangle cross-section.
		lone, rest := neg[0], pos
		if len(pos) == 1 {
			lone, rest = pos[0], neg
		}
		c.addCell(dataset.Triangle,
			c.interp(lone, rest[0]), c.interp(lone, rest[1]), c.interp(lone, rest[2]))
	}
}

// finish attaches interpolated arrays and returns the cut result.
func (c *cutter) finish() *dataset.Dataset {
	for _, name := range c.names {
		values := c.arrays[name]
		if values == nil {
			values = []float64{}
		}
		_ = c.out.AddPointScalars(name, values)
	}
	if active := c.in.ActiveScalarName(); active != "" {
		_ = c.out.SetActiveScalars(active)
	}
	return c.out
}

// cutByField intersects the whole dataset with the zero level set of field.
func cutByField(in *dataset.Dataset, field []float64) *dataset.Dataset {
	c := newCutter(in, field)
	for _, cell := range in.Cells {
		for _, simplex := range decompose(cell) {
			c.cutSimplex(simplex)
		}
	}
	return c.finish()
}

// merge appends src geometry and arrays onto dst, offsetting cell indices.
// Both sides must carry the same point arrays (true for repeated cuts of
// one input).
func merge(dst, src *dataset.Dataset) *dataset.Dataset {
	if dst == nil {
		return src
	}
	offset := dst.NumPoints()
	dst.Points = append(dst.Points, src.Points...)
	for _, cell := range src.Cells {
		pts := make([]int, len(cell.Points))
		for i, p := range cell.Points {
			pts[i] = p + offset
		}
		dst.Cells = append(dst.Cells, dataset.Cell{Type: cell.Type, Points: pts})
	}
	for _, name := range dst.PointArrayNames() {
		dstValues, _ := dst.PointScalars(name)
		srcValues, _ := src.PointScalars(name)
		_ = dst.AddPointScalars(name, append(dstValues, srcValues...))
	}
	return dst
}

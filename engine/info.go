// Package engine implements the geometric operations behind the filter set:
// plane slicing, clipping, iso-contouring, elevation scalars and dataset
// inspection. All operations are stateless, synchronous and side-effect-free
// with respect to their input; every transform returns a new dataset.
// Arguments are validated before any geometry work so failures surface as
// typed errors rather than panics deep in the cut machinery.
package engine

import (
	"fmt"
	"strings"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// Info describes a dataset: counts, bounding box and attached arrays.
// HasData is the explicit "no data" marker; when false all other fields are
// zero values.
type Info struct {
	HasData       bool       `json:"has_data"`
	NumPoints     int        `json:"num_points"`
	NumCells      int        `json:"num_cells"`
	Bounds        [6]float64 `json:"bounds"` // xmin,xmax,ymin,ymax,zmin,zmax
	PointArrays   []string   `json:"point_arrays"`
	CellArrays    []string   `json:"cell_arrays"`
	ActiveScalars string     `json:"active_scalars,omitempty"`
}

// DataInfo inspects a dataset. A nil or empty handle yields the no-data
// marker; it never fails.
func DataInfo(ds *dataset.Dataset) Info {
	if ds == nil || ds.NumPoints() == 0 {
		return Info{}
	}
	return Info{
		HasData:       true,
		NumPoints:     ds.NumPoints(),
		NumCells:      ds.NumCells(),
		Bounds:        ds.Bounds(),
		PointArrays:   ds.PointArrayNames(),
		CellArrays:    ds.CellArrayNames(),
		ActiveScalars: ds.ActiveScalarName(),
	}
}

// String renders the info block shown in the properties panel and returned
// to the agent by the get_data_info tool.
func (i Info) String() string {
	if !i.HasData {
		return "No data"
	}
	lines := []string{
		fmt.Sprintf("Number of Points: %d", i.NumPoints),
		fmt.Sprintf("Number of Cells: %d", i.NumCells),
		fmt.Sprintf("Bounds: X[%.4g, %.4g] Y[%.4g, %.4g] Z[%.4g, %.4g]",
			i.Bounds[0], i.Bounds[1], i.Bounds[2], i.Bounds[3], i.Bounds[4], i.Bounds[5]),
		fmt.Sprintf("Point Arrays: %s", joinOrNone(i.PointArrays)),
		fmt.Sprintf("Cell Arrays: %s", joinOrNone(i.CellArrays)),
	}
	if i.ActiveScalars != "" {
		lines = append(lines, fmt.Sprintf("Active Scalars: %s", i.ActiveScalars))
	}
	return strings.Join(lines, "\n")
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

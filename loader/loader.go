// Package loader reads mesh files into datasets. Supported input is the
// legacy ASCII VTK format (unstructured grids and polydata) — enough to
// ingest the datasets the analysis filters operate on. Numbered file
// sequences are detected and loaded as time series.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// SupportedExtensions lists the file extensions the loader accepts.
var SupportedExtensions = map[string]bool{".vtk": true}

// IsSupported reports whether the file's extension is loadable.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads a mesh file and returns the dataset plus its display name (the
// base filename).
func Load(path string) (*dataset.Dataset, string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("file not found: %s", path)
	}
	if !IsSupported(path) {
		return nil, "", fmt.Errorf("unsupported format %q (supported: .vtk)", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	ds, err := parseLegacyVTK(f)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return ds, filepath.Base(path), nil
}

// Legacy VTK cell type codes for the shapes the dataset model supports.
var vtkCellTypes = map[int]dataset.CellType{
	1:  dataset.Vertex,
	3:  dataset.Line,
	5:  dataset.Triangle,
	9:  dataset.Quad,
	10: dataset.Tetra,
	12: dataset.Hexahedron,
}

type tokenReader struct {
	scanner *bufio.Scanner
}

func newTokenReader(f *os.File) *tokenReader {
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	s.Split(bufio.ScanWords)
	return &tokenReader{scanner: s}
}

func (r *tokenReader) next() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}

func (r *tokenReader) nextInt() (int, error) {
	tok, ok := r.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file, wanted integer")
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	return v, nil
}

func (r *tokenReader) nextFloat() (float64, error) {
	tok, ok := r.next()
	if !ok {
		return 0, fmt.Errorf("unexpected end of file, wanted number")
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", tok)
	}
	return v, nil
}

func parseLegacyVTK(f *os.File) (*dataset.Dataset, error) {
	// The header is line-oriented: magic comment, title, encoding, dataset
	// kind. Everything after is whitespace-separated tokens.
	lineScanner := bufio.NewScanner(f)
	var header []string
	for lineScanner.Scan() && len(header) < 4 {
		line := strings.TrimSpace(lineScanner.Text())
		if line == "" {
			continue
		}
		header = append(header, line)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("truncated header")
	}
	if !strings.HasPrefix(header[0], "# vtk DataFile") {
		return nil, fmt.Errorf("not a legacy VTK file")
	}
	if !strings.EqualFold(header[2], "ASCII") {
		return nil, fmt.Errorf("only ASCII encoding is supported, got %q", header[2])
	}
	kindFields := strings.Fields(header[3])
	if len(kindFields) != 2 || !strings.EqualFold(kindFields[0], "DATASET") {
		return nil, fmt.Errorf("malformed DATASET line %q", header[3])
	}
	kind := strings.ToUpper(kindFields[1])
	if kind != "UNSTRUCTURED_GRID" && kind != "POLYDATA" {
		return nil, fmt.Errorf("unsupported dataset kind %q", kind)
	}

	// Re-open positioning is awkward with a shared scanner; token-scan the
	// remainder of the already-open file via the line scanner's buffer is
	// not possible, so rewind past the four header lines manually.
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	r := newTokenReader(f)
	// Skip tokens until the dataset kind token has passed.
	for {
		tok, ok := r.next()
		if !ok {
			return nil, fmt.Errorf("truncated file")
		}
		if strings.EqualFold(tok, kind) {
			break
		}
	}

	ds := dataset.New()
	var rawCells [][]int

	for {
		section, ok := r.next()
		if !ok {
			break
		}
		switch strings.ToUpper(section) {
		case "POINTS":
			n, err := r.nextInt()
			if err != nil {
				return nil, err
			}
			if _, ok := r.next(); !ok { // data type token (float/double)
				return nil, fmt.Errorf("truncated POINTS section")
			}
			ds.Points = make([]dataset.Vec3, n)
			for i := 0; i < n; i++ {
				for axis := 0; axis < 3; axis++ {
					v, err := r.nextFloat()
					if err != nil {
						return nil, err
					}
					ds.Points[i][axis] = v
				}
			}

		case "CELLS", "POLYGONS", "LINES", "VERTICES":
			n, err := r.nextInt()
			if err != nil {
				return nil, err
			}
			if _, err := r.nextInt(); err != nil { // total token count
				return nil, err
			}
			conn := make([][]int, n)
			for i := 0; i < n; i++ {
				cnt, err := r.nextInt()
				if err != nil {
					return nil, err
				}
				pts := make([]int, cnt)
				for j := 0; j < cnt; j++ {
					if pts[j], err = r.nextInt(); err != nil {
						return nil, err
					}
				}
				conn[i] = pts
			}
			switch strings.ToUpper(section) {
			case "CELLS":
				rawCells = conn // cell types follow in CELL_TYPES
			case "POLYGONS":
				for _, pts := range conn {
					if err := appendPolygon(ds, pts); err != nil {
						return nil, err
					}
				}
			case "LINES":
				for _, pts := range conn {
					for i := 0; i+1 < len(pts); i++ {
						ds.Cells = append(ds.Cells, dataset.Cell{Type: dataset.Line, Points: []int{pts[i], pts[i+1]}})
					}
				}
			case "VERTICES":
				for _, pts := range conn {
					for _, p := range pts {
						ds.Cells = append(ds.Cells, dataset.Cell{Type: dataset.Vertex, Points: []int{p}})
					}
				}
			}

		case "CELL_TYPES":
			n, err := r.nextInt()
			if err != nil {
				return nil, err
			}
			if n != len(rawCells) {
				return nil, fmt.Errorf("CELL_TYPES count %d does not match CELLS count %d", n, len(rawCells))
			}
			for i := 0; i < n; i++ {
				code, err := r.nextInt()
				if err != nil {
					return nil, err
				}
				t, ok := vtkCellTypes[code]
				if !ok {
					return nil, fmt.Errorf("unsupported cell type code %d", code)
				}
				if t.PointCount() != len(rawCells[i]) {
					return nil, fmt.Errorf("cell %d: %s needs %d points, got %d", i, t, t.PointCount(), len(rawCells[i]))
				}
				ds.Cells = append(ds.Cells, dataset.Cell{Type: t, Points: rawCells[i]})
			}
			rawCells = nil

		case "POINT_DATA":
			if _, err := r.nextInt(); err != nil {
				return nil, err
			}
			if err := parseAttributes(r, ds, true); err != nil {
				return nil, err
			}

		case "CELL_DATA":
			if _, err := r.nextInt(); err != nil {
				return nil, err
			}
			if err := parseAttributes(r, ds, false); err != nil {
				return nil, err
			}
		}
	}

	if len(rawCells) > 0 {
		return nil, fmt.Errorf("CELLS section without CELL_TYPES")
	}
	return ds, nil
}

// appendPolygon triangulates polygons with more than four points as a fan.
func appendPolygon(ds *dataset.Dataset, pts []int) error {
	switch {
	case len(pts) < 3:
		return fmt.Errorf("polygon with %d points", len(pts))
	case len(pts) == 3:
		ds.Cells = append(ds.Cells, dataset.Cell{Type: dataset.Triangle, Points: pts})
	case len(pts) == 4:
		ds.Cells = append(ds.Cells, dataset.Cell{Type: dataset.Quad, Points: pts})
	default:
		for i := 1; i+1 < len(pts); i++ {
			ds.Cells = append(ds.Cells, dataset.Cell{
				Type:   dataset.Triangle,
				Points: []int{pts[0], pts[i], pts[i+1]},
			})
		}
	}
	return nil
}

// parseAttributes reads consecutive SCALARS blocks. The first unrecognized
// token ends the attribute section; since only SCALARS follow in supported
// files, anything else is treated as the next top-level section and pushed
// back by returning an error when it cannot be.
func parseAttributes(r *tokenReader, ds *dataset.Dataset, pointData bool) error {
	count := ds.NumPoints()
	if !pointData {
		count = ds.NumCells()
	}
	for {
		tok, ok := r.next()
		if !ok {
			return nil
		}
		if !strings.EqualFold(tok, "SCALARS") {
			// Hand the token back to the main loop by re-dispatching the
			// known section starts; unknown trailing tokens are ignored.
			return handleSection(r, ds, tok)
		}
		name, ok := r.next()
		if !ok {
			return fmt.Errorf("truncated SCALARS block")
		}
		if _, ok := r.next(); !ok { // data type
			return fmt.Errorf("truncated SCALARS block")
		}
		// Both the component count and the LOOKUP_TABLE line are optional;
		// legacy writers may jump straight to the values. A bare number after
		// the data type is indistinguishable from the first value, so a
		// leading count is honored only when a LOOKUP_TABLE follows it.
		pending := make([]string, 0, 2)
		tok, ok = r.next()
		if !ok {
			return fmt.Errorf("truncated SCALARS block")
		}
		if _, err := strconv.Atoi(tok); err == nil {
			next, nok := r.next()
			switch {
			case !nok:
				pending = append(pending, tok)
				tok = ""
			case strings.EqualFold(next, "LOOKUP_TABLE"):
				tok = next
			default:
				pending = append(pending, tok, next)
				tok = ""
			}
		}
		if strings.EqualFold(tok, "LOOKUP_TABLE") {
			if _, ok := r.next(); !ok { // table name
				return fmt.Errorf("truncated SCALARS block")
			}
		} else if tok != "" {
			pending = append(pending, tok)
		}

		values := make([]float64, count)
		for i := 0; i < count; i++ {
			var v float64
			var err error
			if len(pending) > 0 {
				v, err = strconv.ParseFloat(pending[0], 64)
				pending = pending[1:]
			} else {
				v, err = r.nextFloat()
			}
			if err != nil {
				return fmt.Errorf("malformed SCALARS block: %w", err)
			}
			values[i] = v
		}
		if pointData {
			if err := ds.AddPointScalars(name, values); err != nil {
				return err
			}
		} else {
			if err := ds.AddCellScalars(name, values); err != nil {
				return err
			}
		}
	}
}

// handleSection processes a section keyword encountered while scanning
// attributes (POINT_DATA after CELL_DATA or vice versa).
func handleSection(r *tokenReader, ds *dataset.Dataset, section string) error {
	switch strings.ToUpper(section) {
	case "POINT_DATA":
		if _, err := r.nextInt(); err != nil {
			return err
		}
		return parseAttributes(r, ds, true)
	case "CELL_DATA":
		if _, err := r.nextInt(); err != nil {
			return err
		}
		return parseAttributes(r, ds, false)
	default:
		return nil
	}
}

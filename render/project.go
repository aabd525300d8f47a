package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// The preview camera is a fixed isometric orthographic projection: points are
// projected onto the plane orthogonal to (1,1,1) and fitted to the canvas
// with a margin. Painter ordering uses mean view depth per cell, which is
// sufficient for previews.

var (
	sqrt3 = math.Sqrt(3)
	sqrt6 = math.Sqrt(6)

	viewRight = dataset.Vec3{1 / math.Sqrt2, -1 / math.Sqrt2, 0}
	viewUp    = dataset.Vec3{-1 / sqrt6, -1 / sqrt6, 2 / sqrt6}
	viewDir   = dataset.Vec3{-1 / sqrt3, -1 / sqrt3, -1 / sqrt3}
)

type projected struct {
	xy    [][2]float64
	depth []float64
}

func project(ds *dataset.Dataset, width, height int) projected {
	p := projected{
		xy:    make([][2]float64, len(ds.Points)),
		depth: make([]float64, len(ds.Points)),
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, pt := range ds.Points {
		x := pt.Dot(viewRight)
		y := pt.Dot(viewUp)
		p.xy[i] = [2]float64{x, y}
		p.depth[i] = pt.Dot(viewDir)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	const margin = 0.08
	spanX := maxX - minX
	spanY := maxY - minY
	span := math.Max(spanX, spanY)
	if span == 0 {
		span = 1
	}
	scale := math.Min(float64(width), float64(height)) * (1 - 2*margin) / span

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	for i := range p.xy {
		// Canvas y grows downward.
		p.xy[i][0] = float64(width)/2 + (p.xy[i][0]-cx)*scale
		p.xy[i][1] = float64(height)/2 - (p.xy[i][1]-cy)*scale
	}
	return p
}

// rampColor maps t in [0,1] through the blue-white-red ramp.
func rampColor(t float64) (r, g, b float64) {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		u := t * 2
		return u, u, 1
	}
	u := (t - 0.5) * 2
	return 1, 1 - u, 1 - u
}

func drawDataset(ctx *gg.Context, ds *dataset.Dataset, opts Options) (int, error) {
	proj := project(ds, opts.Width, opts.Height)

	scalars, haveScalars := ds.ActiveScalars()
	lo, hi := 0.0, 1.0
	if haveScalars {
		lo, hi, _ = ds.ScalarRange(ds.ActiveScalarName())
	}
	useScalars := opts.ScalarColors && haveScalars && hi > lo

	// New resolves Opacity before drawing, so the pointer is never nil here.
	opacity := *opts.Opacity

	setPointColor := func(idx int) {
		if useScalars {
			r, g, b := rampColor((scalars[idx] - lo) / (hi - lo))
			ctx.SetRGBA(r, g, b, opacity)
			return
		}
		ctx.SetRGBA(opts.Color[0], opts.Color[1], opts.Color[2], opacity)
	}

	// Back-to-front cell ordering.
	order := make([]int, len(ds.Cells))
	depths := make([]float64, len(ds.Cells))
	for i, cell := range ds.Cells {
		order[i] = i
		var sum float64
		for _, p := range cell.Points {
			sum += proj.depth[p]
		}
		depths[i] = sum / float64(len(cell.Points))
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && depths[order[j]] > depths[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	ctx.SetLineWidth(opts.LineWidth)
	drawn := 0

	for _, ci := range order {
		cell := ds.Cells[ci]
		pts := cell.Points

		if opts.Style == StylePoints || cell.Type == dataset.Vertex {
			for _, p := range pts {
				setPointColor(p)
				ctx.DrawCircle(proj.xy[p][0], proj.xy[p][1], opts.PointSize/2)
				if err := ctx.Fill(); err != nil {
					return drawn, err
				}
				drawn++
			}
			continue
		}

		if cell.Type == dataset.Line || len(pts) == 2 {
			setPointColor(pts[0])
			ctx.DrawLine(proj.xy[pts[0]][0], proj.xy[pts[0]][1], proj.xy[pts[1]][0], proj.xy[pts[1]][1])
			if err := ctx.Stroke(); err != nil {
				return drawn, err
			}
			drawn++
			continue
		}

		// Polygonal cells: outline of the projected hull for volumes is an
		// acceptable preview, so all remaining cells draw their point loop.
		ctx.MoveTo(proj.xy[pts[0]][0], proj.xy[pts[0]][1])
		for _, p := range pts[1:] {
			ctx.LineTo(proj.xy[p][0], proj.xy[p][1])
		}
		ctx.ClosePath()

		switch opts.Style {
		case StyleWireframe:
			setPointColor(pts[0])
			if err := ctx.Stroke(); err != nil {
				return drawn, err
			}
		case StyleSurfaceWithEdges:
			setPointColor(pts[0])
			if err := ctx.FillPreserve(); err != nil {
				return drawn, err
			}
			ctx.SetRGBA(0, 0, 0, opacity)
			if err := ctx.Stroke(); err != nil {
				return drawn, err
			}
		default:
			setPointColor(pts[0])
			if err := ctx.Fill(); err != nil {
				return drawn, err
			}
		}
		drawn++
	}

	return drawn, nil
}

// Package render turns datasets into display-ready previews. A Renderable
// couples a software-rasterized orthographic projection of the mesh with the
// display properties (representation style, color, opacity) the original
// actor carried. Rendering happens offscreen via the gg canvas; front-ends
// only consume the finished image.
package render

import (
	"image"
	"io"
	"os"

	"github.com/gogpu/gg"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

// Style selects how cells are drawn.
type Style string

// Representation styles, mirroring the usual visualization toolkit set.
const (
	StyleSurface          Style = "Surface"
	StyleSurfaceWithEdges Style = "Surface With Edges"
	StyleWireframe        Style = "Wireframe"
	StylePoints           Style = "Points"
)

// Color is an RGB triple in [0, 1].
type Color [3]float64

// Options configures rendering of one dataset.
type Options struct {
	Width, Height int
	Style         Style
	Color         Color    // Flat color when not coloring by scalars
	Opacity       *float64 // 0..1; nil renders opaque
	PointSize     float64
	LineWidth     float64
	ScalarColors  bool // Map the active scalar array through the blue-red ramp
}

// DefaultOptions returns the preview defaults: a 512x512 surface rendering
// colored by the active scalars when present.
func DefaultOptions() Options {
	return Options{
		Width:        512,
		Height:       512,
		Style:        StyleSurface,
		Color:        Color{1.0, 1.0, 1.0},
		PointSize:    3.0,
		LineWidth:    1.0,
		ScalarColors: true,
	}
}

// Renderable is the display-ready representation of a dataset.
type Renderable struct {
	Style     Style
	Color     Color
	Opacity   float64
	PointSize float64
	LineWidth float64

	img        image.Image
	primitives int
}

// Empty reports whether nothing was drawn (empty input dataset).
func (r *Renderable) Empty() bool { return r == nil || r.primitives == 0 }

// Primitives returns the number of drawn primitives.
func (r *Renderable) Primitives() int {
	if r == nil {
		return 0
	}
	return r.primitives
}

// Image returns the rendered preview.
func (r *Renderable) Image() image.Image { return r.img }

// EncodePNG writes the preview as PNG.
func (r *Renderable) EncodePNG(w io.Writer) error {
	ctx := gg.NewContextForImage(r.img)
	defer ctx.Close()
	return ctx.EncodePNG(w)
}

// WritePNG saves the preview to a file.
func (r *Renderable) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.EncodePNG(f)
}

// New renders a dataset into a Renderable. A nil or empty dataset yields an
// empty (but valid) renderable rather than an error.
func New(ds *dataset.Dataset, opts Options) (*Renderable, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Style == "" {
		opts.Style = StyleSurface
	}
	opacity := 1.0
	if opts.Opacity != nil {
		opacity = *opts.Opacity
	}
	opts.Opacity = &opacity
	if opts.PointSize == 0 {
		opts.PointSize = 3.0
	}
	if opts.LineWidth == 0 {
		opts.LineWidth = 1.0
	}

	r := &Renderable{
		Style:     opts.Style,
		Color:     opts.Color,
		Opacity:   opacity,
		PointSize: opts.PointSize,
		LineWidth: opts.LineWidth,
	}

	ctx := gg.NewContext(opts.Width, opts.Height)
	defer ctx.Close()
	ctx.ClearWithColor(gg.RGBA{R: 0.12, G: 0.12, B: 0.14, A: 1})

	if ds != nil && !ds.IsEmpty() {
		n, err := drawDataset(ctx, ds, opts)
		if err != nil {
			return nil, err
		}
		r.primitives = n
	}

	r.img = ctx.Image()
	return r, nil
}

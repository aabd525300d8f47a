package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

func TestNewRendersCone(t *testing.T) {
	r, err := New(dataset.Cone(16), DefaultOptions())
	require.NoError(t, err)

	assert.False(t, r.Empty())
	assert.Greater(t, r.Primitives(), 16)

	img := r.Image()
	require.NotNil(t, img)
	b := img.Bounds()
	assert.Equal(t, 512, b.Dx())
	assert.Equal(t, 512, b.Dy())
}

func TestNewEmptyDataset(t *testing.T) {
	r, err := New(dataset.New(), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.NotNil(t, r.Image())

	r, err = New(nil, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestNewFillsOptionDefaults(t *testing.T) {
	r, err := New(dataset.Cone(8), Options{})
	require.NoError(t, err)

	assert.Equal(t, StyleSurface, r.Style)
	assert.Equal(t, 1.0, r.Opacity)
	assert.Equal(t, 512, r.Image().Bounds().Dx())
}

func TestZeroOpacity(t *testing.T) {
	opts := DefaultOptions()
	transparent := 0.0
	opts.Opacity = &transparent

	r, err := New(dataset.Cone(16), opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Opacity)

	// Fully transparent geometry leaves the background untouched, so the
	// center of the canvas matches a corner pixel.
	img := r.Image()
	b := img.Bounds()
	assert.Equal(t, img.At(b.Min.X, b.Min.Y), img.At(b.Dx()/2, b.Dy()/2))

	opaque, err := New(dataset.Cone(16), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1.0, opaque.Opacity)
	oimg := opaque.Image()
	assert.NotEqual(t, oimg.At(b.Min.X, b.Min.Y), oimg.At(b.Dx()/2, b.Dy()/2))
}

func TestStyles(t *testing.T) {
	cone := dataset.Cone(8)
	for _, style := range []Style{StyleSurface, StyleSurfaceWithEdges, StyleWireframe, StylePoints} {
		opts := DefaultOptions()
		opts.Style = style
		r, err := New(cone, opts)
		require.NoError(t, err, "style %s", style)
		assert.False(t, r.Empty(), "style %s", style)
		assert.Equal(t, style, r.Style)
	}
}

func TestEncodePNG(t *testing.T) {
	r, err := New(dataset.Cone(8), DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	// PNG magic
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}

func TestRampColor(t *testing.T) {
	// Blue at the low end, red at the high end, white in the middle
	r, g, b := rampColor(0)
	assert.Less(t, r, b)
	_ = g

	r2, _, b2 := rampColor(1)
	assert.Greater(t, r2, b2)

	rm, gm, bm := rampColor(0.5)
	assert.InDelta(t, rm, gm, 0.15)
	assert.InDelta(t, gm, bm, 0.15)
}

package dataset

import "math"

// Cone builds the demo dataset used before any file is loaded: a cone of
// height 3 and radius 1 centered at the origin with its axis along +X, plus
// an "Elevation" point scalar ramping along the axis so that slicing and
// contouring have a field to work with out of the box.
func Cone(resolution int) *Dataset {
	if resolution < 3 {
		resolution = 3
	}

	const (
		height = 3.0
		radius = 1.0
	)

	d := New()

	apex := Vec3{height / 2, 0, 0}
	d.Points = append(d.Points, apex)
	for i := 0; i < resolution; i++ {
		angle := 2 * math.Pi * float64(i) / float64(resolution)
		d.Points = append(d.Points, Vec3{
			-height / 2,
			radius * math.Cos(angle),
			radius * math.Sin(angle),
		})
	}

	// Side triangles apex -> rim, then a triangle fan closing the base.
	for i := 0; i < resolution; i++ {
		next := (i+1)%resolution + 1
		d.Cells = append(d.Cells, Cell{Type: Triangle, Points: []int{0, i + 1, next}})
	}
	for i := 1; i < resolution-1; i++ {
		d.Cells = append(d.Cells, Cell{Type: Triangle, Points: []int{1, i + 2, i + 1}})
	}

	low := Vec3{-height / 2, 0, 0}
	high := Vec3{height / 2, 0, 0}
	axis := high.Sub(low)
	lenSq := axis.Dot(axis)

	elevation := make([]float64, len(d.Points))
	for i, p := range d.Points {
		t := p.Sub(low).Dot(axis) / lenSq
		elevation[i] = math.Max(0, math.Min(1, t))
	}
	// Length always matches; error impossible here.
	_ = d.AddPointScalars("Elevation", elevation)

	return d
}

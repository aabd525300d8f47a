package dataset

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns v scaled to unit length. ok is false when v is the zero
// vector, in which case the zero vector is returned unchanged.
func (v Vec3) Normalized() (Vec3, bool) {
	n := v.Norm()
	if n == 0 {
		return v, false
	}
	return v.Scale(1 / n), true
}

// Lerp returns the linear interpolation between v and o at parameter t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v[0] + t*(o[0]-v[0]),
		v[1] + t*(o[1]-v[1]),
		v[2] + t*(o[2]-v[2]),
	}
}

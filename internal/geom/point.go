// Package geom holds the 2D primitives town generation is made of: points
// (vectors), shared vertices and polygons over them.
//
// The one structural rule in here: adjacent shapes share *Vertex handles, not
// equal-valued copies. Junction merging, gate detection and street smoothing
// all mutate and compare through that sharing.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point is a 2D point / vector. We use the r2 type directly so all the usual
// vector arithmetic (Add, Sub, Mul, Dot, Cross, Norm, Normalize, Ortho) comes
// for free.
type Point = r2.Point

// P is a shorthand constructor.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// Lerp returns the linear interpolation between a and b at t in [0,1].
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).Mul(t))
}

// Rotate returns p rotated by angle radians around the origin.
func Rotate(p Point, angle float64) Point {
	c, s := math.Cos(angle), math.Sin(angle)
	return Point{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

// Scale returns p scaled to the given length (zero vector stays zero).
func Scale(p Point, length float64) Point {
	n := p.Norm()
	if n < 1e-12 {
		return Point{}
	}
	return p.Mul(length / n)
}

// DistToLine returns the perpendicular distance from p to the infinite line
// through a with direction d.
func DistToLine(a, d, p Point) float64 {
	n := d.Norm()
	if n < 1e-12 {
		return Dist(a, p)
	}
	return math.Abs(d.Cross(p.Sub(a))) / n
}

// IntersectLines intersects the infinite lines a+t1*da and b+t2*db.
// Returns false if the lines are (near) parallel.
func IntersectLines(a, da, b, db Point) (t1, t2 float64, ok bool) {
	den := da.Cross(db)
	if math.Abs(den) < 1e-12 {
		return 0, 0, false
	}
	diff := b.Sub(a)
	t1 = diff.Cross(db) / den
	t2 = diff.Cross(da) / den
	return t1, t2, true
}

// Package delaunay builds a Delaunay triangulation incrementally
// (Bowyer-Watson) and reads Voronoi regions back out of it.
//
// Each triangle allocates its circumcenter exactly once as a shared
// *geom.Vertex; a Voronoi region's corners are those circumcenters, so two
// adjacent regions hold the very same corner handles. Downstream code leans
// on that sharing hard.
package delaunay

import (
	"math"

	"github.com/IronJade/town-generator/internal/geom"
)

// Triangle is one Delaunay triangle: three point indices (CCW), the
// circumcenter vertex and the circumradius.
type Triangle struct {
	P1, P2, P3 int

	Center *geom.Vertex
	Radius float64
}

func newTriangle(v *Voronoi, p1, p2, p3 int) *Triangle {
	t := &Triangle{P1: p1, P2: p2, P3: p3}

	a := v.pointAt(p1)
	b := v.pointAt(p2)
	c := v.pointAt(p3)

	// circumcenter = intersection of two perpendicular bisectors
	m1 := geom.Lerp(a, b, 0.5)
	m2 := geom.Lerp(b, c, 0.5)
	d1 := b.Sub(a).Ortho()
	d2 := c.Sub(b).Ortho()

	t1, _, ok := geom.IntersectLines(m1, d1, m2, d2)
	if !ok {
		// collinear corners; give the triangle an everything-circle so the
		// next insertion destroys it
		t.Center = geom.VAt(m1)
		t.Radius = math.Inf(1)
		return t
	}
	t.Center = geom.VAt(m1.Add(d1.Mul(t1)))
	t.Radius = geom.Dist(t.Center.Point, a)
	return t
}

// hasEdge reports whether the triangle contains the directed edge a->b.
func (t *Triangle) hasEdge(a, b int) bool {
	return (t.P1 == a && t.P2 == b) ||
		(t.P2 == a && t.P3 == b) ||
		(t.P3 == a && t.P1 == b)
}

// touches reports whether the triangle has p as a corner.
func (t *Triangle) touches(p int) bool {
	return t.P1 == p || t.P2 == p || t.P3 == p
}

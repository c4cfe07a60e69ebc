package delaunay

import (
	"sort"

	"github.com/IronJade/town-generator/internal/geom"
)

// frame corner indices are negative so they can never collide with seeds.
const (
	frameA = -1
	frameB = -2
	frameC = -3
	frameD = -4
)

// Voronoi is an incrementally built Delaunay triangulation plus the seed
// points it was built from. Regions (Voronoi cells) are read out of it.
type Voronoi struct {
	seeds     []geom.Point
	frame     [4]geom.Point
	triangles []*Triangle
}

// Build triangulates the given points in order. The bounding frame is the
// points' bounding box expanded by half its extent on each axis, so no real
// point ever lands outside it.
func Build(points []geom.Point) *Voronoi {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	dx := (maxX - minX + 1) / 2
	dy := (maxY - minY + 1) / 2
	minX, maxX = minX-dx, maxX+dx
	minY, maxY = minY-dy, maxY+dy

	v := &Voronoi{
		frame: [4]geom.Point{
			geom.P(minX, minY),
			geom.P(maxX, minY),
			geom.P(maxX, maxY),
			geom.P(minX, maxY),
		},
	}
	// two CCW triangles covering the whole frame
	v.triangles = []*Triangle{
		newTriangle(v, frameA, frameB, frameC),
		newTriangle(v, frameA, frameC, frameD),
	}

	for _, p := range points {
		v.addPoint(p)
	}
	return v
}

// Points returns the seed points in insertion order.
func (v *Voronoi) Points() []geom.Point {
	out := make([]geom.Point, len(v.seeds))
	copy(out, v.seeds)
	return out
}

func (v *Voronoi) pointAt(i int) geom.Point {
	if i < 0 {
		return v.frame[-i-1]
	}
	return v.seeds[i]
}

func isFrame(i int) bool {
	return i < 0
}

// addPoint inserts one point: every triangle whose circumcircle contains it
// is thrown away, and the boundary of that cavity - the edges not shared (in
// reverse) by two doomed triangles - is re-stitched to the new point.
func (v *Voronoi) addPoint(p geom.Point) {
	idx := len(v.seeds)
	v.seeds = append(v.seeds, p)

	var toSplit []*Triangle
	for _, t := range v.triangles {
		if geom.Dist(p, t.Center.Point) < t.Radius {
			toSplit = append(toSplit, t)
		}
	}
	if len(toSplit) == 0 {
		return
	}

	var ea, eb []int
	for _, t1 := range toSplit {
		e1, e2, e3 := true, true, true
		for _, t2 := range toSplit {
			if t2 == t1 {
				continue
			}
			// a shared edge appears in opposite directions in the two
			// triangles that own it
			if e1 && t2.hasEdge(t1.P2, t1.P1) {
				e1 = false
			}
			if e2 && t2.hasEdge(t1.P3, t1.P2) {
				e2 = false
			}
			if e3 && t2.hasEdge(t1.P1, t1.P3) {
				e3 = false
			}
			if !e1 && !e2 && !e3 {
				break
			}
		}
		if e1 {
			ea, eb = append(ea, t1.P1), append(eb, t1.P2)
		}
		if e2 {
			ea, eb = append(ea, t1.P2), append(eb, t1.P3)
		}
		if e3 {
			ea, eb = append(ea, t1.P3), append(eb, t1.P1)
		}
	}

	kept := v.triangles[:0]
	for _, t := range v.triangles {
		doomed := false
		for _, s := range toSplit {
			if t == s {
				doomed = true
				break
			}
		}
		if !doomed {
			kept = append(kept, t)
		}
	}
	v.triangles = kept

	for i := range ea {
		v.triangles = append(v.triangles, newTriangle(v, idx, ea[i], eb[i]))
	}
}

// Region is one Voronoi cell: a seed and its incident triangles, sorted by
// angle around the seed so the circumcenters traverse the cell boundary in
// CCW order.
type Region struct {
	Seed      int
	SeedPoint geom.Point
	Triangles []*Triangle
}

// Center returns the average of the region's corner positions, used as the
// relaxation target.
func (r *Region) Center() geom.Point {
	var sum geom.Point
	for _, t := range r.Triangles {
		sum = sum.Add(t.Center.Point)
	}
	return sum.Mul(1 / float64(len(r.Triangles)))
}

// touchesFrame reports whether any incident triangle reaches the bounding
// frame, which marks an unbounded (border) cell.
func (r *Region) touchesFrame() bool {
	for _, t := range r.Triangles {
		if isFrame(t.P1) || isFrame(t.P2) || isFrame(t.P3) {
			return true
		}
	}
	return false
}

// Region extracts the cell of the given seed index.
func (v *Voronoi) Region(seed int) *Region {
	r := &Region{Seed: seed, SeedPoint: v.seeds[seed]}
	for _, t := range v.triangles {
		if t.touches(seed) {
			r.Triangles = append(r.Triangles, t)
		}
	}
	v.sortRegion(r)
	return r
}

// sortRegion orders incident triangles by the angle of their circumcenter
// around the seed. The comparison is quadrant-first with a cross-product
// tie-break inside a quadrant, which stays stable right on the axes where
// atan2 comparisons wobble.
func (v *Voronoi) sortRegion(r *Region) {
	quadrant := func(p geom.Point) int {
		switch {
		case p.X >= 0 && p.Y >= 0:
			return 0
		case p.X < 0 && p.Y >= 0:
			return 1
		case p.X < 0 && p.Y < 0:
			return 2
		default:
			return 3
		}
	}
	seed := r.SeedPoint
	sort.SliceStable(r.Triangles, func(i, j int) bool {
		a := r.Triangles[i].Center.Point.Sub(seed)
		b := r.Triangles[j].Center.Point.Sub(seed)
		qa, qb := quadrant(a), quadrant(b)
		if qa != qb {
			return qa < qb
		}
		return a.Cross(b) > 0
	})
}

// Partitioning returns the bounded cells only - every region whose triangles
// never touch the frame - in seed insertion order.
func (v *Voronoi) Partitioning() []*Region {
	var out []*Region
	for i := range v.seeds {
		r := v.Region(i)
		if len(r.Triangles) == 0 || r.touchesFrame() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Relax returns the seed list with every selected seed moved to the centre
// of its current bounded region (one Lloyd step). The caller rebuilds the
// diagram from the result.
func (v *Voronoi) Relax(selected ...int) []geom.Point {
	pick := map[int]bool{}
	for _, s := range selected {
		pick[s] = true
	}
	pts := v.Points()
	for _, r := range v.Partitioning() {
		if pick[r.Seed] {
			pts[r.Seed] = r.Center()
		}
	}
	return pts
}

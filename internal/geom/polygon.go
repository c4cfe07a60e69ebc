package geom

import (
	"math"
)

// Polygon is an ordered cyclic sequence of shared vertices; insertion order
// is boundary order. Positive shoelace area means counter-clockwise winding
// and all construction in this module keeps shapes CCW.
type Polygon struct {
	V []*Vertex
}

// NewPolygon builds a polygon over existing vertex handles.
func NewPolygon(vs ...*Vertex) *Polygon {
	return &Polygon{V: vs}
}

// FromPoints allocates fresh vertices for the given positions.
func FromPoints(pts ...Point) *Polygon {
	vs := make([]*Vertex, len(pts))
	for i, pt := range pts {
		vs[i] = VAt(pt)
	}
	return &Polygon{V: vs}
}

// Rect returns a w x h rectangle centred on the origin.
func Rect(w, h float64) *Polygon {
	return FromPoints(
		P(-w/2, -h/2), P(w/2, -h/2), P(w/2, h/2), P(-w/2, h/2),
	)
}

// Circle returns a regular octagon of the given radius, which is as round as
// a building footprint needs to be.
func Circle(r float64) *Polygon {
	pts := make([]Point, 8)
	for i := range pts {
		a := float64(i) / 8 * 2 * math.Pi
		pts[i] = P(r*math.Cos(a), r*math.Sin(a))
	}
	return FromPoints(pts...)
}

// Len returns the vertex count.
func (p *Polygon) Len() int {
	return len(p.V)
}

// Copy returns a new polygon over the same vertex handles.
func (p *Polygon) Copy() *Polygon {
	vs := make([]*Vertex, len(p.V))
	copy(vs, p.V)
	return &Polygon{V: vs}
}

// At returns the i-th vertex, wrapping around.
func (p *Polygon) At(i int) *Vertex {
	n := len(p.V)
	return p.V[((i%n)+n)%n]
}

// IndexOf returns the index of the vertex handle, or -1.
func (p *Polygon) IndexOf(v *Vertex) int {
	for i, u := range p.V {
		if u == v {
			return i
		}
	}
	return -1
}

// Contains reports whether the polygon holds this exact vertex handle.
func (p *Polygon) Contains(v *Vertex) bool {
	return p.IndexOf(v) >= 0
}

// Next returns the vertex after v on the boundary (nil if v isn't ours).
func (p *Polygon) Next(v *Vertex) *Vertex {
	i := p.IndexOf(v)
	if i < 0 {
		return nil
	}
	return p.At(i + 1)
}

// Prev returns the vertex before v on the boundary (nil if v isn't ours).
func (p *Polygon) Prev(v *Vertex) *Vertex {
	i := p.IndexOf(v)
	if i < 0 {
		return nil
	}
	return p.At(i - 1)
}

// ForEdge calls fn for every directed boundary edge (a, b).
func (p *Polygon) ForEdge(fn func(a, b *Vertex)) {
	n := len(p.V)
	for i := 0; i < n; i++ {
		fn(p.V[i], p.V[(i+1)%n])
	}
}

// FindEdge returns the index i such that edge i runs a->b, or -1.
// Comparison is by vertex identity, not position.
func (p *Polygon) FindEdge(a, b *Vertex) int {
	n := len(p.V)
	for i := 0; i < n; i++ {
		if p.V[i] == a && p.V[(i+1)%n] == b {
			return i
		}
	}
	return -1
}

// Borders reports whether p and q share an edge (in opposite directions,
// as adjacent cells do).
func (p *Polygon) Borders(q *Polygon) bool {
	n := len(p.V)
	for i := 0; i < n; i++ {
		if q.FindEdge(p.V[(i+1)%n], p.V[i]) >= 0 {
			return true
		}
	}
	return false
}

// SignedArea is the shoelace sum; positive for CCW winding.
func (p *Polygon) SignedArea() float64 {
	n := len(p.V)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		a, b := p.V[i].Point, p.V[(i+1)%n].Point
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// Area is the unsigned area.
func (p *Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Perimeter is the total boundary length.
func (p *Polygon) Perimeter() float64 {
	n := len(p.V)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += Dist(p.V[i].Point, p.V[(i+1)%n].Point)
	}
	return total
}

// Compactness is 4*pi*area / perimeter^2, a roundness metric in (0, 1].
func (p *Polygon) Compactness() float64 {
	per := p.Perimeter()
	if per < 1e-12 {
		return 0
	}
	return 4 * math.Pi * p.Area() / (per * per)
}

// Center is the plain vertex average.
func (p *Polygon) Center() Point {
	var sum Point
	if len(p.V) == 0 {
		return sum
	}
	for _, v := range p.V {
		sum = sum.Add(v.Point)
	}
	return sum.Mul(1 / float64(len(p.V)))
}

// Centroid is the area-weighted centre. Falls back to Center for degenerate
// shapes.
func (p *Polygon) Centroid() Point {
	a := p.SignedArea()
	if math.Abs(a) < 1e-12 {
		return p.Center()
	}
	n := len(p.V)
	var cx, cy float64
	for i := 0; i < n; i++ {
		u, w := p.V[i].Point, p.V[(i+1)%n].Point
		cross := u.X*w.Y - w.X*u.Y
		cx += (u.X + w.X) * cross
		cy += (u.Y + w.Y) * cross
	}
	f := 1 / (6 * a)
	return P(cx*f, cy*f)
}

// ContainsPoint reports whether pt lies inside the polygon (ray cast).
func (p *Polygon) ContainsPoint(pt Point) bool {
	n := len(p.V)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := p.V[i].Point, p.V[j].Point
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// IsConvex reports whether all turns share a sign.
func (p *Polygon) IsConvex() bool {
	n := len(p.V)
	if n < 4 {
		return true
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.V[i].Point
		b := p.V[(i+1)%n].Point
		c := p.V[(i+2)%n].Point
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) < 1e-12 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

// IsSimple reports whether no two non-adjacent edges intersect.
func (p *Polygon) IsSimple() bool {
	n := len(p.V)
	for i := 0; i < n; i++ {
		a0 := p.V[i].Point
		a1 := p.V[(i+1)%n].Point
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue // adjacent edges share a vertex
			}
			b0 := p.V[j].Point
			b1 := p.V[(j+1)%n].Point
			t1, t2, ok := IntersectLines(a0, a1.Sub(a0), b0, b1.Sub(b0))
			if ok && t1 > 1e-9 && t1 < 1-1e-9 && t2 > 1e-9 && t2 < 1-1e-9 {
				return false
			}
		}
	}
	return true
}

// MinVertex returns the vertex minimising score (first-found on ties).
func (p *Polygon) MinVertex(score func(*Vertex) float64) *Vertex {
	var best *Vertex
	bestScore := math.Inf(1)
	for _, v := range p.V {
		if s := score(v); s < bestScore {
			bestScore = s
			best = v
		}
	}
	return best
}

// MaxVertex returns the vertex maximising score (first-found on ties).
func (p *Polygon) MaxVertex(score func(*Vertex) float64) *Vertex {
	var best *Vertex
	bestScore := math.Inf(-1)
	for _, v := range p.V {
		if s := score(v); s > bestScore {
			bestScore = s
			best = v
		}
	}
	return best
}

// MinDistance is the distance from pt to the closest vertex.
func (p *Polygon) MinDistance(pt Point) float64 {
	d := math.Inf(1)
	for _, v := range p.V {
		if dd := Dist(v.Point, pt); dd < d {
			d = dd
		}
	}
	return d
}

// MaxDistance is the distance from pt to the farthest vertex.
func (p *Polygon) MaxDistance(pt Point) float64 {
	d := 0.0
	for _, v := range p.V {
		if dd := Dist(v.Point, pt); dd > d {
			d = dd
		}
	}
	return d
}

// LongestEdge returns the index of the longest boundary edge.
func (p *Polygon) LongestEdge() int {
	best, bestLen := 0, -1.0
	n := len(p.V)
	for i := 0; i < n; i++ {
		l := Dist(p.V[i].Point, p.V[(i+1)%n].Point)
		if l > bestLen {
			bestLen = l
			best = i
		}
	}
	return best
}

// SmoothVertex returns the position v would take when averaged with its two
// neighbours; f is the weight kept on the original position.
func (p *Polygon) SmoothVertex(v *Vertex, f float64) Point {
	prev, next := p.Prev(v), p.Next(v)
	if prev == nil || next == nil {
		return v.Point
	}
	return prev.Point.Add(v.Point.Mul(f)).Add(next.Point).Mul(1 / (2 + f))
}

// Offset translates every vertex by d. Only call on polygons whose vertices
// are not shared with other shapes.
func (p *Polygon) Offset(d Point) {
	for _, v := range p.V {
		v.Set(v.Point.Add(d))
	}
}

// Rotate rotates every vertex around the origin. Same sharing caveat as
// Offset.
func (p *Polygon) Rotate(angle float64) {
	for _, v := range p.V {
		v.Set(Rotate(v.Point, angle))
	}
}

// Interpolate returns normalised inverse-distance weights of pt against each
// vertex; they sum to 1 and behave barycentrically enough for density
// blending.
func (p *Polygon) Interpolate(pt Point) []float64 {
	w := make([]float64, len(p.V))
	total := 0.0
	for i, v := range p.V {
		d := Dist(v.Point, pt)
		if d < 1e-9 {
			for j := range w {
				w[j] = 0
			}
			w[i] = 1
			return w
		}
		w[i] = 1 / d
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

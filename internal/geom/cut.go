package geom

// Cut splits the polygon along the infinite line through a and b.
//
// The line must cross the boundary exactly twice; anything else is a no-op
// and the original polygon comes back as a single-element result. The two
// halves come back ordered so that the first lies to the left of the a->b
// direction, which keeps caller-relative left/right stable. A positive gap
// peels each half back from the cut line by gap/2, leaving an open seam
// (an alley) between them.
func (p *Polygon) Cut(a, b Point, gap float64) []*Polygon {
	d := b.Sub(a)
	n := len(p.V)

	e1, e2 := -1, -1
	var r1, r2 float64
	count := 0
	for i := 0; i < n; i++ {
		v0 := p.V[i].Point
		v1 := p.V[(i+1)%n].Point
		_, t, ok := IntersectLines(a, d, v0, v1.Sub(v0))
		if !ok || t < 0 || t >= 1 {
			continue
		}
		switch count {
		case 0:
			e1, r1 = i, t
		case 1:
			e2, r2 = i, t
		}
		count++
	}
	if count != 2 {
		return []*Polygon{p}
	}

	x1 := VAt(Lerp(p.V[e1].Point, p.At(e1+1).Point, r1))
	x2 := VAt(Lerp(p.V[e2].Point, p.At(e2+1).Point, r2))

	half1 := &Polygon{V: []*Vertex{x1}}
	for i := e1 + 1; i <= e2; i++ {
		half1.V = append(half1.V, p.V[i])
	}
	half1.V = append(half1.V, x2)

	half2 := &Polygon{V: []*Vertex{x2}}
	for i := e2 + 1; i < n; i++ {
		half2.V = append(half2.V, p.V[i])
	}
	for i := 0; i <= e1; i++ {
		half2.V = append(half2.V, p.V[i])
	}
	half2.V = append(half2.V, x1)

	// left half first, judged against the cutting direction
	left, right := half1, half2
	if d.Cross(half1.Center().Sub(a)) < 0 {
		left, right = half2, half1
	}

	if gap > 0 {
		left = left.peelCut(gap / 2)
		right = right.peelCut(gap / 2)
	}
	return []*Polygon{left, right}
}

// peelCut shrinks a freshly cut half along its closing edge (the edge the
// cut created, which runs from the last vertex back to the first).
func (p *Polygon) peelCut(d float64) *Polygon {
	return p.Peel(p.V[len(p.V)-1], d)
}

// Peel shrinks the polygon along the single edge starting at v.
func (p *Polygon) Peel(v *Vertex, d float64) *Polygon {
	i := p.IndexOf(v)
	if i < 0 || d <= 0 {
		return p
	}
	v1 := p.At(i + 1)
	e := v1.Point.Sub(v.Point)
	off := Scale(e.Ortho(), d)
	halves := p.Cut(v.Point.Add(off), v1.Point.Add(off), 0)
	return halves[0]
}

// Shrink insets the polygon by a per-edge distance, cutting along each
// edge's inward-offset parallel line in turn. Zero distances leave their
// edges alone.
func (p *Polygon) Shrink(d []float64) *Polygon {
	q := p.Copy()
	n := len(p.V)
	for i := 0; i < n && i < len(d); i++ {
		if d[i] <= 0 {
			continue
		}
		v0 := p.V[i].Point
		v1 := p.V[(i+1)%n].Point
		off := Scale(v1.Sub(v0).Ortho(), d[i])
		q = q.Cut(v0.Add(off), v1.Add(off), 0)[0]
		if q.Len() < 3 {
			break
		}
	}
	return q
}

// ShrinkEq insets every edge by the same distance.
func (p *Polygon) ShrinkEq(d float64) *Polygon {
	ds := make([]float64, len(p.V))
	for i := range ds {
		ds[i] = d
	}
	return p.Shrink(ds)
}

// Split divides the polygon into two along the chord between two of its own
// vertices. Both halves share the handles a and b. Returns nil if the chord
// is degenerate (missing vertices, adjacent vertices, or a sliver half).
func (p *Polygon) Split(a, b *Vertex) []*Polygon {
	i0 := p.IndexOf(a)
	i1 := p.IndexOf(b)
	if i0 < 0 || i1 < 0 || i0 == i1 {
		return nil
	}
	n := len(p.V)

	var h1, h2 []*Vertex
	for i := i0; ; i = (i + 1) % n {
		h1 = append(h1, p.V[i])
		if i == i1 {
			break
		}
	}
	for i := i1; ; i = (i + 1) % n {
		h2 = append(h2, p.V[i])
		if i == i0 {
			break
		}
	}
	if len(h1) < 3 || len(h2) < 3 {
		return nil
	}
	return []*Polygon{{V: h1}, {V: h2}}
}

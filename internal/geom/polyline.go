package geom

// Polyline is an open vertex chain - a street, road or artery. Its vertices
// are the same handles the bordering polygons use, so smoothing a street
// visibly carves the blocks on either side.
type Polyline struct {
	V []*Vertex
}

// NewPolyline wraps existing vertex handles.
func NewPolyline(vs ...*Vertex) *Polyline {
	return &Polyline{V: vs}
}

// Len returns the vertex count.
func (l *Polyline) Len() int {
	return len(l.V)
}

// Length returns the total chain length.
func (l *Polyline) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(l.V); i++ {
		total += Dist(l.V[i].Point, l.V[i+1].Point)
	}
	return total
}

// First returns the first vertex (nil when empty).
func (l *Polyline) First() *Vertex {
	if len(l.V) == 0 {
		return nil
	}
	return l.V[0]
}

// Last returns the last vertex (nil when empty).
func (l *Polyline) Last() *Vertex {
	if len(l.V) == 0 {
		return nil
	}
	return l.V[len(l.V)-1]
}

// Reverse flips the chain in place.
func (l *Polyline) Reverse() {
	for i, j := 0, len(l.V)-1; i < j; i, j = i+1, j-1 {
		l.V[i], l.V[j] = l.V[j], l.V[i]
	}
}

// Smooth moves every interior vertex toward the average of its neighbours,
// keeping weight f on the original position; endpoints stay fixed. All new
// positions are computed from the old ones before any vertex moves
// (simultaneous Laplacian step), then written through the shared handles.
func (l *Polyline) Smooth(f float64) {
	if len(l.V) < 3 {
		return
	}
	moved := make([]Point, len(l.V))
	for i := 1; i+1 < len(l.V); i++ {
		moved[i] = l.V[i-1].Point.
			Add(l.V[i].Point.Mul(f)).
			Add(l.V[i+1].Point).
			Mul(1 / (2 + f))
	}
	for i := 1; i+1 < len(l.V); i++ {
		l.V[i].Set(moved[i])
	}
}

// Points returns the vertex positions as plain values.
func (l *Polyline) Points() []Point {
	pts := make([]Point, len(l.V))
	for i, v := range l.V {
		pts[i] = v.Point
	}
	return pts
}

package geom

// Vertex is a stable, shared handle to a point on the plane. Polygons whose
// boundaries touch hold the *same* *Vertex, so moving one (junction merging,
// wall smoothing, street smoothing) moves it for every shape at once, and
// "is this the same corner" is a pointer comparison.
type Vertex struct {
	Point
}

// V allocates a new vertex at (x, y).
func V(x, y float64) *Vertex {
	return &Vertex{Point{X: x, Y: y}}
}

// VAt allocates a new vertex at p.
func VAt(p Point) *Vertex {
	return &Vertex{p}
}

// Set moves the vertex. Every polygon holding this handle sees the move.
func (v *Vertex) Set(p Point) {
	v.Point = p
}

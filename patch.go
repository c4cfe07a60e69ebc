package towngen

import (
	"github.com/IronJade/town-generator/internal/delaunay"
	"github.com/IronJade/town-generator/internal/geom"
)

// Patch is one cell of the town's planar subdivision. Adjacent patches
// share vertex handles, so moving a handle moves the shared corner in every
// patch that touches it and adjacency checks reduce to pointer comparisons.
type Patch struct {
	Shape *geom.Polygon `json:"shape"`

	// WithinCity marks patches inside the city border (plus the citadel
	// and any outskirt wards attached after the walls go up).
	WithinCity bool `json:"within_city"`

	// WithinWalls marks patches inside the curtain wall proper.
	WithinWalls bool `json:"within_walls,omitempty"`

	Ward *Ward `json:"ward,omitempty"`
}

// newPatch builds a patch from a bounded Voronoi region. The region's
// circumcenter handles are adopted as-is, which is what makes neighbouring
// patches share vertices.
func newPatch(reg *delaunay.Region) *Patch {
	vs := make([]*geom.Vertex, 0, len(reg.Triangles))
	for _, tr := range reg.Triangles {
		vs = append(vs, tr.Center)
	}
	return &Patch{Shape: geom.NewPolygon(vs...)}
}

// patchByVertex returns every patch whose shape holds the handle v, in
// patch order.
func (m *Model) patchByVertex(v *geom.Vertex) []*Patch {
	var out []*Patch
	for _, p := range m.Patches {
		if p.Shape.Contains(v) {
			out = append(out, p)
		}
	}
	return out
}

// neighbour returns the patch across the edge starting at v, or nil on the
// outer boundary. The shared edge appears reversed in the neighbour.
func (m *Model) neighbour(p *Patch, v *geom.Vertex) *Patch {
	next := p.Shape.Next(v)
	if next == nil {
		return nil
	}
	for _, other := range m.Patches {
		if other != p && other.Shape.FindEdge(next, v) != -1 {
			return other
		}
	}
	return nil
}

// neighbours returns all patches sharing at least one edge with p.
func (m *Model) neighbours(p *Patch) []*Patch {
	var out []*Patch
	for _, other := range m.Patches {
		if other != p && other.Shape.Borders(p.Shape) {
			out = append(out, other)
		}
	}
	return out
}

// isEnclosed reports whether every patch around p is part of the city, so
// p has no exposed countryside edge.
func (m *Model) isEnclosed(p *Patch) bool {
	if !p.WithinCity {
		return false
	}
	if p.WithinWalls {
		return true
	}
	for _, v := range p.Shape.V {
		for _, other := range m.patchByVertex(v) {
			if !other.WithinCity {
				return false
			}
		}
	}
	return true
}

// innerPatches returns the patches currently marked as part of the city,
// in patch order.
func (m *Model) innerPatches() []*Patch {
	var out []*Patch
	for _, p := range m.Patches {
		if p.WithinCity {
			out = append(out, p)
		}
	}
	return out
}

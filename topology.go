package towngen

import (
	"github.com/IronJade/town-generator/internal/geom"
	"github.com/IronJade/town-generator/internal/graph"
)

// Topology is the street-routing graph over patch edges. Every unblocked
// patch vertex becomes a node; every patch edge between two unblocked
// vertices becomes a link weighted by its length. Blocked vertices (wall
// and citadel interiors, minus the gates) get no node at all, so paths
// simply cannot enter them.
type Topology struct {
	graph *graph.Graph

	v2n map[*geom.Vertex]*graph.Node
	n2v map[*graph.Node]*geom.Vertex

	// nodes in creation order, for deterministic scans.
	order []*geom.Vertex

	inner []*graph.Node // nodes of city patches
	outer []*graph.Node // nodes of countryside patches
}

func newTopology(m *Model) *Topology {
	t := &Topology{
		graph: graph.New(),
		v2n:   make(map[*geom.Vertex]*graph.Node),
		n2v:   make(map[*graph.Node]*geom.Vertex),
	}

	blocked := make(map[*geom.Vertex]bool)
	if m.Citadel != nil {
		for _, v := range m.Citadel.Shape.V {
			blocked[v] = true
		}
	}
	if m.Wall != nil {
		for _, v := range m.Wall.Shape.V {
			blocked[v] = true
		}
	}
	for _, g := range m.Gates {
		delete(blocked, g)
	}

	for _, p := range m.Patches {
		withinCity := p.WithinCity
		v1 := p.Shape.At(p.Shape.Len() - 1)
		n1 := t.node(v1, blocked)
		for i := 0; i < p.Shape.Len(); i++ {
			v2 := p.Shape.At(i)
			n2 := t.node(v2, blocked)
			if n1 != nil && n2 != nil {
				n1.Link(n2, geom.Dist(v1.Point, v2.Point), true)
			}
			if n2 != nil {
				if withinCity {
					t.inner = appendNode(t.inner, n2)
				} else {
					t.outer = appendNode(t.outer, n2)
				}
			}
			v1, n1 = v2, n2
		}
	}
	return t
}

func (t *Topology) node(v *geom.Vertex, blocked map[*geom.Vertex]bool) *graph.Node {
	if blocked[v] {
		return nil
	}
	if n, ok := t.v2n[v]; ok {
		return n
	}
	n := t.graph.AddNode()
	t.v2n[v] = n
	t.n2v[n] = v
	t.order = append(t.order, v)
	return n
}

// buildPath finds the cheapest vertex chain between two handles, or nil.
func (t *Topology) buildPath(from, to *geom.Vertex, exclude []*graph.Node) []*geom.Vertex {
	nFrom, nTo := t.v2n[from], t.v2n[to]
	if nFrom == nil || nTo == nil {
		return nil
	}
	path := t.graph.Path(nFrom, nTo, exclude)
	if path == nil {
		return nil
	}
	out := make([]*geom.Vertex, len(path))
	for i, n := range path {
		out[i] = t.n2v[n]
	}
	return out
}

func appendNode(ns []*graph.Node, n *graph.Node) []*graph.Node {
	for _, x := range ns {
		if x == n {
			return ns
		}
	}
	return append(ns, n)
}

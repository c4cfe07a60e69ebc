// Package graph is a small undirected weighted graph with the cheapest-path
// search street building needs. The search expands by pure accumulated path
// cost - there is deliberately no distance-to-goal heuristic term, and ties
// break on the first node found, so the produced paths (and therefore street
// shapes) are stable run to run.
package graph

import "math"

// Node is a graph node with weighted links to its neighbours. Adjacency is
// kept in insertion order; the path search iterates it, so link order must
// stay deterministic (a map here would randomise street shapes).
type Node struct {
	neighbours []*Node
	weight     map[*Node]float64
}

// Graph owns a set of nodes.
type Graph struct {
	Nodes []*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode creates and registers a node.
func (g *Graph) AddNode() *Node {
	n := &Node{weight: map[*Node]float64{}}
	g.Nodes = append(g.Nodes, n)
	return n
}

// Link connects a to b with the given weight; symmetrical adds the reverse
// link too. Re-linking an existing neighbour just updates the weight.
func (a *Node) Link(b *Node, weight float64, symmetrical bool) {
	if _, ok := a.weight[b]; !ok {
		a.neighbours = append(a.neighbours, b)
	}
	a.weight[b] = weight
	if symmetrical {
		b.Link(a, weight, false)
	}
}

// Unlink removes the a->b link; symmetrical removes the reverse link too.
func (a *Node) Unlink(b *Node, symmetrical bool) {
	if _, ok := a.weight[b]; ok {
		delete(a.weight, b)
		for i, n := range a.neighbours {
			if n == b {
				a.neighbours = append(a.neighbours[:i], a.neighbours[i+1:]...)
				break
			}
		}
	}
	if symmetrical {
		b.Unlink(a, false)
	}
}

// Cost returns the weight of the a->b link, or +Inf when unlinked.
func (a *Node) Cost(b *Node) float64 {
	if w, ok := a.weight[b]; ok {
		return w
	}
	return math.Inf(1)
}

// Neighbours returns the linked nodes in insertion order.
func (a *Node) Neighbours() []*Node {
	out := make([]*Node, len(a.neighbours))
	copy(out, a.neighbours)
	return out
}

// Path finds the cheapest path from start to goal. Nodes in exclude are
// never expanded or revisited, but exclusion only constrains the interior
// of the path: the start always seeds the search and the goal may be
// reached even when excluded. A border gate sits on both city and
// countryside patches, so endpoints routinely appear in the exclusion
// set. Returns nil if the goal is unreachable.
func (g *Graph) Path(start, goal *Node, exclude []*Node) []*Node {
	if start == nil || goal == nil {
		return nil
	}

	closed := map[*Node]bool{}
	for _, n := range exclude {
		closed[n] = true
	}

	dist := map[*Node]float64{start: 0}
	cameFrom := map[*Node]*Node{}
	open := []*Node{start}

	for len(open) > 0 {
		// lowest known cost wins; first found wins ties
		best := 0
		for i := 1; i < len(open); i++ {
			if dist[open[i]] < dist[open[best]] {
				best = i
			}
		}
		current := open[best]
		if current == goal {
			return reconstruct(cameFrom, current)
		}
		open = append(open[:best], open[best+1:]...)
		closed[current] = true

		base := dist[current]
		for _, next := range current.neighbours {
			if closed[next] && next != goal {
				continue
			}
			score := base + current.weight[next]
			old, seen := dist[next]
			if !seen {
				open = append(open, next)
			} else if score >= old {
				continue
			}
			dist[next] = score
			cameFrom[next] = current
		}
	}
	return nil
}

func reconstruct(cameFrom map[*Node]*Node, end *Node) []*Node {
	path := []*Node{end}
	for {
		prev, ok := cameFrom[end]
		if !ok {
			break
		}
		path = append(path, prev)
		end = prev
	}
	// reverse into start->goal order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

package towngen

import (
	"math"

	"github.com/IronJade/town-generator/internal/cutter"
	"github.com/IronJade/town-generator/internal/geom"
)

// buildGeometry fills every ward with buildings. This is the last phase:
// streets have settled, so block insets can follow the final edges.
func (m *Model) buildGeometry() error {
	for _, p := range m.Patches {
		if p.Ward != nil {
			p.Ward.createGeometry(m)
		}
	}
	return nil
}

func (w *Ward) createGeometry(m *Model) {
	rng := m.rng
	switch w.Type {
	case WardCraftsmen:
		w.createAlleys(m, 10+80*rng.Float()*rng.Float(), 0.5+rng.Float()*0.2, 0.6, 0.04)
	case WardMerchant:
		w.createAlleys(m, 50+60*rng.Float(), 0.5+rng.Float()*0.3, 0.7, 0.15)
	case WardGate:
		w.createAlleys(m, 10+50*rng.Float()*rng.Float(), 0.5+rng.Float()*0.3, 0.7, 0.1)
	case WardSlum:
		w.createAlleys(m, 10+30*rng.Float()*rng.Float(), 0.6+rng.Float()*0.4, 0.8, 0.03)
	case WardPatriciate:
		w.createAlleys(m, 80+30*rng.Float(), 0.5+rng.Float()*0.3, 0.8, 0.2)
	case WardAdministration:
		w.createAlleys(m, 80+30*rng.Float(), 0.1+rng.Float()*0.3, 0.3, 0)
	case WardMarket:
		w.createMarket(m)
	case WardCathedral:
		w.createCathedral(m)
	case WardCastle:
		w.createCastle(m)
	case WardMilitary:
		w.createMilitary(m)
	case WardPark:
		w.createPark(m)
	case WardFarm:
		w.createFarm(m)
	case WardGeneric:
		// open ground
	}
}

// cityBlock is the ward's buildable area: the patch shrunk away from its
// edges by half the width of whatever runs along each edge.
func (w *Ward) cityBlock(m *Model) *geom.Polygon {
	inset := make([]float64, 0, w.patch.Shape.Len())
	innerPatch := m.Wall == nil || w.patch.WithinWalls

	w.patch.Shape.ForEdge(func(v0, v1 *geom.Vertex) {
		if m.Wall != nil && m.Wall.bordersBy(v0, v1) {
			inset = append(inset, MainStreet/2)
			return
		}
		onStreet := innerPatch && m.Plaza != nil && m.Plaza.Shape.FindEdge(v1, v0) != -1
		if !onStreet {
			for _, a := range m.Arteries {
				if containsVertex(a.V, v0) && containsVertex(a.V, v1) {
					onStreet = true
					break
				}
			}
		}
		switch {
		case onStreet:
			inset = append(inset, MainStreet/2)
		case innerPatch:
			inset = append(inset, RegularStreet/2)
		default:
			inset = append(inset, Alley/2)
		}
	})
	return w.patch.Shape.Shrink(inset)
}

func (w *Ward) createAlleys(m *Model, minArea, gridChaos, sizeChaos, emptyProb float64) {
	block := w.cityBlock(m)
	if block.Len() < 3 {
		return
	}
	w.Geometry = cutter.Alleys(m.rng, block, minArea, gridChaos, sizeChaos, emptyProb, Alley)
	if !m.isEnclosed(w.patch) {
		w.filterOutskirts(m)
	}
}

// createMarket places a single statue or fountain, centered or nudged
// towards the plaza's longest edge.
func (w *Ward) createMarket(m *Model) {
	rng := m.rng
	statue := rng.Bool(0.6)
	offset := rng.Bool(0.3)

	var v0, v1 *geom.Vertex
	if statue || offset {
		e := w.patch.Shape.LongestEdge()
		v0 = w.patch.Shape.At(e)
		v1 = w.patch.Shape.At(e + 1)
	}

	var obj *geom.Polygon
	if statue {
		obj = geom.Rect(1+rng.Float(), 1+rng.Float())
		obj.Rotate(math.Atan2(v1.Y-v0.Y, v1.X-v0.X))
	} else {
		obj = geom.Circle(1 + rng.Float())
	}

	pos := w.patch.Shape.Centroid()
	if offset {
		mid := geom.Lerp(v0.Point, v1.Point, 0.5)
		pos = geom.Lerp(mid, pos, 0.2+rng.Float()*0.4)
	}
	obj.Offset(pos)
	w.Geometry = []*geom.Polygon{obj}
}

func (w *Ward) createCathedral(m *Model) {
	block := w.cityBlock(m)
	if block.Len() < 3 {
		return
	}
	if m.rng.Bool(0.4) {
		w.Geometry = cutter.Ring(block, 2+m.rng.Float()*4)
	} else {
		w.Geometry = cutter.OrthoBuilding(m.rng, block, 50, 0.8)
	}
}

// createCastle fills the citadel with large keep blocks well clear of its
// own wall.
func (w *Ward) createCastle(m *Model) {
	block := w.patch.Shape.ShrinkEq(MainStreet * 2)
	if block.Len() < 3 {
		return
	}
	w.Geometry = cutter.OrthoBuilding(m.rng, block, math.Sqrt(block.Area())*4, 0.6)
}

func (w *Ward) createMilitary(m *Model) {
	block := w.cityBlock(m)
	if block.Len() < 3 {
		return
	}
	w.Geometry = cutter.OrthoBuilding(m.rng, block,
		math.Sqrt(block.Area())*(1+m.rng.Float()), 0.1)
}

func (w *Ward) createPark(m *Model) {
	block := w.cityBlock(m)
	if block.Len() < 3 {
		return
	}
	if block.Compactness() >= 0.7 {
		w.Geometry = cutter.Radial(block, nil, Alley)
	} else {
		w.Geometry = cutter.SemiRadial(block, Alley)
	}
}

// createFarm drops a small rotated farmstead between the patch boundary
// and its middle.
func (w *Ward) createFarm(m *Model) {
	rng := m.rng
	housing := geom.Rect(4, 4)
	corner := w.patch.Shape.At(rng.Int(0, w.patch.Shape.Len()))
	pos := geom.Lerp(corner.Point, w.patch.Shape.Centroid(), 0.3+rng.Float()*0.4)
	housing.Rotate(rng.Float() * math.Pi)
	housing.Offset(pos)
	w.Geometry = cutter.OrthoBuilding(rng, housing, 8, 0.5)
}

type populatedEdge struct {
	a, d  geom.Point
	depth float64
}

// filterOutskirts thins out buildings on patches with countryside exposure.
// Buildings survive in proportion to how close they sit to a populated edge
// (a street, or a border with settled neighbours) and how "lively" the
// patch corners around them are.
func (w *Ward) filterOutskirts(m *Model) {
	var edges []populatedEdge

	addEdge := func(v1, v2 *geom.Vertex, factor float64) {
		d := v2.Sub(v1.Point)
		depth := 0.0
		for _, v := range w.patch.Shape.V {
			if v != v1 && v != v2 {
				if dd := geom.DistToLine(v1.Point, d, v.Point); dd > depth {
					depth = dd
				}
			}
		}
		edges = append(edges, populatedEdge{a: v1.Point, d: d, depth: depth * factor})
	}

	w.patch.Shape.ForEdge(func(v1, v2 *geom.Vertex) {
		onRoad := false
		for _, a := range m.Arteries {
			if containsVertex(a.V, v1) && containsVertex(a.V, v2) {
				onRoad = true
				break
			}
		}
		if onRoad {
			addEdge(v1, v2, 1)
			return
		}
		n := m.neighbour(w.patch, v1)
		if n != nil && n.WithinCity {
			if m.isEnclosed(n) {
				addEdge(v1, v2, 1)
			} else {
				addEdge(v1, v2, 0.4)
			}
		}
	})

	// per-corner liveliness: gates draw people, interior corners have
	// some, corners facing open country none.
	density := make([]float64, w.patch.Shape.Len())
	for i, v := range w.patch.Shape.V {
		if containsVertex(m.Gates, v) {
			density[i] = 1
			continue
		}
		interior := true
		for _, p := range m.patchByVertex(v) {
			if !p.WithinCity {
				interior = false
				break
			}
		}
		if interior {
			density[i] = 2 * m.rng.Float()
		}
	}

	var kept []*geom.Polygon
	for _, building := range w.Geometry {
		minDist := 1.0
		for _, e := range edges {
			for _, v := range building.V {
				if e.depth <= 0 {
					continue
				}
				if d := geom.DistToLine(e.a, e.d, v.Point) / e.depth; d < minDist {
					minDist = d
				}
			}
		}

		weights := w.patch.Shape.Interpolate(building.Center())
		pop := 0.0
		for i, wgt := range weights {
			pop += density[i] * wgt
		}
		minDist /= pop // pop == 0 pushes minDist to +Inf, dropping the building

		if m.rng.Fuzzy(1) > minDist {
			kept = append(kept, building)
		}
	}
	w.Geometry = kept
}

package towngen

import (
	"math"

	"github.com/pkg/errors"

	"github.com/IronJade/town-generator/internal/geom"
)

// Street widths, in world units. Block insets are half of these.
const (
	MainStreet    = 2.0
	RegularStreet = 1.0
	Alley         = 0.6
)

var (
	// ErrBadWallShape means no viable gate position existed on a wall.
	ErrBadWallShape = errors.New("wall has no viable gate location")

	// ErrBadCitadelShape means the citadel patch was too stretched out
	// to carry a castle.
	ErrBadCitadelShape = errors.New("citadel shape is not compact enough")

	// errCircumference means the member patches did not stitch into a
	// single closed outline.
	errCircumference = errors.New("patches do not form a closed circumference")
)

// circumference stitches the outer boundary of a set of patches into one
// closed polygon, reusing the patches' vertex handles. An edge is on the
// boundary iff no member patch holds it reversed.
func circumference(patches []*Patch) (*geom.Polygon, error) {
	if len(patches) == 0 {
		return geom.NewPolygon(), nil
	}
	if len(patches) == 1 {
		return geom.NewPolygon(patches[0].Shape.V...), nil
	}

	var va, vb []*geom.Vertex
	for _, p := range patches {
		p.Shape.ForEdge(func(a, b *geom.Vertex) {
			shared := false
			for _, q := range patches {
				if q != p && q.Shape.FindEdge(b, a) != -1 {
					shared = true
					break
				}
			}
			if !shared {
				va = append(va, a)
				vb = append(vb, b)
			}
		})
	}
	if len(va) == 0 {
		return nil, errCircumference
	}

	out := geom.NewPolygon()
	idx := 0
	for {
		out.V = append(out.V, va[idx])
		next := -1
		for j, a := range va {
			if a == vb[idx] {
				next = j
				break
			}
		}
		if next == -1 {
			return nil, errCircumference
		}
		idx = next
		if va[idx] == va[0] {
			break
		}
		if out.Len() > len(va) {
			return nil, errCircumference
		}
	}
	// a closed walk that left boundary edges unused means the members do
	// not share one connected outline
	if out.Len() != len(va) {
		return nil, errCircumference
	}
	return out, nil
}

// CurtainWall is the outline around a group of patches. The city border is
// always one of these; it only gets physical wall geometry (towers, wall
// strokes on the map) when real is true. The castle reuses the same type
// for its own wall.
type CurtainWall struct {
	Shape  *geom.Polygon  `json:"shape"`
	Gates  []*geom.Vertex `json:"gates"`
	Towers []*geom.Vertex `json:"towers,omitempty"`

	// Segments flags which edges are actual wall. Edge i runs from
	// vertex i to vertex i+1. All true for now; kept so that rivers and
	// cliffs can punch holes later.
	Segments []bool `json:"-"`

	real    bool
	patches []*Patch
}

func newCurtainWall(real bool, m *Model, patches []*Patch, reserved []*geom.Vertex) (*CurtainWall, error) {
	w := &CurtainWall{real: real, patches: patches}

	if len(patches) == 1 {
		w.Shape = patches[0].Shape
	} else {
		shape, err := circumference(patches)
		if err != nil {
			return nil, err
		}
		w.Shape = shape

		if real {
			// straighten the outline a little. the more patches the
			// wall encloses, the stronger the smoothing, otherwise
			// big cities get very crinkly walls.
			f := math.Min(1, 40/float64(len(patches)))
			moved := make([]geom.Point, w.Shape.Len())
			for i, v := range w.Shape.V {
				if containsVertex(reserved, v) {
					moved[i] = v.Point
				} else {
					moved[i] = w.Shape.SmoothVertex(v, f)
				}
			}
			for i, v := range w.Shape.V {
				v.Set(moved[i])
			}
		}
	}

	w.Segments = make([]bool, w.Shape.Len())
	for i := range w.Segments {
		w.Segments[i] = true
	}

	if err := w.buildGates(real, m, reserved); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *CurtainWall) buildGates(real bool, m *Model, reserved []*geom.Vertex) error {
	// gate candidates are junction vertices: they already connect the
	// walled area to more than one patch, so a street can continue
	// through them.
	var entrances []*geom.Vertex
	if len(w.patches) > 1 {
		for _, v := range w.Shape.V {
			if !containsVertex(reserved, v) && countWithin(w.patches, m.patchByVertex(v)) > 1 {
				entrances = append(entrances, v)
			}
		}
	} else {
		for _, v := range w.Shape.V {
			if !containsVertex(reserved, v) {
				entrances = append(entrances, v)
			}
		}
	}
	if len(entrances) == 0 {
		return ErrBadWallShape
	}

	for len(entrances) > 0 {
		index := m.rng.Int(0, len(entrances))
		gate := entrances[index]
		w.Gates = append(w.Gates, gate)

		if real {
			w.carveRoadStub(m, gate, reserved)
		}

		// drop the gate and its immediate neighbours so gates keep
		// some spacing along the wall.
		entrances = dropAround(entrances, index)
		if len(entrances) < 3 {
			break
		}
	}
	if len(w.Gates) == 0 {
		return ErrBadWallShape
	}

	if real {
		// pull gates towards the wall line so the road passes through
		// a flat stretch rather than a corner.
		for _, gate := range w.Gates {
			gate.Set(w.Shape.SmoothVertex(gate, 1))
		}
	}
	return nil
}

// carveRoadStub splits the single countryside patch outside a gate in two,
// so the gate road has an edge chain to follow away from the wall.
func (w *CurtainWall) carveRoadStub(m *Model, gate *geom.Vertex, reserved []*geom.Vertex) {
	var outer []*Patch
	for _, p := range m.patchByVertex(gate) {
		if !containsPatch(w.patches, p) {
			outer = append(outer, p)
		}
	}
	if len(outer) != 1 || outer[0].Shape.Len() <= 3 {
		return
	}
	o := outer[0]

	prev, next := w.Shape.Prev(gate), w.Shape.Next(gate)
	if prev == nil || next == nil {
		return
	}
	wallDir := next.Sub(prev.Point)
	out := geom.P(wallDir.Y, -wallDir.X)

	far := o.Shape.MaxVertex(func(v *geom.Vertex) float64 {
		if v == gate || w.Shape.Contains(v) || containsVertex(reserved, v) {
			return math.Inf(-1)
		}
		dir := v.Sub(gate.Point)
		return dir.Dot(out) / dir.Norm()
	})
	if far == nil {
		return
	}

	halves := o.Shape.Split(gate, far)
	if halves == nil {
		log.WithFields(map[string]interface{}{"gate": gate.Point}).
			Debug("gate road stub produced a degenerate split, skipping")
		return
	}
	for i, p := range m.Patches {
		if p == o {
			a := &Patch{Shape: halves[0]}
			b := &Patch{Shape: halves[1]}
			m.Patches = append(m.Patches[:i],
				append([]*Patch{a, b}, m.Patches[i+1:]...)...)
			break
		}
	}
}

// buildTowers puts a tower on every wall vertex that is not a gate and sits
// next to at least one real wall segment.
func (w *CurtainWall) buildTowers() {
	w.Towers = nil
	if !w.real {
		return
	}
	n := w.Shape.Len()
	for i, v := range w.Shape.V {
		if !containsVertex(w.Gates, v) && (w.Segments[(i+n-1)%n] || w.Segments[i]) {
			w.Towers = append(w.Towers, v)
		}
	}
}

// radius is the walled area's reach from the town origin.
func (w *CurtainWall) radius() float64 {
	r := 0.0
	for _, v := range w.Shape.V {
		r = math.Max(r, v.Norm())
	}
	return r
}

func (w *CurtainWall) containsGate(v *geom.Vertex) bool {
	return containsVertex(w.Gates, v)
}

// bordersBy reports whether the edge (a, b) of a patch lies on the wall.
func (w *CurtainWall) bordersBy(a, b *geom.Vertex) bool {
	return w.Shape.FindEdge(a, b) != -1 || w.Shape.FindEdge(b, a) != -1
}

func containsVertex(vs []*geom.Vertex, v *geom.Vertex) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func containsPatch(ps []*Patch, p *Patch) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

func countWithin(members []*Patch, touching []*Patch) int {
	n := 0
	for _, p := range touching {
		if containsPatch(members, p) {
			n++
		}
	}
	return n
}

// dropAround removes the chosen entrance and its neighbours on both sides,
// wrapping around the ends of the list. The input slice is left untouched;
// callers hold aliases into it.
func dropAround(entrances []*geom.Vertex, index int) []*geom.Vertex {
	n := len(entrances)
	if n <= 3 {
		return nil
	}
	out := make([]*geom.Vertex, 0, n-3)
	switch index {
	case 0:
		out = append(out, entrances[2:n-1]...)
	case n - 1:
		out = append(out, entrances[1:index-1]...)
	default:
		out = append(out, entrances[:index-1]...)
		out = append(out, entrances[index+2:]...)
	}
	return out
}

package towngen

import (
	"math"

	"github.com/pkg/errors"

	"github.com/IronJade/town-generator/internal/geom"
)

// ErrNoStreet means a gate could not be connected to the town center.
var ErrNoStreet = errors.New("unable to build a street")

// buildStreets routes a street from every gate to the town center and, for
// border gates, a road out into the countryside, then merges everything
// into smooth arteries.
func (m *Model) buildStreets() error {
	m.topology = newTopology(m)

	for _, gate := range m.Gates {
		// streets end at the plaza corner closest to the gate, or at
		// the central crossroads when there is no plaza.
		end := m.centerV
		if m.Plaza != nil {
			end = m.Plaza.Shape.MinVertex(func(v *geom.Vertex) float64 {
				return geom.Dist(v.Point, gate.Point)
			})
		}

		street := m.topology.buildPath(gate, end, m.topology.outer)
		if street == nil {
			return errors.Wrapf(ErrNoStreet, "gate at (%.1f, %.1f)", gate.X, gate.Y)
		}
		m.Streets = append(m.Streets, geom.NewPolyline(street...))

		if m.Border.containsGate(gate) {
			m.buildRoad(gate)
		}
	}

	m.tidyUp()
	return nil
}

// buildRoad routes a countryside road to a border gate. Failure here is
// cosmetic, the gate just has no road leading to it.
func (m *Model) buildRoad(gate *geom.Vertex) {
	// aim at a far point straight out of the gate and start the road
	// from whichever vertex lies closest to it.
	far := geom.Scale(gate.Point, 1000)
	var start *geom.Vertex
	best := math.Inf(1)
	for _, v := range m.topology.order {
		d := geom.Dist(v.Point, far)
		if d < best {
			best = d
			start = v
		}
	}
	if start == nil {
		return
	}

	road := m.topology.buildPath(start, gate, m.topology.inner)
	if road == nil {
		log.WithFields(map[string]interface{}{"gate": gate.Point}).
			Debug("no road reaches this gate")
		return
	}
	m.Roads = append(m.Roads, geom.NewPolyline(road...))
}

type segment struct {
	a, b *geom.Vertex
}

// tidyUp merges streets and roads into arteries: deduplicated chains of
// segments, smoothed in place. Smoothing writes through the shared vertex
// handles, so bordering patches follow the streets.
func (m *Model) tidyUp() {
	var segments []segment

	cut := func(line *geom.Polyline) {
		for i := 0; i+1 < line.Len(); i++ {
			va, vb := line.V[i], line.V[i+1]
			if va == vb {
				continue
			}
			// segments along the plaza boundary stay open ground.
			if m.Plaza != nil && m.Plaza.Shape.Contains(va) && m.Plaza.Shape.Contains(vb) {
				continue
			}
			dup := false
			for _, s := range segments {
				if (s.a == va && s.b == vb) || (s.a == vb && s.b == va) {
					dup = true
					break
				}
			}
			if !dup {
				segments = append(segments, segment{va, vb})
			}
		}
	}
	for _, s := range m.Streets {
		cut(s)
	}
	for _, r := range m.Roads {
		cut(r)
	}

	for len(segments) > 0 {
		s := segments[0]
		segments = segments[1:]
		chain := []*geom.Vertex{s.a, s.b}

		attached := true
		for attached {
			attached = false
			for i, s2 := range segments {
				head, tail := chain[0], chain[len(chain)-1]
				switch {
				case s2.a == tail:
					chain = append(chain, s2.b)
				case s2.b == tail:
					chain = append(chain, s2.a)
				case s2.a == head:
					chain = append([]*geom.Vertex{s2.b}, chain...)
				case s2.b == head:
					chain = append([]*geom.Vertex{s2.a}, chain...)
				default:
					continue
				}
				segments = append(segments[:i], segments[i+1:]...)
				attached = true
				break
			}
		}
		m.Arteries = append(m.Arteries, geom.NewPolyline(chain...))
	}

	for _, a := range m.Arteries {
		a.Smooth(3)
	}
}

// Package cutter carves block polygons into building footprints. Everything
// in here is a pure function over an explicit random stream - no ambient
// state - so the same inputs always produce the same buildings.
package cutter

import (
	"math"
	"sort"

	"github.com/IronJade/town-generator/internal/geom"
	"github.com/IronJade/town-generator/internal/prng"
)

// recursion stops here no matter what the area thresholds say; a block cut
// this many times is already dust
const maxDepth = 32

// Bisect cuts the polygon with a line through the point at `ratio` along the
// edge starting at v, perpendicular to that edge rotated by `angle`. A
// positive gap leaves an alley between the halves.
func Bisect(p *geom.Polygon, v *geom.Vertex, ratio, angle, gap float64) []*geom.Polygon {
	i := p.IndexOf(v)
	if i < 0 {
		return []*geom.Polygon{p}
	}
	next := p.At(i + 1)
	p1 := geom.Lerp(v.Point, next.Point, ratio)
	d := geom.Rotate(next.Point.Sub(v.Point), angle)
	return p.Cut(p1, p1.Add(d.Ortho()), gap)
}

// Alleys recursively bisects a block through its longest edge until the
// pieces fall under minArea, leaving `alley`-wide gaps along each cut.
//
// gridChaos spreads the cut point away from the edge midpoint and lets the
// cut angle wander (up to +-30 degrees at full chaos; small blocks always
// cut straight so buildings stay rectangular). sizeChaos jitters the area
// threshold on a log scale, mixing large and small footprints. Each terminal
// piece is dropped with probability emptyProb to leave yards.
func Alleys(rng *prng.Rand, block *geom.Polygon, minArea, gridChaos, sizeChaos, emptyProb, alley float64) []*geom.Polygon {
	if block.Area() < minArea {
		return []*geom.Polygon{block}
	}

	var out []*geom.Polygon
	var slice func(p *geom.Polygon, depth int)
	slice = func(p *geom.Polygon, depth int) {
		i := p.LongestEdge()
		v := p.V[i]

		spread := 0.8 * gridChaos
		ratio := (1-spread)/2 + rng.Float()*spread

		angleSpread := math.Pi / 3 * gridChaos
		if p.Area() < minArea*4 {
			angleSpread = 0
		}
		angle := (rng.Float() - 0.5) * angleSpread

		halves := Bisect(p, v, ratio, angle, alley)
		if len(halves) < 2 {
			out = append(out, p)
			return
		}
		for _, half := range halves {
			jitter := math.Pow(2, 4*sizeChaos*(rng.Float()-0.5))
			if half.Area() < minArea*jitter || depth >= maxDepth {
				if !rng.Bool(emptyProb) && half.Area() > 1e-6 {
					out = append(out, half)
				}
			} else {
				slice(half, depth+1)
			}
		}
	}
	slice(block, 0)
	return out
}

// OrthoBuilding cuts a block into a regimented grid: every cut runs along
// whichever of the longest edge's two axes is less aligned with that edge,
// so orientation alternates, at a near-middle ratio with no gap. Terminal
// pieces under minBlockArea survive with probability fill. A degenerate cut
// voids the whole attempt; a few attempts are made before giving up empty.
func OrthoBuilding(rng *prng.Rand, block *geom.Polygon, minBlockArea, fill float64) []*geom.Polygon {
	if block.Area() < minBlockArea {
		return []*geom.Polygon{block}
	}

	i := block.LongestEdge()
	c1 := block.At(i + 1).Point.Sub(block.V[i].Point)
	c2 := c1.Ortho()

	for attempt := 0; attempt < 5; attempt++ {
		blocks, ok := orthoSlice(rng, block, c1, c2, minBlockArea, fill, 0)
		if ok && len(blocks) > 0 {
			return blocks
		}
	}
	return nil
}

func orthoSlice(rng *prng.Rand, p *geom.Polygon, c1, c2 geom.Point, minBlockArea, fill float64, depth int) ([]*geom.Polygon, bool) {
	i := p.LongestEdge()
	v0 := p.V[i]
	v1 := p.At(i + 1)
	edge := v1.Point.Sub(v0.Point)

	ratio := 0.4 + rng.Float()*0.2
	at := geom.Lerp(v0.Point, v1.Point, ratio)

	// cut across whichever axis the longest edge runs along; each cut
	// leaves the perpendicular extent longest, so successive cuts
	// alternate direction
	c := c1
	if math.Abs(edge.Dot(c1)) > math.Abs(edge.Dot(c2)) {
		c = c2
	}

	halves := p.Cut(at, at.Add(c), 0)
	if len(halves) < 2 {
		return nil, false
	}

	var out []*geom.Polygon
	for _, half := range halves {
		jitter := math.Pow(2, rng.Norm()*2-1)
		if half.Area() < minBlockArea*jitter || depth >= maxDepth {
			if rng.Bool(fill) && half.Area() > 1e-6 {
				out = append(out, half)
			}
			continue
		}
		sub, ok := orthoSlice(rng, half, c1, c2, minBlockArea, fill, depth+1)
		if !ok {
			return nil, false
		}
		out = append(out, sub...)
	}
	return out, true
}

// Radial fans the polygon into triangles from a centre point (the centroid
// when nil) to every boundary edge. A positive gap shrinks each sector
// symmetrically along its two spoke edges.
func Radial(p *geom.Polygon, center *geom.Point, gap float64) []*geom.Polygon {
	var c geom.Point
	if center != nil {
		c = *center
	} else {
		c = p.Centroid()
	}

	var sectors []*geom.Polygon
	p.ForEdge(func(v0, v1 *geom.Vertex) {
		sector := geom.FromPoints(c, v0.Point, v1.Point)
		if gap > 0 {
			sector = sector.Shrink([]float64{gap / 2, 0, gap / 2})
		}
		if sector.Len() >= 3 {
			sectors = append(sectors, sector)
		}
	})
	return sectors
}

// SemiRadial fans from the boundary vertex nearest the centroid, skipping
// the edges that touch the apex itself. The gap is asymmetric: only spoke
// edges that double as an outer boundary edge of the polygon get no inset,
// everything else is shrunk by gap/2.
func SemiRadial(p *geom.Polygon, gap float64) []*geom.Polygon {
	centroid := p.Centroid()
	apex := p.MinVertex(func(v *geom.Vertex) float64 {
		return geom.Dist(v.Point, centroid)
	})

	gap /= 2
	var sectors []*geom.Polygon
	p.ForEdge(func(v0, v1 *geom.Vertex) {
		if v0 == apex || v1 == apex {
			return
		}
		sector := geom.FromPoints(apex.Point, v0.Point, v1.Point)
		if gap > 0 {
			d0, d1 := gap, gap
			if p.FindEdge(apex, v0) >= 0 {
				d0 = 0
			}
			if p.FindEdge(v1, apex) >= 0 {
				d1 = 0
			}
			sector = sector.Shrink([]float64{d0, 0, d1})
		}
		if sector.Len() >= 3 {
			sectors = append(sectors, sector)
		}
	})
	return sectors
}

// Ring peels a band of the given thickness off the polygon, one edge at a
// time. Edges are processed shortest first, which keeps short edges from
// being offset past their neighbours and degenerating the cut.
func Ring(p *geom.Polygon, thickness float64) []*geom.Polygon {
	type slice struct {
		a, b   geom.Point
		length float64
	}

	var slices []slice
	p.ForEdge(func(v0, v1 *geom.Vertex) {
		e := v1.Point.Sub(v0.Point)
		off := geom.Scale(e.Ortho(), thickness)
		slices = append(slices, slice{
			a:      v0.Point.Add(off),
			b:      v1.Point.Add(off),
			length: e.Norm(),
		})
	})
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].length < slices[j].length
	})

	body := p
	var bands []*geom.Polygon
	for _, s := range slices {
		halves := body.Cut(s.a, s.b, 0)
		if len(halves) < 2 {
			continue
		}
		body = halves[0]
		bands = append(bands, halves[1])
		if body.Len() < 3 {
			break
		}
	}
	return bands
}

package towngen

import (
	"math"

	"github.com/IronJade/town-generator/internal/geom"
)

// WardType labels what a patch is used for.
type WardType string

const (
	WardCastle         WardType = "castle"
	WardCathedral      WardType = "cathedral"
	WardMarket         WardType = "market"
	WardCraftsmen      WardType = "craftsmen"
	WardMerchant       WardType = "merchant"
	WardGate           WardType = "gate"
	WardSlum           WardType = "slum"
	WardAdministration WardType = "administration"
	WardMilitary       WardType = "military"
	WardPatriciate     WardType = "patriciate"
	WardPark           WardType = "park"
	WardFarm           WardType = "farm"
	WardGeneric        WardType = "generic"
)

// Ward is a patch's assigned role plus the building geometry generated for
// it. Building geometry is generated last and never mutated, so a corner it
// shares with the patch boundary stays put.
type Ward struct {
	Type     WardType        `json:"type"`
	Geometry []*geom.Polygon `json:"geometry,omitempty"`

	// Wall is only set on the castle ward.
	Wall *CurtainWall `json:"wall,omitempty"`

	patch *Patch
}

func newWard(t WardType, p *Patch) *Ward {
	w := &Ward{Type: t, patch: p}
	p.Ward = w
	return w
}

// wardPalette is the draw order for ward assignment: mostly craftsmen with
// the civic and wealthy wards salted through the first half so even small
// towns get them.
var wardPalette = []WardType{
	WardCraftsmen, WardCraftsmen, WardMerchant, WardCraftsmen, WardCraftsmen,
	WardCathedral, WardCraftsmen, WardCraftsmen, WardCraftsmen, WardSlum,
	WardCraftsmen, WardCraftsmen, WardCraftsmen, WardCraftsmen, WardAdministration,
	WardCraftsmen, WardSlum, WardCraftsmen, WardSlum, WardPatriciate,
	WardMarket, WardSlum, WardCraftsmen, WardCraftsmen, WardCraftsmen,
	WardSlum, WardCraftsmen, WardSlum, WardSlum, WardCraftsmen,
	WardMarket, WardCraftsmen, WardMilitary, WardPark, WardPatriciate,
	WardMarket, WardMerchant,
}

// wardRatings scores candidate patches for a ward type, lower is better.
// Types without an entry pick a random unassigned patch instead.
var wardRatings = map[WardType]func(m *Model, p *Patch) float64{
	WardMarket:         rateMarket,
	WardCathedral:      rateCathedral,
	WardMerchant:       rateMerchant,
	WardSlum:           rateSlum,
	WardAdministration: rateAdministration,
	WardMilitary:       rateMilitary,
	WardPatriciate:     ratePatriciate,
}

// townHeart is the point wards measure their distance against.
func (m *Model) townHeart() geom.Point {
	if m.Plaza != nil {
		return m.Plaza.Shape.Center()
	}
	return m.centerV.Point
}

// rateMarket avoids sitting next to another market and, when a plaza
// exists, prefers a patch of similar size to it.
func rateMarket(m *Model, p *Patch) float64 {
	for _, n := range m.neighbours(p) {
		if n.Ward != nil && n.Ward.Type == WardMarket {
			return math.Inf(1)
		}
	}
	if m.Plaza != nil {
		return math.Abs(p.Shape.Area() - m.Plaza.Shape.Area())
	}
	return p.Shape.MinDistance(m.townHeart())
}

// rateCathedral wants to be central and big: next to the plaza the biggest
// patch wins, otherwise centrality is weighted by size.
func rateCathedral(m *Model, p *Patch) float64 {
	if m.Plaza != nil && p.Shape.Borders(m.Plaza.Shape) {
		return -1 / p.Shape.Area()
	}
	return p.Shape.MinDistance(m.townHeart()) * p.Shape.Area()
}

func rateMerchant(m *Model, p *Patch) float64 {
	return p.Shape.MinDistance(m.townHeart())
}

func rateSlum(m *Model, p *Patch) float64 {
	return -p.Shape.MinDistance(m.townHeart())
}

func rateAdministration(m *Model, p *Patch) float64 {
	if m.Plaza != nil && p.Shape.Borders(m.Plaza.Shape) {
		return 0
	}
	return p.Shape.MinDistance(m.townHeart())
}

// rateMilitary prefers the citadel's side, then the wall. With both present
// a patch touching neither is out of the question, with neither present it
// does not care.
func rateMilitary(m *Model, p *Patch) float64 {
	bordersCitadel := m.Citadel != nil && p.Shape.Borders(m.Citadel.Shape)
	bordersWall := false
	if m.Wall != nil {
		for _, v := range p.Shape.V {
			if m.Wall.Shape.Contains(v) {
				bordersWall = true
				break
			}
		}
	}
	switch {
	case bordersCitadel:
		return 0
	case bordersWall:
		return 1
	case m.Citadel == nil && m.Wall == nil:
		return 0
	case m.Citadel != nil && m.Wall != nil:
		return math.Inf(1)
	default:
		return 2
	}
}

// ratePatriciate likes parks next door and hates slums.
func ratePatriciate(m *Model, p *Patch) float64 {
	score := 0.0
	for _, n := range m.neighbours(p) {
		if n.Ward == nil {
			continue
		}
		switch n.Ward.Type {
		case WardPark:
			score--
		case WardSlum:
			score++
		}
	}
	return score
}

// createWards assigns a role to every patch: plaza and gate wards first,
// then the palette over the remaining city patches, then outskirts and
// farms outside.
func (m *Model) createWards() error {
	var unassigned []*Patch
	for _, p := range m.innerPatches() {
		if p.Ward == nil { // the citadel already carries its castle
			unassigned = append(unassigned, p)
		}
	}

	if m.Plaza != nil {
		newWard(WardMarket, m.Plaza)
		unassigned = removePatch(unassigned, m.Plaza)
	}

	// inner gate wards. with a real wall a gate pulls commerce, so the
	// chance is higher.
	gateProb := 0.2
	if m.Wall != nil {
		gateProb = 0.5
	}
	for _, gate := range m.Border.Gates {
		for _, p := range m.patchByVertex(gate) {
			if p.WithinCity && p.Ward == nil && m.rng.Bool(gateProb) {
				newWard(WardGate, p)
				unassigned = removePatch(unassigned, p)
			}
		}
	}

	palette := append([]WardType(nil), wardPalette...)
	for i := 0; i < len(palette)/10; i++ {
		j := m.rng.Int(0, len(palette)-1)
		palette[j], palette[j+1] = palette[j+1], palette[j]
	}

	for len(unassigned) > 0 {
		wt := WardSlum
		if len(palette) > 0 {
			wt, palette = palette[0], palette[1:]
		}

		var best *Patch
		if rate := wardRatings[wt]; rate != nil {
			bestScore := math.Inf(1)
			for _, p := range unassigned {
				if s := rate(m, p); s < bestScore {
					bestScore = s
					best = p
				}
			}
			if best == nil {
				// every candidate was forbidden, settle for the first.
				best = unassigned[0]
			}
		} else {
			best = unassigned[m.rng.Int(0, len(unassigned))]
		}
		newWard(wt, best)
		unassigned = removePatch(unassigned, best)
	}

	// outskirts: most wall gates grow a small ward on the outside.
	if m.Wall != nil {
		skipProb := outskirtSkipProb(m.NPatches)
		for _, gate := range m.Wall.Gates {
			if m.rng.Bool(skipProb) {
				continue
			}
			for _, p := range m.patchByVertex(gate) {
				if p.Ward == nil {
					p.WithinCity = true
					newWard(WardGate, p)
				}
			}
		}
	}

	// everything left is countryside: the occasional compact patch
	// becomes a farm, the rest stays open.
	m.CityRadius = 0
	for _, p := range m.Patches {
		if p.WithinCity {
			for _, v := range p.Shape.V {
				m.CityRadius = math.Max(m.CityRadius, v.Norm())
			}
		} else if p.Ward == nil {
			if m.rng.Bool(0.2) && p.Shape.Compactness() >= 0.7 {
				newWard(WardFarm, p)
			} else {
				newWard(WardGeneric, p)
			}
		}
	}
	return nil
}

// outskirtSkipProb scales the chance of a bare wall gate with town size.
// Bigger towns sprawl more; at 6 patches and under the formula leaves the
// probability range, so it saturates and no outskirts ever grow.
func outskirtSkipProb(nPatches int) float64 {
	if nPatches <= 6 {
		return 1
	}
	return 1 / float64(nPatches-5)
}

func removePatch(ps []*Patch, p *Patch) []*Patch {
	for i, x := range ps {
		if x == p {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}

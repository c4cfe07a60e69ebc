package towngen

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/IronJade/town-generator/internal/delaunay"
	"github.com/IronJade/town-generator/internal/geom"
	"github.com/IronJade/town-generator/internal/prng"
)

// buildAttempts bounds how many times generation retries with a derived
// seed before giving up. Failures are rare geometry dead ends (a wall with
// no gate spot, a squashed citadel), so a handful of attempts is plenty.
const buildAttempts = 5

var (
	// ErrExhaustedRetries means no attempt produced a valid town.
	ErrExhaustedRetries = errors.New("town generation failed after all attempts")

	// ErrInvalidPatch means the planar subdivision produced a
	// self-intersecting patch.
	ErrInvalidPatch = errors.New("subdivision produced a self-intersecting patch")
)

// Model is a fully generated town. All fields are ready once New returns;
// the model is immutable afterwards and safe for concurrent reads.
type Model struct {
	Seed     int64 `json:"seed"`
	NPatches int   `json:"n_patches"`

	Patches []*Patch `json:"patches"`
	Plaza   *Patch   `json:"-"`
	Citadel *Patch   `json:"-"`

	// Border is the city limit. Wall points at the same object when the
	// town is walled, and is nil otherwise.
	Border *CurtainWall `json:"border"`
	Wall   *CurtainWall `json:"wall,omitempty"`

	Gates []*geom.Vertex `json:"gates"`

	Streets  []*geom.Polyline `json:"streets"`
	Roads    []*geom.Polyline `json:"roads,omitempty"`
	Arteries []*geom.Polyline `json:"arteries"`

	// CityRadius is the reach of the city from the origin, covering
	// outskirt wards outside the wall.
	CityRadius float64 `json:"city_radius"`

	Stats *TownStats `json:"stats"`

	cfg TownConfig
	rng *prng.Rand

	plazaNeeded   bool
	citadelNeeded bool
	wallsNeeded   bool

	// centerV is the patch vertex nearest the origin, the default
	// street destination.
	centerV *geom.Vertex

	topology *Topology
}

// TownStats summarises a generated town.
type TownStats struct {
	Wards      map[WardType]int `json:"wards"`
	NBuildings int              `json:"n_buildings"`
	NGates     int              `json:"n_gates"`
	Walled     bool             `json:"walled"`
}

// New generates a town. The config seed pins the whole construction: the
// same config yields a bit-identical model. Rare geometric dead ends are
// retried on derived seeds a bounded number of times before giving up, so
// a returned model is always complete.
func New(cfg TownConfig) (*Model, error) {
	cfg = cfg.withDefaults()

	rng := prng.New(cfg.Seed)
	seed := rng.Seed()

	var lastErr error
	for attempt := 0; attempt < buildAttempts; attempt++ {
		if attempt > 0 {
			rng.Reset(deriveSeed(seed, attempt))
		}
		m := &Model{cfg: cfg, rng: rng, Seed: seed, NPatches: cfg.NPatches}
		if err := m.build(); err != nil {
			lastErr = err
			log.WithFields(logrus.Fields{
				"seed":    rng.Seed(),
				"attempt": attempt + 1,
				"error":   err,
			}).Warn("generation attempt failed")
			continue
		}
		m.collectStats()
		m.topology = nil
		m.rng = nil
		return m, nil
	}
	return nil, errors.Wrapf(ErrExhaustedRetries, "seed %d: %v", seed, lastErr)
}

// deriveSeed maps a base seed and attempt number to a fresh stream start,
// keeping the retry sequence itself deterministic.
func deriveSeed(seed int64, attempt int) int64 {
	s := (seed*48271 + int64(attempt)) % math.MaxInt32
	if s <= 0 {
		s += math.MaxInt32 - 1
	}
	return s
}

func (m *Model) build() error {
	m.plazaNeeded = m.cfg.Plaza.resolve(m.rng)
	m.citadelNeeded = m.cfg.Citadel.resolve(m.rng)
	m.wallsNeeded = m.cfg.Walls.resolve(m.rng)

	phases := []struct {
		name string
		fn   func() error
	}{
		{"patches", m.buildPatches},
		{"junctions", m.optimizeJunctions},
		{"walls", m.buildWalls},
		{"streets", m.buildStreets},
		{"wards", m.createWards},
		{"geometry", m.buildGeometry},
	}
	for _, ph := range phases {
		if err := ph.fn(); err != nil {
			return errors.Wrap(err, ph.name)
		}
		m.yield()
	}
	return nil
}

func (m *Model) yield() {
	if m.cfg.Yield != nil {
		m.cfg.Yield()
	}
}

// buildPatches seeds points along an outward spiral, relaxes the central
// cells, then carves the plane into patches via the Voronoi partitioning.
// Patch zero is the town center; the NPatches-th patch can become the
// citadel since it sits right on the city edge.
func (m *Model) buildPatches() error {
	sa := m.rng.Float() * 2 * math.Pi
	points := make([]geom.Point, m.NPatches*8)
	for i := range points {
		a := sa + math.Sqrt(float64(i))*5
		r := 0.0
		if i > 0 {
			r = 10 + float64(i)*(2+m.rng.Float())
		}
		points[i] = geom.P(math.Cos(a)*r, math.Sin(a)*r)
	}

	v := delaunay.Build(points)
	for i := 0; i < 3; i++ {
		v = delaunay.Build(v.Relax(0, 1, 2, m.NPatches))
	}

	pts := v.Points()
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Norm() < pts[j].Norm()
	})
	v = delaunay.Build(pts)

	regions := v.Partitioning()

	m.Patches = nil
	m.Plaza, m.Citadel = nil, nil
	for i, reg := range regions {
		patch := newPatch(reg)
		m.Patches = append(m.Patches, patch)

		if i == 0 {
			m.centerV = patch.Shape.MinVertex(func(v *geom.Vertex) float64 {
				return v.Norm()
			})
			if m.plazaNeeded {
				m.Plaza = patch
			}
		} else if i == m.NPatches && m.citadelNeeded {
			patch.WithinCity = true
			m.Citadel = patch
		}

		if i < m.NPatches {
			patch.WithinCity = true
			patch.WithinWalls = m.wallsNeeded
		}
	}

	for _, p := range m.Patches {
		if !p.Shape.IsSimple() {
			return ErrInvalidPatch
		}
	}
	return nil
}

// optimizeJunctions merges nearly coincident junctions of the city patches,
// which otherwise produce sliver blocks and absurdly short streets. The
// survivor handle is moved to the midpoint and substituted into every patch
// that held the dropped one.
func (m *Model) optimizeJunctions() error {
	wards := m.innerPatches()

	for _, w := range wards {
		index := 0
		for index < w.Shape.Len() {
			v0 := w.Shape.At(index)
			v1 := w.Shape.At(index + 1)
			if v0 != v1 && geom.Dist(v0.Point, v1.Point) < 8 {
				for _, w1 := range m.patchByVertex(v1) {
					if w1 == w {
						continue
					}
					for k, vv := range w1.Shape.V {
						if vv == v1 {
							w1.Shape.V[k] = v0
						}
					}
				}
				v0.Set(geom.Lerp(v0.Point, v1.Point, 0.5))
				j := (index + 1) % w.Shape.Len()
				w.Shape.V = append(w.Shape.V[:j], w.Shape.V[j+1:]...)
			} else {
				index++
			}
		}
	}

	// the substitutions can leave the same handle twice in a row.
	for _, p := range m.Patches {
		p.Shape.V = dedupeConsecutive(p.Shape.V)
	}
	return nil
}

func dedupeConsecutive(vs []*geom.Vertex) []*geom.Vertex {
	if len(vs) < 2 {
		return vs
	}
	out := make([]*geom.Vertex, 0, len(vs))
	for i, v := range vs {
		if v != vs[(i+1)%len(vs)] {
			out = append(out, v)
		}
	}
	return out
}

// buildWalls raises the city border (and the curtain wall when the town is
// walled), then culls countryside patches too far out to matter.
func (m *Model) buildWalls() error {
	var reserved []*geom.Vertex
	if m.Citadel != nil {
		reserved = append(reserved, m.Citadel.Shape.V...)
	}

	border, err := newCurtainWall(m.wallsNeeded, m, m.innerPatches(), reserved)
	if err != nil {
		return err
	}
	m.Border = border
	if m.wallsNeeded {
		m.Wall = border
		m.Wall.buildTowers()
	}

	radius := border.radius()
	kept := m.Patches[:0]
	for _, p := range m.Patches {
		if p.WithinCity || p.Shape.MinDistance(m.centerV.Point) < radius*3 {
			kept = append(kept, p)
		}
	}
	m.Patches = kept

	m.Gates = append([]*geom.Vertex(nil), border.Gates...)

	if m.Citadel != nil {
		if err := m.buildCastle(); err != nil {
			return err
		}
	}
	return nil
}

// buildCastle walls off the citadel. Vertices facing only countryside are
// reserved, so the gates land on the city side where a street can actually
// leave; they join the model's gate list so streets reach them too.
func (m *Model) buildCastle() error {
	if m.Citadel.Shape.Compactness() < 0.75 {
		return ErrBadCitadelShape
	}

	var reserved []*geom.Vertex
	for _, v := range m.Citadel.Shape.V {
		citySide := false
		for _, p := range m.patchByVertex(v) {
			if p != m.Citadel && p.WithinCity {
				citySide = true
				break
			}
		}
		if !citySide {
			reserved = append(reserved, v)
		}
	}

	wall, err := newCurtainWall(true, m, []*Patch{m.Citadel}, reserved)
	if err != nil {
		return err
	}
	wall.buildTowers()

	castle := newWard(WardCastle, m.Citadel)
	castle.Wall = wall

	m.Gates = append(m.Gates, wall.Gates...)
	return nil
}

func (m *Model) collectStats() {
	s := &TownStats{
		Wards:  make(map[WardType]int),
		NGates: len(m.Gates),
		Walled: m.Wall != nil,
	}
	for _, p := range m.Patches {
		if p.Ward == nil {
			continue
		}
		s.Wards[p.Ward.Type]++
		s.NBuildings += len(p.Ward.Geometry)
	}
	m.Stats = s
}

// JSON renders the model as an indented snapshot. Shared vertices are
// flattened to coordinates, so a reloaded snapshot can be inspected and
// drawn but not regenerated.
func (m *Model) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	return b, errors.Wrap(err, "encoding town")
}

// SaveJSON writes the snapshot to a file.
func (m *Model) SaveJSON(path string) error {
	b, err := m.JSON()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, b, 0644), "writing %s", path)
}

// Load decodes a town snapshot. The result holds the geometry needed for
// rendering and stats; vertex identity is not restored, so it cannot be
// used to continue generation.
func Load(data []byte) (*Model, error) {
	m := &Model{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "decoding town")
	}
	return m, nil
}

// LoadJSON reads a town snapshot from a file.
func LoadJSON(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Load(b)
}

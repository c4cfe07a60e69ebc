package towngen

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
)

func genTown(t *testing.T, cfg TownConfig) *Model {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	return m
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := TownConfig{NPatches: 15, Seed: 42}
	a := genTown(t, cfg)
	b := genTown(t, cfg)

	ja, err := a.JSON()
	if err != nil {
		t.Fatal(err)
	}
	jb, err := b.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ja, jb) {
		t.Fatal("same config must produce a bit-identical town")
	}
}

func TestGenerateDefaults(t *testing.T) {
	m := genTown(t, TownConfig{Seed: 7})
	if m.NPatches != SmallCity {
		t.Errorf("default patch count = %d, want %d", m.NPatches, SmallCity)
	}
	if m.Seed != 7 {
		t.Errorf("seed = %d, want 7", m.Seed)
	}
	if m.Border == nil {
		t.Fatal("every town has a border")
	}
	if m.Stats == nil {
		t.Fatal("stats missing")
	}
}

func TestPickedSeedIsRecorded(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 8})
	if m.Seed <= 0 {
		t.Fatalf("picked seed should be positive, got %d", m.Seed)
	}
	// and replaying the recorded seed reproduces the town
	again := genTown(t, TownConfig{NPatches: 8, Seed: m.Seed})
	if len(again.Patches) != len(m.Patches) {
		t.Error("recorded seed does not reproduce the town")
	}
}

func TestPatchesAreSimplePolygons(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42})
	for i, p := range m.Patches {
		if p.Shape.Len() < 3 {
			t.Errorf("patch %d has %d vertices", i, p.Shape.Len())
		}
		if !p.Shape.IsSimple() {
			t.Errorf("patch %d is self-intersecting", i)
		}
	}
}

func TestNeighboursShareHandles(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 10, Seed: 5})
	for _, p := range m.innerPatches() {
		if len(m.neighbours(p)) == 0 {
			t.Fatal("a city patch must share edges with its neighbours")
		}
	}
}

func TestJunctionsMerged(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42})
	for _, p := range m.innerPatches() {
		n := p.Shape.Len()
		for i := 0; i < n; i++ {
			v0 := p.Shape.At(i)
			v1 := p.Shape.At(i + 1)
			if v0 == v1 {
				t.Fatal("duplicate consecutive handle survived junction merging")
			}
		}
	}
}

func TestGatesLieOnTheirWalls(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42, Walls: Always})
	if m.Wall == nil {
		t.Fatal("walls were forced on")
	}
	if len(m.Border.Gates) == 0 {
		t.Fatal("a walled town needs at least one gate")
	}
	for _, g := range m.Border.Gates {
		if !m.Border.Shape.Contains(g) {
			t.Error("gate handle is not a wall vertex")
		}
	}
	for _, tw := range m.Wall.Towers {
		if containsVertex(m.Wall.Gates, tw) {
			t.Error("tower placed on a gate")
		}
	}
}

func TestWallsNever(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 10, Seed: 11, Walls: Never})
	if m.Wall != nil {
		t.Fatal("walls were forced off")
	}
	if m.Border == nil {
		t.Fatal("the border exists even without walls")
	}
	if len(m.Border.Towers) != 0 {
		t.Error("an unwalled border has no towers")
	}
}

func TestStreetsConnectEveryGate(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42, Walls: Always})
	if len(m.Streets) != len(m.Gates) {
		t.Fatalf("%d streets for %d gates", len(m.Streets), len(m.Gates))
	}
	for i, s := range m.Streets {
		if s.First() != m.Gates[i] {
			t.Errorf("street %d does not start at its gate", i)
		}
		if s.Len() < 2 {
			t.Errorf("street %d is a single point", i)
		}
	}
	if len(m.Arteries) == 0 {
		t.Fatal("streets should merge into arteries")
	}
}

func TestCityRadiusCoversCity(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42})
	if m.CityRadius <= 0 {
		t.Fatal("city radius must be positive")
	}
	for _, p := range m.Patches {
		if !p.WithinCity {
			continue
		}
		for _, v := range p.Shape.V {
			if v.Norm() > m.CityRadius+1e-9 {
				t.Fatalf("city vertex at %f beyond radius %f", v.Norm(), m.CityRadius)
			}
		}
	}
}

func TestEveryPatchHasAWard(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42})
	for i, p := range m.Patches {
		if p.Ward == nil {
			t.Fatalf("patch %d has no ward", i)
		}
		if p.WithinCity && (p.Ward.Type == WardFarm || p.Ward.Type == WardGeneric) {
			t.Errorf("patch %d: countryside ward %q inside the city", i, p.Ward.Type)
		}
	}
}

func TestPlazaAlwaysBecomesMarket(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 10, Seed: 3, Plaza: Always})
	if m.Plaza == nil {
		t.Fatal("plaza was forced on")
	}
	if m.Plaza.Ward == nil || m.Plaza.Ward.Type != WardMarket {
		t.Fatal("the plaza patch should carry the market ward")
	}
	if len(m.Plaza.Ward.Geometry) != 1 {
		t.Errorf("plaza should hold a single centrepiece, got %d", len(m.Plaza.Ward.Geometry))
	}
}

func TestCitadelCarriesCastle(t *testing.T) {
	// citadel generation can legitimately exhaust its retries on an
	// unlucky seed, so scan a few
	var m *Model
	for seed := int64(1); seed <= 10; seed++ {
		town, err := New(TownConfig{NPatches: 15, Seed: seed, Citadel: Always})
		if err == nil {
			m = town
			break
		}
	}
	if m == nil {
		t.Fatal("no seed in 1..10 produced a citadel town")
	}
	if m.Citadel == nil {
		t.Fatal("citadel was forced on")
	}
	w := m.Citadel.Ward
	if w == nil || w.Type != WardCastle {
		t.Fatal("the citadel patch should carry the castle ward")
	}
	if w.Wall == nil || len(w.Wall.Gates) == 0 {
		t.Fatal("the castle has its own gated wall")
	}
	if c := m.Citadel.Shape.Compactness(); c < 0.75 {
		t.Errorf("citadel compactness %f below threshold", c)
	}
	// castle gates open onto the city side, so each one gets a street
	for _, g := range w.Wall.Gates {
		found := false
		for _, s := range m.Streets {
			if s.First() == g {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("castle gate at (%.1f, %.1f) has no street", g.X, g.Y)
		}
	}
}

func TestBuildingsHavePositiveArea(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 15, Seed: 42})
	count := 0
	for _, p := range m.Patches {
		if p.Ward == nil {
			continue
		}
		for _, b := range p.Ward.Geometry {
			if b.Area() <= 0 {
				t.Error("building with non-positive area")
			}
			count++
		}
	}
	if count == 0 {
		t.Fatal("a town should have some buildings")
	}
	if m.Stats.NBuildings != count {
		t.Errorf("stats report %d buildings, counted %d", m.Stats.NBuildings, count)
	}
}

func TestStatsMatchModel(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 10, Seed: 9, Walls: Always})
	if m.Stats.NGates != len(m.Gates) {
		t.Errorf("stats gates %d != %d", m.Stats.NGates, len(m.Gates))
	}
	if !m.Stats.Walled {
		t.Error("stats should report the wall")
	}
	total := 0
	for _, n := range m.Stats.Wards {
		total += n
	}
	if total != len(m.Patches) {
		t.Errorf("ward counts sum to %d over %d patches", total, len(m.Patches))
	}
}

func TestJSONSnapshotParses(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 8, Seed: 2})
	b, err := m.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	for _, key := range []string{"seed", "patches", "border", "arteries", "stats"} {
		if _, ok := out[key]; !ok {
			t.Errorf("snapshot missing %q", key)
		}
	}
}

func TestSnapshotReloadKeepsGeometry(t *testing.T) {
	m := genTown(t, TownConfig{NPatches: 8, Seed: 2, Walls: Always})
	b, err := m.JSON()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != m.Seed || len(got.Patches) != len(m.Patches) {
		t.Fatalf("reload lost patches: seed %d/%d, patches %d/%d",
			got.Seed, m.Seed, len(got.Patches), len(m.Patches))
	}
	if got.Wall == nil || got.Wall.Shape.Len() != m.Wall.Shape.Len() {
		t.Error("reload lost the wall shape")
	}
	for i, p := range got.Patches {
		want := m.Patches[i]
		if p.Ward == nil || p.Ward.Type != want.Ward.Type {
			t.Fatalf("patch %d ward changed across reload", i)
		}
		if len(p.Ward.Geometry) != len(want.Ward.Geometry) {
			t.Fatalf("patch %d building count changed across reload", i)
		}
		if !approxf(p.Shape.Area(), want.Shape.Area(), 1e-9) {
			t.Fatalf("patch %d area changed across reload", i)
		}
	}
	if NewTownMap(got, 2).Image(nil) == nil {
		t.Error("reloaded snapshot should still render")
	}
}

func TestYieldIsCalledBetweenPhases(t *testing.T) {
	calls := 0
	genTown(t, TownConfig{NPatches: 8, Seed: 2, Yield: func() { calls++ }})
	if calls == 0 {
		t.Fatal("yield hook never ran")
	}
	// six phases per attempt, so a single clean attempt gives six calls
	if calls%6 != 0 {
		t.Errorf("expected a multiple of 6 yields, got %d", calls)
	}
}

func TestOutskirtSkipProbStaysInRange(t *testing.T) {
	// the formula leaves [0, 1] below 7 patches and must saturate there,
	// otherwise tiny towns would sprout an outskirt at every gate
	for _, n := range []int{1, 4, 5, 6} {
		if p := outskirtSkipProb(n); p != 1 {
			t.Errorf("%d patches: skip probability %f, want 1", n, p)
		}
	}
	if p := outskirtSkipProb(7); !approxf(p, 0.5, 1e-12) {
		t.Errorf("7 patches: skip probability %f, want 0.5", p)
	}
	if p := outskirtSkipProb(15); !approxf(p, 0.1, 1e-12) {
		t.Errorf("15 patches: skip probability %f, want 0.1", p)
	}
}

func TestDeriveSeedStaysInRange(t *testing.T) {
	for attempt := 0; attempt < buildAttempts; attempt++ {
		s := deriveSeed(12345, attempt)
		if s <= 0 || s >= math.MaxInt32 {
			t.Errorf("derived seed %d out of range", s)
		}
	}
	if deriveSeed(1, 1) == deriveSeed(1, 2) {
		t.Error("attempts should derive distinct seeds")
	}
}

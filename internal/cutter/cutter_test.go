package cutter

import (
	"math"
	"testing"

	"github.com/IronJade/town-generator/internal/geom"
	"github.com/IronJade/town-generator/internal/prng"
)

const alleyWidth = 0.6

func block20() *geom.Polygon {
	return geom.FromPoints(
		geom.P(0, 0), geom.P(20, 0), geom.P(20, 20), geom.P(0, 20),
	)
}

func TestBisectHalvesCoverBlock(t *testing.T) {
	b := block20()
	halves := Bisect(b, b.V[0], 0.5, 0, 0)
	if len(halves) != 2 {
		t.Fatalf("expected 2 halves, got %d", len(halves))
	}
	total := halves[0].Area() + halves[1].Area()
	if math.Abs(total-400) > 1e-6 {
		t.Errorf("halves cover %f, want 400", total)
	}
}

func TestAlleysTerminateAndStayInside(t *testing.T) {
	rng := prng.New(42)
	buildings := Alleys(rng, block20(), 30, 0.5, 0.5, 0, alleyWidth)
	if len(buildings) == 0 {
		t.Fatal("expected some buildings")
	}
	total := 0.0
	for _, b := range buildings {
		a := b.Area()
		if a <= 0 {
			t.Error("building with non-positive area")
		}
		total += a
		for _, v := range b.V {
			if v.X < -1e-6 || v.X > 20+1e-6 || v.Y < -1e-6 || v.Y > 20+1e-6 {
				t.Fatalf("building vertex (%f,%f) escaped the block", v.X, v.Y)
			}
		}
	}
	if total >= 400 {
		t.Error("alleys should eat some of the block area")
	}
}

func TestAlleysDeterministic(t *testing.T) {
	a := Alleys(prng.New(7), block20(), 30, 0.6, 0.5, 0.1, alleyWidth)
	b := Alleys(prng.New(7), block20(), 30, 0.6, 0.5, 0.1, alleyWidth)
	if len(a) != len(b) {
		t.Fatalf("building counts differ: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Len() != b[i].Len() {
			t.Fatalf("building %d shape differs", i)
		}
		for j := range a[i].V {
			if a[i].V[j].Point != b[i].V[j].Point {
				t.Fatalf("building %d vertex %d differs", i, j)
			}
		}
	}
}

func TestAlleysEmptyProbDropsEverything(t *testing.T) {
	buildings := Alleys(prng.New(3), block20(), 30, 0.5, 0.5, 1, alleyWidth)
	if len(buildings) != 0 {
		t.Errorf("emptyProb 1 should drop every terminal piece, got %d", len(buildings))
	}
}

func TestAlleysSmallBlockPassesThrough(t *testing.T) {
	small := geom.FromPoints(geom.P(0, 0), geom.P(2, 0), geom.P(2, 2), geom.P(0, 2))
	out := Alleys(prng.New(1), small, 100, 0.5, 0.5, 0, alleyWidth)
	if len(out) != 1 || out[0] != small {
		t.Error("a block already under minArea should come back whole")
	}
}

func TestOrthoBuildingPositiveAreas(t *testing.T) {
	rng := prng.New(99)
	blocks := OrthoBuilding(rng, block20(), 40, 1)
	if len(blocks) == 0 {
		t.Fatal("fill 1 should keep every terminal block")
	}
	for _, b := range blocks {
		if b.Area() <= 0 {
			t.Error("block with non-positive area")
		}
	}
}

func TestRadialSectorsCoverConvexBlock(t *testing.T) {
	sectors := Radial(block20(), nil, 0)
	if len(sectors) != 4 {
		t.Fatalf("expected a sector per edge, got %d", len(sectors))
	}
	total := 0.0
	for _, s := range sectors {
		total += s.Area()
	}
	if math.Abs(total-400) > 1e-6 {
		t.Errorf("gapless sectors cover %f, want 400", total)
	}
}

func TestRadialGapShrinksSectors(t *testing.T) {
	sectors := Radial(block20(), nil, 1)
	total := 0.0
	for _, s := range sectors {
		total += s.Area()
	}
	if total >= 400 {
		t.Error("gapped sectors must not cover the whole block")
	}
}

func TestSemiRadialSkipsApexEdges(t *testing.T) {
	// apex is whichever corner ends up nearest the centroid; a square is
	// symmetric so just check the counts and areas
	sectors := SemiRadial(block20(), 0)
	if len(sectors) != 2 {
		t.Fatalf("square fan from a corner has 2 sectors, got %d", len(sectors))
	}
	total := 0.0
	for _, s := range sectors {
		total += s.Area()
	}
	if math.Abs(total-400) > 1e-6 {
		t.Errorf("gapless fan covers %f, want 400", total)
	}
}

func TestRingPeelsBands(t *testing.T) {
	bands := Ring(block20(), 3)
	if len(bands) != 4 {
		t.Fatalf("expected 4 bands, got %d", len(bands))
	}
	total := 0.0
	for _, b := range bands {
		if b.Area() <= 0 {
			t.Error("band with non-positive area")
		}
		total += b.Area()
	}
	// the 14x14 courtyard stays open
	if math.Abs(total-(400-196)) > 1e-6 {
		t.Errorf("bands cover %f, want 204", total)
	}
}

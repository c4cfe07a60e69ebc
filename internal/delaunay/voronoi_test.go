package delaunay

import (
	"math"
	"testing"

	"github.com/IronJade/town-generator/internal/geom"
)

// gridSeeds is a lightly jittered 5x5 grid. The jitter keeps the input in
// general position so no four seeds are cocircular.
func gridSeeds() []geom.Point {
	var pts []geom.Point
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			jx := 0.37 * float64((x*3+y*7)%5)
			jy := 0.29 * float64((x*5+y*2)%5)
			pts = append(pts, geom.P(float64(x)*10+jx, float64(y)*10+jy))
		}
	}
	return pts
}

func TestPartitioningBoundedOnly(t *testing.T) {
	v := Build(gridSeeds())
	regions := v.Partitioning()
	if len(regions) == 0 {
		t.Fatal("expected some bounded regions")
	}
	// the 5x5 grid has a 3x3 interior whose cells are bounded
	if len(regions) != 9 {
		t.Errorf("expected the 9 interior cells, got %d", len(regions))
	}
	for _, r := range regions {
		if r.touchesFrame() {
			t.Error("bounded region touches the frame")
		}
	}
}

func TestPartitioningSeedOrder(t *testing.T) {
	v := Build(gridSeeds())
	regions := v.Partitioning()
	for i := 1; i < len(regions); i++ {
		if regions[i-1].Seed >= regions[i].Seed {
			t.Fatal("regions must come back in seed insertion order")
		}
	}
}

func TestRegionsCCWAndSimple(t *testing.T) {
	v := Build(gridSeeds())
	for _, r := range v.Partitioning() {
		poly := regionPolygon(r)
		if poly.SignedArea() <= 0 {
			t.Errorf("region %d is not CCW (signed area %f)", r.Seed, poly.SignedArea())
		}
		if !poly.IsSimple() {
			t.Errorf("region %d is self-intersecting", r.Seed)
		}
		if !poly.ContainsPoint(r.SeedPoint) {
			t.Errorf("region %d does not contain its seed", r.Seed)
		}
	}
}

// Adjacent cells must hold the very same circumcenter handles, not copies.
func TestAdjacentRegionsShareHandles(t *testing.T) {
	v := Build(gridSeeds())
	regions := v.Partitioning()

	shared := 0
	for i, a := range regions {
		pa := regionPolygon(a)
		for _, b := range regions[i+1:] {
			pb := regionPolygon(b)
			for _, va := range pa.V {
				if pb.Contains(va) {
					shared++
				}
			}
		}
	}
	if shared == 0 {
		t.Fatal("interior grid cells must share corner handles with their neighbours")
	}
}

func TestRelaxMovesOnlySelected(t *testing.T) {
	pts := gridSeeds()
	v := Build(pts)
	regions := v.Partitioning()
	if len(regions) == 0 {
		t.Fatal("need bounded regions")
	}
	target := regions[0].Seed

	out := v.Relax(target)
	if len(out) != len(pts) {
		t.Fatalf("relax changed the seed count: %d != %d", len(out), len(pts))
	}
	for i, p := range out {
		if i == target {
			continue
		}
		if p != pts[i] {
			t.Errorf("unselected seed %d moved", i)
		}
	}
}

func TestRelaxIsDeterministic(t *testing.T) {
	a := Build(gridSeeds()).Relax(0, 1, 2)
	b := Build(gridSeeds()).Relax(0, 1, 2)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("relaxation differs at seed %d", i)
		}
	}
}

func TestCollinearTriangleDoesNotPanic(t *testing.T) {
	// three collinear points force a degenerate circumcircle along the way
	pts := []geom.Point{geom.P(0, 0), geom.P(5, 0), geom.P(10, 0), geom.P(5, 7)}
	v := Build(pts)
	if v == nil {
		t.Fatal("build failed")
	}
	for _, tr := range v.triangles {
		if math.IsNaN(tr.Radius) {
			t.Error("triangle radius is NaN")
		}
	}
}

func regionPolygon(r *Region) *geom.Polygon {
	vs := make([]*geom.Vertex, 0, len(r.Triangles))
	for _, tr := range r.Triangles {
		vs = append(vs, tr.Center)
	}
	return geom.NewPolygon(vs...)
}

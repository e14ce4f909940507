package geometry

import (
	"math"
	"testing"
)

func square(x, y, size float64) MultiPolygon {
	return MultiPolygon{{Exterior: Ring{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size},
	}}}
}

// polygonal disc area for n vertices
func discArea(r float64, n int) float64 {
	return float64(n) / 2 * r * r * math.Sin(2*math.Pi/float64(n))
}

func near(a, b, delta float64) bool {
	return math.Abs(a-b) <= delta
}

func mustBuffer(t *testing.T, line []Point) MultiPolygon {
	t.Helper()
	fp, err := Buffer(line, 0.625, 4)
	if err != nil {
		t.Fatalf("Buffer failed: %v", err)
	}
	return fp
}

func TestRingArea(t *testing.T) {
	r := Ring{{0, 0}, {4, 0}, {4, 3}, {0, 3}}
	if !near(r.SignedArea(), 12, 1e-12) {
		t.Errorf("Expected signed area 12, got %g", r.SignedArea())
	}

	rev := Ring{{0, 3}, {4, 3}, {4, 0}, {0, 0}}
	if !near(rev.SignedArea(), -12, 1e-12) {
		t.Errorf("Expected signed area -12, got %g", rev.SignedArea())
	}
	if !near(rev.Area(), 12, 1e-12) {
		t.Errorf("Expected area 12, got %g", rev.Area())
	}
}

func TestPolygonAreaWithHole(t *testing.T) {
	p := Polygon{
		Exterior: Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		Holes:    []Ring{{{2, 2}, {2, 4}, {4, 4}, {4, 2}}},
	}
	if !near(p.Area(), 96, 1e-12) {
		t.Errorf("Expected area 96, got %g", p.Area())
	}
	if !p.Contains(Pt(1, 1)) {
		t.Error("Point between exterior and hole should be inside")
	}
	if p.Contains(Pt(3, 3)) {
		t.Error("Point in the hole should be outside")
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := square(0, 0, 1).BBox()
	b := square(1, 0, 1).BBox()
	c := square(5, 5, 1).BBox()

	if !a.Intersects(b) {
		t.Error("Touching boxes should intersect")
	}
	if a.Intersects(c) {
		t.Error("Distant boxes should not intersect")
	}
	if (BBox{}).Intersects(a) {
		t.Error("Empty box should never intersect")
	}
}

func TestCanonicalIgnoresStartAndOrientation(t *testing.T) {
	a := MultiPolygon{{Exterior: Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}}
	b := MultiPolygon{{Exterior: Ring{{2, 2}, {2, 0}, {0, 0}, {0, 2}, {2, 2}}}}

	if !Equal(a, b) {
		t.Error("Rings with different start and orientation should be equal")
	}
	if Equal(a, square(0, 0, 2.0000001)) {
		t.Error("Slightly larger square should not be exactly equal")
	}
	if !EqualWithin(a, square(0, 0, 2.0000001), 1e-6) {
		t.Error("Slightly larger square should be equal within 1e-6")
	}
}

func TestEqualDifferentCounts(t *testing.T) {
	a := square(0, 0, 1)
	b := append(square(0, 0, 1), square(5, 5, 1)...)
	if Equal(a, b) {
		t.Error("Multipolygons with different member counts should differ")
	}
}

func TestIntersectionOfSquares(t *testing.T) {
	got, err := Intersection(square(0, 0, 2), square(1, 1, 2))
	if err != nil {
		t.Fatalf("Intersection failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(got))
	}
	if !near(got.Area(), 1, 1e-9) {
		t.Errorf("Expected area 1, got %g", got.Area())
	}

	got, err = Intersection(square(0, 0, 1), square(3, 3, 1))
	if err != nil || len(got) != 0 {
		t.Errorf("Expected no regions for disjoint squares, got %v (err %v)", got, err)
	}
}

func TestIntersectionTwoRegions(t *testing.T) {
	// A U-shape crossed by a bar yields two separate overlap regions.
	u := MultiPolygon{{Exterior: Ring{
		{0, 0}, {6, 0}, {6, 6}, {4, 6}, {4, 2}, {2, 2}, {2, 6}, {0, 6},
	}}}
	bar := MultiPolygon{{Exterior: Ring{{-1, 4}, {7, 4}, {7, 5}, {-1, 5}}}}

	got, err := Intersection(u, bar)
	if err != nil {
		t.Fatalf("Intersection failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(got))
	}
	for i, p := range got {
		if !near(p.Area(), 2, 1e-9) {
			t.Errorf("Region %d: expected area 2, got %g", i, p.Area())
		}
	}
}

func TestIntersectionOfCoincidentFootprints(t *testing.T) {
	fwd := mustBuffer(t, []Point{{0, 0}, {7, 3}})
	rev := mustBuffer(t, []Point{{7, 3}, {0, 0}})

	got, err := Intersection(fwd, rev)
	if err != nil {
		t.Fatalf("Intersection failed: %v", err)
	}
	if !near(got.Area(), fwd.Area(), 1e-6) {
		t.Errorf("Expected the whole footprint (%g), got %g", fwd.Area(), got.Area())
	}
}

func TestUnion(t *testing.T) {
	got, err := Union(square(0, 0, 2), square(1, 1, 2))
	if err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 polygon, got %d", len(got))
	}
	if !near(got.Area(), 7, 1e-9) {
		t.Errorf("Expected area 7, got %g", got.Area())
	}

	got, _ = Union(nil, square(0, 0, 1))
	if !Equal(got, square(0, 0, 1)) {
		t.Errorf("Union with empty should return the other operand, got %v", got)
	}
}

func TestUnionKeepsHole(t *testing.T) {
	// Four bars around a square leave a hole in the middle.
	frame := square(0, 0, 1)
	for _, sq := range []MultiPolygon{
		{{Exterior: Ring{{0, 0}, {5, 0}, {5, 1}, {0, 1}}}},
		{{Exterior: Ring{{4, 0}, {5, 0}, {5, 5}, {4, 5}}}},
		{{Exterior: Ring{{0, 4}, {5, 4}, {5, 5}, {0, 5}}}},
		{{Exterior: Ring{{0, 0}, {1, 0}, {1, 5}, {0, 5}}}},
	} {
		var err error
		frame, err = Union(frame, sq)
		if err != nil {
			t.Fatalf("Union failed: %v", err)
		}
	}
	if len(frame) != 1 || len(frame[0].Holes) != 1 {
		t.Fatalf("Expected one polygon with one hole, got %v", frame)
	}
	if !near(frame.Area(), 16, 1e-9) {
		t.Errorf("Expected area 16, got %g", frame.Area())
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b MultiPolygon
		want bool
	}{
		{"overlap", square(0, 0, 2), square(1, 1, 2), true},
		{"shared edge", square(0, 0, 1), square(1, 0, 1), true},
		{"contained", square(0, 0, 10), square(2, 2, 1), true},
		{"apart", square(0, 0, 1), square(3, 0, 1), false},
		{"boxes overlap, shapes apart", MultiPolygon{{Exterior: Ring{{0, 0}, {4, 0}, {0, 4}}}}, square(3, 3, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(a, b) = %v, want %v", got, tt.want)
			}
			if got := Intersects(tt.b, tt.a); got != tt.want {
				t.Errorf("Intersects(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvexHullIgnoresOrder(t *testing.T) {
	pts := []Point{{0, 0}, {4, 0}, {2, 1}, {4, 4}, {0, 4}}
	want := Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

	if got := ConvexHull(pts); !Equal(MultiPolygon{{Exterior: got}}, MultiPolygon{{Exterior: want}}) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	rev := []Point{{0, 4}, {4, 4}, {2, 1}, {4, 0}, {0, 0}}
	a, b := ConvexHull(pts), ConvexHull(rev)
	if len(a) != len(b) {
		t.Fatalf("Expected equal hulls, got %v and %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical vertices, got %v and %v", a, b)
		}
	}
}

func TestCapsuleArea(t *testing.T) {
	r := Capsule(Pt(0, 0), Pt(10, 0), 0.625, 4)
	if len(r) != 18 {
		t.Errorf("Expected 18 vertices, got %d", len(r))
	}
	if r.SignedArea() <= 0 {
		t.Error("Capsules should be counter-clockwise")
	}
	if want := 10*1.25 + discArea(0.625, 16); !near(r.Area(), want, 1e-9) {
		t.Errorf("Expected area %g, got %g", want, r.Area())
	}
}

func TestCapsuleIgnoresDirection(t *testing.T) {
	segs := [][2]Point{
		{{0, 0}, {10, 0}},
		{{0, 0}, {10, 5}},
		{{1.5, -2.25}, {-3, 7}},
	}
	for _, s := range segs {
		a := Capsule(s[0], s[1], 0.625, 4)
		b := Capsule(s[1], s[0], 0.625, 4)
		if len(a) != len(b) {
			t.Fatalf("%v: vertex counts differ: %d vs %d", s, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%v: vertex %d differs: %v vs %v", s, i, a[i], b[i])
				break
			}
		}
	}
}

func TestBufferSinglePointIsDisc(t *testing.T) {
	fp := mustBuffer(t, []Point{{1, 1}, {1, 1}})
	if len(fp) != 1 {
		t.Fatalf("Expected 1 polygon, got %d", len(fp))
	}
	if len(fp[0].Exterior) != 16 {
		t.Errorf("Expected 16 vertices, got %d", len(fp[0].Exterior))
	}
	if want := discArea(0.625, 16); !near(fp.Area(), want, 1e-12) {
		t.Errorf("Expected area %g, got %g", want, fp.Area())
	}
}

func TestBufferShapes(t *testing.T) {
	single := 10*1.25 + discArea(0.625, 16)
	diag := math.Sqrt(200)*1.25 + discArea(0.625, 16)

	tests := []struct {
		name     string
		line     []Point
		min, max float64
		holes    int
	}{
		{"straight", []Point{{0, 0}, {10, 0}}, single - 1e-9, single + 1e-9, 0},
		{"L shape", []Point{{0, 0}, {10, 0}, {10, 10}}, 2*single - 2, 2 * single, 0},
		{"retraced past start", []Point{{0, 0}, {10, 0}, {5, 0}}, single - 1e-6, single + 1e-6, 0},
		{"retraced to start", []Point{{0, 0}, {10, 0}, {0, 0}}, single - 1e-9, single + 1e-9, 0},
		{"self crossing", []Point{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, 42, 49, 1},
		{"closed square", []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, 45, 52, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := mustBuffer(t, tt.line)
			if len(fp) != 1 {
				t.Fatalf("Expected 1 polygon, got %d", len(fp))
			}
			if len(fp[0].Holes) != tt.holes {
				t.Errorf("Expected %d hole(s), got %d", tt.holes, len(fp[0].Holes))
			}
			area := fp.Area()
			if area < tt.min || area > tt.max {
				t.Errorf("Expected area in [%g, %g], got %g", tt.min, tt.max, area)
			}
			// No footprint may be smaller than one of its own capsules.
			if tt.name == "self crossing" && area < diag {
				t.Errorf("Area %g is below the diagonal capsule area %g", area, diag)
			}
			if area < single-1e-6 {
				t.Errorf("Area %g is below a single capsule area %g", area, single)
			}
		})
	}
}

func TestBufferReversedIsIdentical(t *testing.T) {
	lines := [][]Point{
		{{0, 0}, {10, 0}},
		{{0, 0}, {10, 0}, {10, 10}},
		{{0, 0}, {3, 1}, {5, -2}, {9, 0}},
		{{0, 0}, {10, 10}, {10, 0}, {0, 10}},
	}
	for _, line := range lines {
		rev := make([]Point, len(line))
		for i, p := range line {
			rev[len(line)-1-i] = p
		}
		a := mustBuffer(t, line)
		b := mustBuffer(t, rev)
		if !Equal(a, b) {
			t.Errorf("%v: reversed footprint differs", line)
		}
	}
}

func TestBufferBBox(t *testing.T) {
	b := mustBuffer(t, []Point{{0, 0}, {10, 0}}).BBox()
	if !near(b.MinX, -0.625, 1e-12) || !near(b.MaxX, 10.625, 1e-12) {
		t.Errorf("Expected x extent [-0.625, 10.625], got [%g, %g]", b.MinX, b.MaxX)
	}
}

func TestBufferIsDeterministic(t *testing.T) {
	line := []Point{{0, 0}, {3, 1}, {5, -2}, {9, 0}}
	a := mustBuffer(t, line)
	b := mustBuffer(t, line)
	if !Equal(a, b) {
		t.Error("Buffering the same line twice should give identical footprints")
	}
}

func TestBufferEmptyInput(t *testing.T) {
	if fp, err := Buffer(nil, 1, 4); fp != nil || err != nil {
		t.Errorf("Expected nil footprint for empty line, got %v (err %v)", fp, err)
	}
	if fp, err := Buffer([]Point{{0, 0}, {1, 0}}, 0, 4); fp != nil || err != nil {
		t.Errorf("Expected nil footprint for zero radius, got %v (err %v)", fp, err)
	}
}

func TestEquivalentIgnoresCollinearVertices(t *testing.T) {
	plain := square(0, 0, 2)
	noded := MultiPolygon{{Exterior: Ring{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {0, 2}}}}

	if Equal(plain, noded) {
		t.Fatal("Vertex comparison should see the extra vertex")
	}
	same, err := Equivalent(plain, noded, 0)
	if err != nil {
		t.Fatalf("Equivalent failed: %v", err)
	}
	if !same {
		t.Error("Squares with an extra collinear vertex should be equivalent")
	}

	same, err = Equivalent(plain, square(0, 0, 2.0000001), 0)
	if err != nil {
		t.Fatalf("Equivalent failed: %v", err)
	}
	if same {
		t.Error("A slightly larger square should not be equivalent without tolerance")
	}
}

func TestEquivalentRetracedBuffer(t *testing.T) {
	once := mustBuffer(t, []Point{{0, 0}, {10, 0}})
	back := mustBuffer(t, []Point{{0, 0}, {10, 0}, {5, 0}})

	same, err := Equivalent(once, back, 0)
	if err != nil {
		t.Fatalf("Equivalent failed: %v", err)
	}
	if !same {
		t.Errorf("Retraced footprint should cover the same region: %g vs %g", once.Area(), back.Area())
	}
}

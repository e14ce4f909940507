package geometry

import (
	"fmt"
	"math"

	sf "github.com/peterstace/simplefeatures/geom"
)

// toSF converts m into a simplefeatures MultiPolygon. Rings are closed on
// the way out; members without an exterior are dropped.
func toSF(m MultiPolygon) sf.Geometry {
	polys := make([]sf.Polygon, 0, len(m))
	for _, p := range m {
		if p.Empty() {
			continue
		}
		rings := []sf.LineString{toLineString(p.Exterior)}
		for _, h := range p.Holes {
			if len(h.Clean()) >= 3 {
				rings = append(rings, toLineString(h))
			}
		}
		polys = append(polys, sf.NewPolygon(rings))
	}
	return sf.NewMultiPolygon(polys).AsGeometry()
}

func toLineString(r Ring) sf.LineString {
	c := r.Clean()
	coords := make([]float64, 0, 2*len(c)+2)
	for _, p := range c {
		coords = append(coords, p.X, p.Y)
	}
	coords = append(coords, c[0].X, c[0].Y)
	return sf.NewLineString(sf.NewSequence(coords, sf.DimXY))
}

// fromSF collects the polygonal parts of g. Points and lines left over
// from an overlay carry no area and are ignored.
func fromSF(g sf.Geometry) MultiPolygon {
	var out MultiPolygon
	switch g.Type() {
	case sf.TypePolygon:
		out = appendPolygon(out, g.MustAsPolygon())
	case sf.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			out = appendPolygon(out, mp.PolygonN(i))
		}
	case sf.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		for i := 0; i < gc.NumGeometries(); i++ {
			out = append(out, fromSF(gc.GeometryN(i))...)
		}
	}
	return out
}

func appendPolygon(out MultiPolygon, p sf.Polygon) MultiPolygon {
	ext := fromLineString(p.ExteriorRing())
	if len(ext) < 3 {
		return out
	}
	poly := Polygon{Exterior: ext}
	for i := 0; i < p.NumInteriorRings(); i++ {
		if h := fromLineString(p.InteriorRingN(i)); len(h) >= 3 {
			poly.Holes = append(poly.Holes, h)
		}
	}
	return append(out, poly)
}

func fromLineString(ls sf.LineString) Ring {
	seq := ls.Coordinates()
	r := make(Ring, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		r = append(r, Point{X: xy.X, Y: xy.Y})
	}
	return r.Clean()
}

// Intersection returns the regions covered by both a and b, one polygon
// per connected region. Disjoint inputs give an empty result.
func Intersection(a, b MultiPolygon) (MultiPolygon, error) {
	if a.Empty() || b.Empty() || !a.BBox().Intersects(b.BBox()) {
		return nil, nil
	}
	g, err := sf.Intersection(toSF(a), toSF(b))
	if err != nil {
		return nil, fmt.Errorf("intersection: %w", err)
	}
	return fromSF(g), nil
}

// Union returns the regions covered by a or b.
func Union(a, b MultiPolygon) (MultiPolygon, error) {
	switch {
	case a.Empty():
		return b, nil
	case b.Empty():
		return a, nil
	}
	g, err := sf.Union(toSF(a), toSF(b))
	if err != nil {
		return nil, fmt.Errorf("union: %w", err)
	}
	return fromSF(g), nil
}

// sameAreaTolerance is the symmetric difference, relative to the larger
// area, below which two footprints count as the same region.
const sameAreaTolerance = 1e-9

// Equivalent reports whether a and b cover the same region. Footprints
// that match vertex for vertex (within tol per coordinate) are equivalent
// without an overlay. Otherwise, when areas and bounds agree, the area of
// the symmetric difference decides; this catches boundaries that differ
// only by extra collinear vertices from noding.
func Equivalent(a, b MultiPolygon, tol float64) (bool, error) {
	if EqualWithin(a, b, tol) {
		return true, nil
	}
	aa, ab := a.Area(), b.Area()
	scale := max(aa, ab)
	if scale == 0 || math.Abs(aa-ab) > sameAreaTolerance*scale || !boundsAgree(a.BBox(), b.BBox(), tol) {
		return false, nil
	}
	g, err := sf.SymmetricDifference(toSF(a), toSF(b))
	if err != nil {
		return false, fmt.Errorf("symmetric difference: %w", err)
	}
	return fromSF(g).Area() <= sameAreaTolerance*scale, nil
}

func boundsAgree(a, b BBox, tol float64) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	near := func(x, y float64) bool {
		return math.Abs(x-y) <= tol+sameAreaTolerance*max(1, math.Abs(x))
	}
	return near(a.MinX, b.MinX) && near(a.MinY, b.MinY) &&
		near(a.MaxX, b.MaxX) && near(a.MaxY, b.MaxY)
}

// ConvexHull returns the counter-clockwise hull of pts in canonical form.
// The hull only picks input points, so identical point sets give identical
// rings whatever their order.
func ConvexHull(pts []Point) Ring {
	if len(pts) < 3 {
		return nil
	}
	coords := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		coords = append(coords, p.X, p.Y)
	}
	hull := sf.NewLineString(sf.NewSequence(coords, sf.DimXY)).AsGeometry().ConvexHull()
	mp := fromSF(hull)
	if len(mp) == 0 {
		return nil
	}
	return mp[0].Exterior.Canonical(true)
}

// Intersects reports whether a and b share at least one point, boundary
// contact included.
func Intersects(a, b MultiPolygon) bool {
	if !a.BBox().Intersects(b.BBox()) {
		return false
	}
	for _, pa := range a {
		for _, pb := range b {
			if polygonsIntersect(pa, pb) {
				return true
			}
		}
	}
	return false
}

func polygonsIntersect(a, b Polygon) bool {
	if a.Empty() || b.Empty() || !a.BBox().Intersects(b.BBox()) {
		return false
	}
	ra := append([]Ring{a.Exterior}, a.Holes...)
	rb := append([]Ring{b.Exterior}, b.Holes...)
	for _, x := range ra {
		for _, y := range rb {
			if ringsCross(x, y) {
				return true
			}
		}
	}
	// No boundary contact: one is inside the other or they are apart.
	return b.Contains(a.Exterior[0]) || a.Contains(b.Exterior[0])
}

func ringsCross(a, b Ring) bool {
	if !a.BBox().Intersects(b.BBox()) {
		return false
	}
	for i := range a {
		a0, a1 := a[i], a[(i+1)%len(a)]
		for j := range b {
			if segmentsIntersect(a0, a1, b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// segmentsIntersect is the closed-segment test, so shared endpoints and
// collinear overlaps count.
func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

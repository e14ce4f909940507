package geometry

import (
	"math"
	"sort"
)

// Clean drops repeated consecutive vertices and a repeated closing vertex.
func (r Ring) Clean() Ring {
	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// Canonical returns a copy of r with consistent orientation (ccw when
// ccw is true) that starts at its lowest vertex. Two rings describing the
// same boundary produce identical canonical forms.
func (r Ring) Canonical(ccw bool) Ring {
	c := r.Clean()
	if len(c) == 0 {
		return c
	}
	if (c.SignedArea() > 0) != ccw {
		for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
			c[i], c[j] = c[j], c[i]
		}
	}
	start := 0
	for i := 1; i < len(c); i++ {
		if c[i].less(c[start]) {
			start = i
		}
	}
	out := make(Ring, 0, len(c))
	out = append(out, c[start:]...)
	out = append(out, c[:start]...)
	return out
}

// Canonical normalises the exterior to counter-clockwise, holes to
// clockwise, and sorts holes by their first vertex.
func (p Polygon) Canonical() Polygon {
	out := Polygon{Exterior: p.Exterior.Canonical(true)}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, h.Canonical(false))
	}
	sort.Slice(out.Holes, func(i, j int) bool {
		return firstVertex(out.Holes[i]).less(firstVertex(out.Holes[j]))
	})
	return out
}

// Canonical returns canonical members sorted by their first vertex.
func (m MultiPolygon) Canonical() MultiPolygon {
	out := make(MultiPolygon, 0, len(m))
	for _, p := range m {
		if p.Empty() {
			continue
		}
		out = append(out, p.Canonical())
	}
	sort.Slice(out, func(i, j int) bool {
		return firstVertex(out[i].Exterior).less(firstVertex(out[j].Exterior))
	})
	return out
}

func firstVertex(r Ring) Point {
	if len(r) == 0 {
		return Point{}
	}
	return r[0]
}

// Equal reports whether a and b describe the same polygons vertex for
// vertex, ignoring ring start and orientation.
func Equal(a, b MultiPolygon) bool {
	return EqualWithin(a, b, 0)
}

// EqualWithin is Equal with a per-coordinate tolerance. A tolerance of 0
// means exact comparison.
func EqualWithin(a, b MultiPolygon, tol float64) bool {
	ca, cb := a.Canonical(), b.Canonical()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !ringsEqual(ca[i].Exterior, cb[i].Exterior, tol) {
			return false
		}
		if len(ca[i].Holes) != len(cb[i].Holes) {
			return false
		}
		for j := range ca[i].Holes {
			if !ringsEqual(ca[i].Holes[j], cb[i].Holes[j], tol) {
				return false
			}
		}
	}
	return true
}

func ringsEqual(a, b Ring, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if tol == 0 {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if math.Abs(a[i].X-b[i].X) > tol || math.Abs(a[i].Y-b[i].Y) > tol {
			return false
		}
	}
	return true
}

// Contains reports whether p lies strictly inside the ring (even-odd
// rule). Points on the boundary may land on either side.
func (r Ring) Contains(p Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[i], r[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Contains reports whether p is inside the exterior and outside every hole.
func (p Polygon) Contains(pt Point) bool {
	if !p.Exterior.Contains(pt) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

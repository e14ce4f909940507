// Package geometry holds the planar types shared by the extractor, the
// classifier and the renderer, plus the polygon operations they need.
//
// Rings are stored open: the closing vertex is implied and never repeated.
package geometry

import "math"

// Point is a 2-D coordinate in document units.
type Point struct {
	X, Y float64
}

// Pt is a convenience constructor.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales p by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Cross returns the z component of the 3-D cross product.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the euclidean norm of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// less orders points by X, then Y.
func (p Point) less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// BBox is an axis aligned bounding box. The zero value with Valid unset
// is the empty box.
type BBox struct {
	MinX  float64
	MinY  float64
	MaxX  float64
	MaxY  float64
	Valid bool
}

// Extend grows b to cover p.
func (b BBox) Extend(p Point) BBox {
	if !b.Valid {
		return BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y, Valid: true}
	}
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
	return b
}

// Union returns the box covering both b and o.
func (b BBox) Union(o BBox) BBox {
	if !o.Valid {
		return b
	}
	if !b.Valid {
		return o
	}
	b = b.Extend(Point{X: o.MinX, Y: o.MinY})
	return b.Extend(Point{X: o.MaxX, Y: o.MaxY})
}

// Intersects reports whether the boxes share at least one point.
// Touching edges count.
func (b BBox) Intersects(o BBox) bool {
	if !b.Valid || !o.Valid {
		return false
	}
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX &&
		b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Ring is a closed sequence of vertices without the repeated endpoint.
type Ring []Point

// BBox returns the bounding box of the ring.
func (r Ring) BBox() BBox {
	var b BBox
	for _, p := range r {
		b = b.Extend(p)
	}
	return b
}

// SignedArea is positive for counter-clockwise rings.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area returns the unsigned ring area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Polygon is an exterior ring with optional holes.
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// BBox returns the bounding box of the exterior ring.
func (p Polygon) BBox() BBox {
	return p.Exterior.BBox()
}

// Area is the exterior area minus the hole areas.
func (p Polygon) Area() float64 {
	a := p.Exterior.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	if a < 0 {
		return 0
	}
	return a
}

// Empty reports whether the polygon has no usable exterior.
func (p Polygon) Empty() bool {
	return len(p.Exterior) < 3
}

// MultiPolygon is an ordered collection of polygons.
type MultiPolygon []Polygon

// BBox returns the box covering every member.
func (m MultiPolygon) BBox() BBox {
	var b BBox
	for _, p := range m {
		b = b.Union(p.BBox())
	}
	return b
}

// Area sums the member areas.
func (m MultiPolygon) Area() float64 {
	var a float64
	for _, p := range m {
		a += p.Area()
	}
	return a
}

// Empty reports whether m has no non-empty member.
func (m MultiPolygon) Empty() bool {
	for _, p := range m {
		if !p.Empty() {
			return false
		}
	}
	return true
}

// Geometry is implemented by Polygon, MultiPolygon and Collection so that
// renderers can walk arbitrarily nested shapes.
type Geometry interface {
	isGeometry()
}

func (Polygon) isGeometry()      {}
func (MultiPolygon) isGeometry() {}
func (Collection) isGeometry()   {}

// Collection groups geometries that belong to one identifier.
type Collection []Geometry

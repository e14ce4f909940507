// Package trace turns stroked path descriptions into footprint polygons and
// collects them into per-snapshot registries.
package trace

import (
	"fmt"

	"github.com/pstuifzand/tracediff/internal/geometry"
)

// Command is one drawing command of a path.
type Command interface {
	isCommand()
	// End is the pen position after the command.
	End() geometry.Point
}

// MoveTo starts a new subpath.
type MoveTo struct{ Point geometry.Point }

// LineTo draws a straight segment.
type LineTo struct{ Point geometry.Point }

// ClosePath closes the current subpath; Point is the subpath start.
type ClosePath struct{ Point geometry.Point }

// CubicTo draws a cubic Bézier curve.
type CubicTo struct{ Control1, Control2, Point geometry.Point }

// ArcTo draws an elliptical arc. Arcs are not supported by the extractor
// and must be flattened upstream.
type ArcTo struct {
	RX, RY   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
	Point    geometry.Point
}

func (MoveTo) isCommand()    {}
func (LineTo) isCommand()    {}
func (ClosePath) isCommand() {}
func (CubicTo) isCommand()   {}
func (ArcTo) isCommand()     {}

func (c MoveTo) End() geometry.Point    { return c.Point }
func (c LineTo) End() geometry.Point    { return c.Point }
func (c ClosePath) End() geometry.Point { return c.Point }
func (c CubicTo) End() geometry.Point   { return c.Point }
func (c ArcTo) End() geometry.Point     { return c.Point }

func (c MoveTo) String() string    { return fmt.Sprintf("M%g,%g", c.Point.X, c.Point.Y) }
func (c LineTo) String() string    { return fmt.Sprintf("L%g,%g", c.Point.X, c.Point.Y) }
func (c ClosePath) String() string { return "Z" }
func (c CubicTo) String() string {
	return fmt.Sprintf("C%g,%g %g,%g %g,%g",
		c.Control1.X, c.Control1.Y, c.Control2.X, c.Control2.Y, c.Point.X, c.Point.Y)
}
func (c ArcTo) String() string {
	return fmt.Sprintf("A%g,%g %g %t %t %g,%g", c.RX, c.RY, c.Rotation, c.LargeArc, c.Sweep, c.Point.X, c.Point.Y)
}

// PathSpec is an identified command sequence, one trace or zone outline.
type PathSpec struct {
	ID       string
	Commands []Command
}

// CubicPoint evaluates the cubic Bézier p0,p1,p2,p3 at t.
func CubicPoint(p0, p1, p2, p3 geometry.Point, t float64) geometry.Point {
	mt := 1.0 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	// (1-t)^3 P0 + 3(1-t)^2 t P1 + 3(1-t) t^2 P2 + t^3 P3
	return geometry.Point{
		X: mt3*p0.X + 3*mt2*t*p1.X + 3*mt*t2*p2.X + t3*p3.X,
		Y: mt3*p0.Y + 3*mt2*t*p1.Y + 3*mt*t2*p2.Y + t3*p3.Y,
	}
}

// RaiseQuad returns the cubic control points equivalent to the quadratic
// Bézier p0,c,p2.
func RaiseQuad(p0, c, p2 geometry.Point) (c1, c2 geometry.Point) {
	c1 = p0.Add(c.Sub(p0).Mul(2.0 / 3.0))
	c2 = p2.Add(c.Sub(p2).Mul(2.0 / 3.0))
	return c1, c2
}

package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultQuadrantSegments is the number of straight segments used for a
// quarter circle when approximating round caps and joins.
const DefaultQuadrantSegments = 4

// ErrLostGeometry is returned when a buffered footprint covers less area
// than one of the capsules it was built from.
var ErrLostGeometry = errors.New("buffer lost geometry")

// Buffer returns the Minkowski sum of the polyline with a disc of the given
// radius: round caps, round joins. Each quarter circle is approximated by
// quadSegs segments. The result is the union of one capsule per distinct
// segment; a polyline whose points all coincide yields a single disc.
//
// Segments are deduplicated and unioned in a fixed order that ignores
// their direction, so a path and its reverse produce identical vertices.
func Buffer(line []Point, radius float64, quadSegs int) (MultiPolygon, error) {
	if len(line) == 0 || radius <= 0 {
		return nil, nil
	}
	if quadSegs < 1 {
		quadSegs = DefaultQuadrantSegments
	}

	segs := segments(line)
	if len(segs) == 0 {
		return MultiPolygon{{Exterior: Disc(line[0], radius, quadSegs)}}, nil
	}

	var (
		out     MultiPolygon
		largest float64
		err     error
	)
	for _, s := range segs {
		c := Capsule(s[0], s[1], radius, quadSegs)
		largest = max(largest, c.Area())
		if out == nil {
			out = MultiPolygon{{Exterior: c}}
			continue
		}
		out, err = Union(out, MultiPolygon{{Exterior: c}})
		if err != nil {
			return nil, err
		}
	}
	if got := out.Area(); got < largest*(1-1e-9) {
		return nil, fmt.Errorf("%w: area %.6g below capsule area %.6g", ErrLostGeometry, got, largest)
	}
	return out, nil
}

// segments returns the distinct non-degenerate segments of line with
// their endpoints ordered, sorted by endpoint.
func segments(line []Point) [][2]Point {
	var segs [][2]Point
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		if a == b {
			continue
		}
		if b.less(a) {
			a, b = b, a
		}
		segs = append(segs, [2]Point{a, b})
	}
	sort.Slice(segs, func(i, j int) bool {
		if segs[i][0] != segs[j][0] {
			return segs[i][0].less(segs[j][0])
		}
		return segs[i][1].less(segs[j][1])
	})
	var out [][2]Point
	for _, s := range segs {
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Disc approximates a circle with 4*quadSegs vertices, counter-clockwise,
// starting on the positive x axis.
func Disc(c Point, radius float64, quadSegs int) Ring {
	n := 4 * quadSegs
	r := make(Ring, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		r = append(r, Point{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)})
	}
	return r
}

// Capsule is the stadium around segment a-b: the convex hull of the discs
// at both ends, in canonical counter-clockwise form. Disc vertices sit at
// fixed angles k*pi/(2*quadSegs), so Capsule(a, b) and Capsule(b, a) are
// the same ring. a and b must differ.
func Capsule(a, b Point, radius float64, quadSegs int) Ring {
	pts := append(Disc(a, radius, quadSegs), Disc(b, radius, quadSegs)...)
	return ConvexHull(pts)
}

package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/logging"
)

const (
	DefaultStrokeWidth  = 1.25
	DefaultCurveSamples = 5
)

var (
	// ErrUnsupportedArc is returned when a path contains an arc command.
	ErrUnsupportedArc = errors.New("unsupported arc command")
	// ErrDegeneratePath is returned when a path has fewer than two points.
	ErrDegeneratePath = errors.New("not enough nodes in path")
	// ErrEmptyFootprint is returned when stroking a path yields no area.
	ErrEmptyFootprint = errors.New("path has an empty footprint")
	// ErrDuplicateID is returned when a registry already holds an id.
	ErrDuplicateID = errors.New("duplicate path id")
)

// PathError records which path failed and why.
type PathError struct {
	ID  string
	Err error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %v", e.ID, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ArcPolicy says what a registry build does with a path containing an arc.
type ArcPolicy int

const (
	// ArcAbort fails the whole build.
	ArcAbort ArcPolicy = iota
	// ArcSkip logs the path and leaves it out of the registry.
	ArcSkip
)

func (p ArcPolicy) String() string {
	switch p {
	case ArcSkip:
		return "skip"
	default:
		return "abort"
	}
}

// ParseArcPolicy accepts "abort" or "skip".
func ParseArcPolicy(s string) (ArcPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return ArcAbort, nil
	case "skip":
		return ArcSkip, nil
	}
	return ArcAbort, fmt.Errorf("unknown arc policy %q (want abort or skip)", s)
}

// Options controls extraction.
type Options struct {
	StrokeWidth      float64
	QuadrantSegments int
	CurveSamples     int
	ArcPolicy        ArcPolicy
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		StrokeWidth:      DefaultStrokeWidth,
		QuadrantSegments: geometry.DefaultQuadrantSegments,
		CurveSamples:     DefaultCurveSamples,
		ArcPolicy:        ArcAbort,
	}
}

// Polyline walks the commands of spec and returns the visited points.
// Cubic curves are replaced by samples straight samples at t = i/samples.
func Polyline(spec PathSpec, samples int) ([]geometry.Point, error) {
	if samples < 1 {
		samples = DefaultCurveSamples
	}
	var (
		nodes  []geometry.Point
		pen    geometry.Point
		warned bool
	)
	for _, cmd := range spec.Commands {
		switch c := cmd.(type) {
		case MoveTo, LineTo, ClosePath:
			nodes = append(nodes, c.End())
		case CubicTo:
			if !warned {
				logging.Logger().Warn("path uses bezier curve; should not be used", "id", spec.ID)
				warned = true
			}
			for step := 1; step <= samples; step++ {
				t := float64(step) / float64(samples)
				nodes = append(nodes, CubicPoint(pen, c.Control1, c.Control2, c.Point, t))
			}
		case ArcTo:
			return nil, &PathError{ID: spec.ID, Err: ErrUnsupportedArc}
		default:
			return nil, &PathError{ID: spec.ID, Err: fmt.Errorf("unknown command %T", cmd)}
		}
		pen = cmd.End()
	}
	return nodes, nil
}

// Extract builds the footprint of spec: its polyline buffered by half the
// stroke width. Paths with arcs fail with ErrUnsupportedArc, paths with
// fewer than two points with ErrDegeneratePath. A footprint is never
// returned partially: a stroke that loses area or comes out empty is an
// error.
func Extract(spec PathSpec, opts Options) (geometry.MultiPolygon, error) {
	if opts.StrokeWidth <= 0 {
		return nil, &PathError{ID: spec.ID, Err: fmt.Errorf("stroke width must be positive, got %g", opts.StrokeWidth)}
	}
	nodes, err := Polyline(spec, opts.CurveSamples)
	if err != nil {
		return nil, err
	}
	if len(nodes) < 2 {
		return nil, &PathError{ID: spec.ID, Err: ErrDegeneratePath}
	}
	fp, err := geometry.Buffer(nodes, opts.StrokeWidth/2, opts.QuadrantSegments)
	if err != nil {
		return nil, &PathError{ID: spec.ID, Err: err}
	}
	if fp.Empty() || fp.Area() <= 0 {
		return nil, &PathError{ID: spec.ID, Err: ErrEmptyFootprint}
	}
	return fp, nil
}

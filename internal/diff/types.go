package diff

import (
	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// Kind is the relationship between a new-side and an old-side footprint.
type Kind int

const (
	// Duplicate: both footprints are the same polygon.
	Duplicate Kind = iota
	// Touching: a small overlap, assumed to be an intended connection.
	Touching
	// Conflict: an overlap large enough to be a short or collision.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Duplicate:
		return "duplicate"
	case Touching:
		return "touching"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

// Relationship is one classified pair. Overlaps is only set for Conflict
// and holds every overlap region above the touching threshold.
type Relationship struct {
	Kind     Kind
	NewID    string
	OldID    string
	Overlaps []geometry.Polygon
}

// ComparisonResult is the outcome of classifying one registry against
// another. The maps are keyed by new-side id and hold the last old-side id
// (in old registry order) that produced the relationship; one new id may
// appear in several maps.
type ComparisonResult struct {
	Duplicate map[string]string
	Touching  map[string]string
	Conflict  map[string]string
	// Added lists new ids with neither a Duplicate nor a Conflict
	// relationship, in new registry order. Touching alone does not remove
	// an id from Added.
	Added []string
	// Relationships lists every recorded pair in (new, old) registry order.
	Relationships []Relationship
}

func newComparisonResult() *ComparisonResult {
	return &ComparisonResult{
		Duplicate: make(map[string]string),
		Touching:  make(map[string]string),
		Conflict:  make(map[string]string),
	}
}

// ConflictsFor returns the conflict relationships of newID in old registry
// order.
func (r *ComparisonResult) ConflictsFor(newID string) []Relationship {
	var out []Relationship
	for _, rel := range r.Relationships {
		if rel.Kind == Conflict && rel.NewID == newID {
			out = append(out, rel)
		}
	}
	return out
}

// ConflictIDs returns the new ids with at least one conflict, in the order
// they were classified.
func (r *ComparisonResult) ConflictIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, rel := range r.Relationships {
		if rel.Kind == Conflict && !seen[rel.NewID] {
			seen[rel.NewID] = true
			ids = append(ids, rel.NewID)
		}
	}
	return ids
}

// Report holds both directions of a symmetric comparison.
type Report struct {
	Old     *trace.Registry
	New     *trace.Registry
	Forward *ComparisonResult // new against old
	Reverse *ComparisonResult // old against new
	Added   []string          // new ids unrelated to old, == Forward.Added
	Removed []string          // old ids unrelated to new, == Reverse.Added
}

// Options controls classification.
type Options struct {
	// StrokeWidth sets the touching threshold together with TouchingFactor.
	StrokeWidth float64
	// TouchingFactor: overlaps with area <= TouchingFactor*StrokeWidth^2
	// are Touching.
	TouchingFactor float64
	// EqualityTolerance is the per-coordinate tolerance for Duplicate.
	// Zero means exact equality.
	EqualityTolerance float64
	// Workers bounds the goroutines classifying new ids. Values below 2
	// run sequentially.
	Workers int
}

const DefaultTouchingFactor = 2.0

// DefaultOptions returns the standard classification settings.
func DefaultOptions() Options {
	return Options{
		StrokeWidth:    trace.DefaultStrokeWidth,
		TouchingFactor: DefaultTouchingFactor,
		Workers:        1,
	}
}

// TouchingThreshold is the largest overlap area still counted as Touching.
func (o Options) TouchingThreshold() float64 {
	return o.TouchingFactor * o.StrokeWidth * o.StrokeWidth
}

// DiffLineType indicates the type of diff line for rendering
type DiffLineType int

const (
	DiffTypeHeader DiffLineType = iota
	DiffTypeAddedSection
	DiffTypeRemovedSection
	DiffTypeConflictSection
	DiffTypeTouchingSection
	DiffTypeDuplicateSection
	DiffTypeAddedItem
	DiffTypeRemovedItem
	DiffTypeConflictItem
	DiffTypeTouchingItem
	DiffTypeDuplicateItem
	DiffTypeItemDetail
	DiffTypeSummary
	DiffTypeBlank
)

// DiffLine represents a rendered line in diff output
type DiffLine struct {
	Type    DiffLineType
	Content string
	Indent  int // Indentation level
}

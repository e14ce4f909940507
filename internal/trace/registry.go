package trace

import (
	"errors"
	"fmt"

	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/logging"
)

// Entry is one footprint in a registry.
type Entry struct {
	ID        string
	Footprint geometry.MultiPolygon
	BBox      geometry.BBox
}

// Registry maps path ids to footprints and remembers insertion order.
type Registry struct {
	label   string
	entries []Entry
	index   map[string]int
}

// NewRegistry returns an empty registry. The label only appears in logs
// and reports ("old", "new").
func NewRegistry(label string) *Registry {
	return &Registry{label: label, index: make(map[string]int)}
}

// Label returns the registry label.
func (r *Registry) Label() string { return r.label }

// Len returns the number of footprints.
func (r *Registry) Len() int { return len(r.entries) }

// Add appends a footprint. Callers that already hold polygons use it
// directly; BuildRegistry uses it for extracted paths.
func (r *Registry) Add(id string, fp geometry.MultiPolygon) error {
	if _, ok := r.index[id]; ok {
		return &PathError{ID: id, Err: ErrDuplicateID}
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, Entry{ID: id, Footprint: fp, BBox: fp.BBox()})
	return nil
}

// Entries returns the entries in insertion order. The slice is shared and
// must not be modified.
func (r *Registry) Entries() []Entry { return r.entries }

// IDs returns the ids in insertion order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.ID
	}
	return ids
}

// Footprint looks up the footprint for id.
func (r *Registry) Footprint(id string) (geometry.MultiPolygon, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].Footprint, true
}

// Subset returns a registry holding only the given ids, in the given order.
// Unknown ids are ignored.
func (r *Registry) Subset(label string, ids []string) *Registry {
	out := NewRegistry(label)
	for _, id := range ids {
		if i, ok := r.index[id]; ok {
			e := r.entries[i]
			out.index[id] = len(out.entries)
			out.entries = append(out.entries, e)
		}
	}
	return out
}

// BuildRegistry extracts every spec in order. Degenerate paths are logged
// and skipped. Arcs abort the build or are skipped according to
// opts.ArcPolicy.
func BuildRegistry(label string, specs []PathSpec, opts Options) (*Registry, error) {
	log := logging.Logger().With("registry", label)
	reg := NewRegistry(label)
	for _, spec := range specs {
		log.Debug("parsing path", "id", spec.ID)

		fp, err := Extract(spec, opts)
		switch {
		case err == nil:
		case errors.Is(err, ErrDegeneratePath):
			log.Warn("not enough nodes in path", "id", spec.ID)
			continue
		case errors.Is(err, ErrUnsupportedArc) && opts.ArcPolicy == ArcSkip:
			log.Error("unsupported arc, path excluded", "id", spec.ID)
			continue
		default:
			return nil, fmt.Errorf("failed to build %s registry: %w", label, err)
		}

		if err := reg.Add(spec.ID, fp); err != nil {
			return nil, fmt.Errorf("failed to build %s registry: %w", label, err)
		}
	}
	log.Info("registry built", "paths", len(specs), "footprints", reg.Len())
	return reg, nil
}

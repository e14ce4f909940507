package diff

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pstuifzand/tracediff/internal/geometry"
	"github.com/pstuifzand/tracediff/internal/logging"
	"github.com/pstuifzand/tracediff/internal/trace"
)

// Compare runs the classifier in both directions. Removed is the Added
// list of the reverse run, so any quirk of Classify shows up in Removed the
// same way it does in Added.
func Compare(ctx context.Context, oldReg, newReg *trace.Registry, opts Options) (*Report, error) {
	forward, err := Classify(ctx, newReg, oldReg, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compare new against old: %w", err)
	}
	reverse, err := Classify(ctx, oldReg, newReg, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compare old against new: %w", err)
	}

	logging.Logger().Info("comparison finished",
		"old", oldReg.Label(),
		"new", newReg.Label(),
		"added", len(forward.Added),
		"removed", len(reverse.Added),
		"duplicate", len(forward.Duplicate),
		"touching", len(forward.Touching),
		"conflict", len(forward.Conflict))

	return &Report{
		Old:     oldReg,
		New:     newReg,
		Forward: forward,
		Reverse: reverse,
		Added:   forward.Added,
		Removed: reverse.Added,
	}, nil
}

// entryResult is the classification of one new-side footprint against the
// whole old registry.
type entryResult struct {
	rels      []Relationship
	duplicate bool
	conflict  bool
}

// Classify relates every footprint of newReg to every footprint of oldReg.
//
// For each pair with intersecting footprints: footprints covering the same
// region (see geometry.Equivalent) are Duplicate; otherwise every overlap region with positive area is Touching
// when its area is at most opts.TouchingThreshold() and Conflict above it.
// A new id lands in Added when it has no Duplicate and no Conflict; a
// Touching-only id is still Added. That asymmetry is long-standing
// behaviour and kept as is.
//
// With opts.Workers > 1 new ids are classified concurrently; results are
// merged in registry order so the output does not depend on scheduling.
func Classify(ctx context.Context, newReg, oldReg *trace.Registry, opts Options) (*ComparisonResult, error) {
	entries := newReg.Entries()
	results := make([]entryResult, len(entries))

	if opts.Workers < 2 {
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := classifyEntry(e, oldReg, opts)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, e := range entries {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := classifyEntry(e, oldReg, opts)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	res := newComparisonResult()
	for i, e := range entries {
		r := results[i]
		for _, rel := range r.rels {
			switch rel.Kind {
			case Duplicate:
				res.Duplicate[rel.NewID] = rel.OldID
			case Touching:
				res.Touching[rel.NewID] = rel.OldID
			case Conflict:
				res.Conflict[rel.NewID] = rel.OldID
			}
			res.Relationships = append(res.Relationships, rel)
		}
		if !r.duplicate && !r.conflict {
			res.Added = append(res.Added, e.ID)
		}
	}
	return res, nil
}

func classifyEntry(ne trace.Entry, oldReg *trace.Registry, opts Options) (entryResult, error) {
	log := logging.Logger().With("new", ne.ID)
	log.Debug("processing path")

	threshold := opts.TouchingThreshold()
	var out entryResult
	for _, oe := range oldReg.Entries() {
		if !ne.BBox.Intersects(oe.BBox) || !geometry.Intersects(ne.Footprint, oe.Footprint) {
			continue
		}

		same, err := geometry.Equivalent(ne.Footprint, oe.Footprint, opts.EqualityTolerance)
		if err != nil {
			return entryResult{}, fmt.Errorf("failed to compare %s with %s: %w", ne.ID, oe.ID, err)
		}
		if same {
			log.Warn("path is a duplicate", "old", oe.ID)
			out.rels = append(out.rels, Relationship{Kind: Duplicate, NewID: ne.ID, OldID: oe.ID})
			out.duplicate = true
			continue
		}

		var (
			touching bool
			overlaps []geometry.Polygon
		)
		regions, err := geometry.Intersection(ne.Footprint, oe.Footprint)
		if err != nil {
			return entryResult{}, fmt.Errorf("failed to intersect %s with %s: %w", ne.ID, oe.ID, err)
		}
		for _, region := range regions {
			area := region.Area()
			kind, ok := regionKind(area, threshold)
			switch {
			case !ok:
			case kind == Touching:
				// TODO: confirm the region lies on a pad or via before
				// accepting it as a connection.
				log.Debug("small overlap, assuming connection", "old", oe.ID, "area", area)
				touching = true
			default:
				log.Warn("large overlap", "old", oe.ID, "area", area)
				overlaps = append(overlaps, region)
			}
		}

		if touching {
			out.rels = append(out.rels, Relationship{Kind: Touching, NewID: ne.ID, OldID: oe.ID})
		}
		if len(overlaps) > 0 {
			out.rels = append(out.rels, Relationship{Kind: Conflict, NewID: ne.ID, OldID: oe.ID, Overlaps: overlaps})
			out.conflict = true
		}
	}
	return out, nil
}

// regionKind buckets one overlap region. Regions without area carry no
// relationship.
func regionKind(area, threshold float64) (Kind, bool) {
	switch {
	case area <= 0:
		return 0, false
	case area <= threshold:
		return Touching, true
	}
	return Conflict, true
}

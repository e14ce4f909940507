// Package report renders comparison reports for the console and for
// machine consumers.
package report

import (
	"github.com/google/uuid"

	"github.com/pstuifzand/tracediff/internal/diff"
)

// Pair is one classified (new, old) relationship.
type Pair struct {
	New     string  `json:"new" yaml:"new"`
	Old     string  `json:"old" yaml:"old"`
	Regions int     `json:"regions,omitempty" yaml:"regions,omitempty"`
	Area    float64 `json:"area,omitempty" yaml:"area,omitempty"`
}

// Counts holds the summary line numbers.
type Counts struct {
	Added       int `json:"added" yaml:"added"`
	Removed     int `json:"removed" yaml:"removed"`
	Conflicting int `json:"conflicting" yaml:"conflicting"`
	Touching    int `json:"touching" yaml:"touching"`
	Duplicate   int `json:"duplicate" yaml:"duplicate"`
}

// Summary is the serialisable view of a diff.Report.
type Summary struct {
	RunID      string   `json:"run_id" yaml:"run_id"`
	Old        string   `json:"old" yaml:"old"`
	New        string   `json:"new" yaml:"new"`
	Added      []string `json:"added" yaml:"added"`
	Removed    []string `json:"removed" yaml:"removed"`
	Conflicts  []Pair   `json:"conflicts" yaml:"conflicts"`
	Touching   []Pair   `json:"touching" yaml:"touching"`
	Duplicates []Pair   `json:"duplicates" yaml:"duplicates"`
	Overlays   []string `json:"overlays,omitempty" yaml:"overlays,omitempty"`
	Counts     Counts   `json:"counts" yaml:"counts"`
}

// NewSummary flattens r. Pairs are listed per relationship in (new, old)
// registry order, so one new id may appear several times.
func NewSummary(r *diff.Report, oldName, newName string) *Summary {
	s := &Summary{
		RunID:      uuid.NewString(),
		Old:        oldName,
		New:        newName,
		Added:      nonNil(r.Added),
		Removed:    nonNil(r.Removed),
		Conflicts:  []Pair{},
		Touching:   []Pair{},
		Duplicates: []Pair{},
	}
	for _, rel := range r.Forward.Relationships {
		p := Pair{New: rel.NewID, Old: rel.OldID}
		switch rel.Kind {
		case diff.Conflict:
			p.Regions = len(rel.Overlaps)
			for _, o := range rel.Overlaps {
				p.Area += o.Area()
			}
			s.Conflicts = append(s.Conflicts, p)
		case diff.Touching:
			s.Touching = append(s.Touching, p)
		case diff.Duplicate:
			s.Duplicates = append(s.Duplicates, p)
		}
	}
	s.Counts = Counts{
		Added:       len(r.Added),
		Removed:     len(r.Removed),
		Conflicting: len(r.Forward.Conflict),
		Touching:    len(r.Forward.Touching),
		Duplicate:   len(r.Forward.Duplicate),
	}
	return s
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pstuifzand/tracediff/internal/diff"
)

var (
	addedFg    = lipgloss.Color("#22C55E")
	removedFg  = lipgloss.Color("#EF4444")
	conflictFg = lipgloss.Color("#F97316")
	touchingFg = lipgloss.Color("#EAB308")
	accentFg   = lipgloss.Color("#7C3AED")
	dimFg      = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
)

type styles struct {
	header   lipgloss.Style
	section  lipgloss.Style
	added    lipgloss.Style
	removed  lipgloss.Style
	conflict lipgloss.Style
	touching lipgloss.Style
	dim      lipgloss.Style
	plain    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:   r.NewStyle().Foreground(accentFg).Bold(true),
		section:  r.NewStyle().Bold(true),
		added:    r.NewStyle().Foreground(addedFg),
		removed:  r.NewStyle().Foreground(removedFg),
		conflict: r.NewStyle().Foreground(conflictFg).Bold(true),
		touching: r.NewStyle().Foreground(touchingFg),
		dim:      r.NewStyle().Foreground(dimFg),
		plain:    r.NewStyle(),
	}
}

func (s styles) forType(t diff.DiffLineType) lipgloss.Style {
	switch t {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return s.header
	case diff.DiffTypeAddedSection, diff.DiffTypeRemovedSection, diff.DiffTypeConflictSection,
		diff.DiffTypeTouchingSection, diff.DiffTypeDuplicateSection:
		return s.section
	case diff.DiffTypeAddedItem:
		return s.added
	case diff.DiffTypeRemovedItem:
		return s.removed
	case diff.DiffTypeConflictItem:
		return s.conflict
	case diff.DiffTypeTouchingItem:
		return s.touching
	case diff.DiffTypeItemDetail, diff.DiffTypeDuplicateItem:
		return s.dim
	}
	return s.plain
}

package diff

import (
	"fmt"
	"sort"
)

// BuildDiffLines converts a Report into formatted display lines
// This is suitable for both plain and styled CLI output
func BuildDiffLines(report *Report, verbose bool) []DiffLine {
	var lines []DiffLine
	fwd := report.Forward

	// Added section
	if len(report.Added) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeAddedSection, Content: "Added:"})
		for _, id := range report.Added {
			lines = append(lines, DiffLine{Type: DiffTypeAddedItem, Content: id, Indent: 1})
			if old, ok := fwd.Touching[id]; ok && verbose {
				lines = append(lines, DiffLine{
					Type:    DiffTypeItemDetail,
					Content: fmt.Sprintf("touches %s", old),
					Indent:  2,
				})
			}
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	// Removed section
	if len(report.Removed) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeRemovedSection, Content: "Removed:"})
		for _, id := range report.Removed {
			lines = append(lines, DiffLine{Type: DiffTypeRemovedItem, Content: id, Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	// Conflict section
	if ids := fwd.ConflictIDs(); len(ids) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeConflictSection, Content: "Conflicts:"})
		for _, id := range ids {
			lines = append(lines, formatConflict(id, fwd.ConflictsFor(id), verbose)...)
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	if verbose {
		lines = append(lines, formatPairs(DiffTypeTouchingSection, DiffTypeTouchingItem, "Touching:", "touches", fwd.Touching)...)
		lines = append(lines, formatPairs(DiffTypeDuplicateSection, DiffTypeDuplicateItem, "Duplicates:", "equals", fwd.Duplicate)...)
	}

	if len(lines) == 0 {
		lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: "No changes detected"})
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	// Summary section
	lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: "=== Summary ==="})
	lines = append(lines, DiffLine{
		Type: DiffTypeSummary,
		Content: fmt.Sprintf("  %d added, %d removed, %d conflicting, %d touching, %d duplicate",
			len(report.Added), len(report.Removed), len(fwd.Conflict), len(fwd.Touching), len(fwd.Duplicate)),
	})

	return lines
}

// formatConflict creates display lines for one conflicting new id
func formatConflict(id string, rels []Relationship, verbose bool) []DiffLine {
	lines := []DiffLine{{Type: DiffTypeConflictItem, Content: id, Indent: 1}}
	for _, rel := range rels {
		var area float64
		for _, o := range rel.Overlaps {
			area += o.Area()
		}
		content := fmt.Sprintf("overlaps %s", rel.OldID)
		if verbose {
			content = fmt.Sprintf("overlaps %s in %d region(s), area %.3f", rel.OldID, len(rel.Overlaps), area)
		}
		lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: content, Indent: 2})
	}
	return lines
}

// formatPairs lists a new id -> old id map in sorted order
func formatPairs(section, item DiffLineType, title, verb string, pairs map[string]string) []DiffLine {
	if len(pairs) == 0 {
		return nil
	}
	lines := []DiffLine{{Type: section, Content: title}}
	for _, id := range getSortedIDs(pairs) {
		lines = append(lines, DiffLine{
			Type:    item,
			Content: fmt.Sprintf("%s %s %s", id, verb, pairs[id]),
			Indent:  1,
		})
	}
	return append(lines, DiffLine{Type: DiffTypeBlank})
}

// getSortedIDs returns a sorted slice of keys from a map
func getSortedIDs[T any](items map[string]T) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

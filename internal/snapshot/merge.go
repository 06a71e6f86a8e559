package snapshot

import (
	"slices"

	"github.com/mcoding/dunders/internal/types"
)

// MergeStats counts the outcome of a Merge.
type MergeStats struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Retained  int `json:"retained"` // existing dunders absent from the import
}

// Merge folds freshly imported dunders into the existing snapshot and returns
// the merged list.
//
// Dunders are matched by name and occurrence: the k-th imported dunder named
// N updates the k-th existing dunder named N. Matched dunders take the
// sheet-owned fields (status, group, description, assignees, pr) from the
// import and keep their issue number and file list. Existing dunders keep
// their position; unmatched imports are appended in import order. Nothing is
// ever removed.
func Merge(existing, imported []*types.Dunder) ([]*types.Dunder, MergeStats) {
	var stats MergeStats

	byName := make(map[string][]*types.Dunder, len(existing))
	for _, d := range existing {
		byName[d.Name] = append(byName[d.Name], d)
	}

	merged := slices.Clone(existing)
	matched := make(map[*types.Dunder]bool, len(existing))

	for _, in := range imported {
		candidates := byName[in.Name]
		if len(candidates) == 0 {
			merged = append(merged, in.Clone())
			stats.Added++
			continue
		}
		target := candidates[0]
		byName[in.Name] = candidates[1:]
		matched[target] = true

		if applySheetFields(target, in) {
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}

	stats.Retained = len(existing) - len(matched)
	return merged, stats
}

// applySheetFields copies the fields the spreadsheet owns onto dst and
// reports whether anything changed. Issue and Files are never touched.
func applySheetFields(dst, src *types.Dunder) bool {
	before := dst.Clone()

	dst.Status = src.Status
	dst.Group = src.Group
	dst.Description = src.Description
	dst.Assignees = slices.Clone(src.Assignees)
	dst.PR = src.PR

	return !before.Equal(dst)
}

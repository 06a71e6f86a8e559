// Package types defines the core data structures for the dunders tracker.
package types

import (
	"encoding/json"
	"fmt"
)

// Group is the topic bucket a dunder belongs to. Its value is the display
// label, which is also the title of the matching GitHub milestone.
type Group string

// Group constants, in milestone creation order.
const (
	GroupCallableCove   Group = "Callable Cove"
	GroupModuleMesa     Group = "Module Mesa"
	GroupAsyncIsle      Group = "Async Isle"
	GroupTheNest        Group = "The Nest"
	GroupFeatureReef    Group = "Feature Reef"
	GroupSystemsSwamp   Group = "Systems Swamp"
	GroupMoltedMemoryMt Group = "Molted Memory Mt (Python 2)"
	GroupMetaPlane      Group = "Meta Plane"
	GroupLibraryLagoon  Group = "Library Lagoon"
	GroupContainerCoast Group = "Container Coast"
	GroupMathLand       Group = "Math Land"
	GroupCCliff         Group = "C Cliff"
	GroupMiddleEarth    Group = "Middle Earth"
)

// AllGroups lists every group in declaration order.
var AllGroups = []Group{
	GroupCallableCove,
	GroupModuleMesa,
	GroupAsyncIsle,
	GroupTheNest,
	GroupFeatureReef,
	GroupSystemsSwamp,
	GroupMoltedMemoryMt,
	GroupMetaPlane,
	GroupLibraryLagoon,
	GroupContainerCoast,
	GroupMathLand,
	GroupCCliff,
	GroupMiddleEarth,
}

// sheetHeaders maps the group-header text used in the spreadsheet to a group.
// Matching is exact: case and punctuation matter.
var sheetHeaders = map[string]Group{
	"CALLABLE COVE":              GroupCallableCove,
	"MODULE MESA":                GroupModuleMesa,
	"ASYNC ISLE":                 GroupAsyncIsle,
	"THE NEST":                   GroupTheNest,
	"FEATURE REEF":               GroupFeatureReef,
	"SYSTEMS SWAMP":              GroupSystemsSwamp,
	"MOLTED MEMORY MT (python2)": GroupMoltedMemoryMt,
	"META PLANE":                 GroupMetaPlane,
	"LIBRARY LAGOON":             GroupLibraryLagoon,
	"CONTAINER COAST":            GroupContainerCoast,
	"MATH LAND":                  GroupMathLand,
	"C CLIFF":                    GroupCCliff,
	"MIDDLE EARTH":               GroupMiddleEarth,
}

// groupFolders maps each group to its folder in the repository.
// An empty string is an explicit "no folder".
var groupFolders = map[Group]string{
	GroupCallableCove:   "src/callable-cove",
	GroupModuleMesa:     "src/module-mesa",
	GroupAsyncIsle:      "src/async-isle",
	GroupTheNest:        "src/the-nest",
	GroupFeatureReef:    "src/feature-reef",
	GroupSystemsSwamp:   "src/systems-swamp",
	GroupMoltedMemoryMt: "src/molted-memory-mt",
	GroupMetaPlane:      "src/meta-plane",
	GroupLibraryLagoon:  "src/library-lagoon",
	GroupContainerCoast: "src/container-coast",
	GroupMathLand:       "src/math-land",
	GroupCCliff:         "src/c-cliff",
	GroupMiddleEarth:    "src/middle-earth",
}

func init() {
	if err := checkGroupTables(); err != nil {
		panic(err)
	}
}

// checkGroupTables verifies that both lookup tables cover every group exactly.
func checkGroupTables() error {
	headerCount := make(map[Group]int, len(AllGroups))
	for header, g := range sheetHeaders {
		if !g.IsValid() {
			return fmt.Errorf("sheet header %q maps to unknown group %q", header, g)
		}
		headerCount[g]++
	}
	for _, g := range AllGroups {
		if headerCount[g] != 1 {
			return fmt.Errorf("group %q has %d sheet headers, want 1", g, headerCount[g])
		}
		if _, ok := groupFolders[g]; !ok {
			return fmt.Errorf("group %q has no folder entry", g)
		}
	}
	if len(groupFolders) != len(AllGroups) {
		return fmt.Errorf("folder table has %d entries for %d groups", len(groupFolders), len(AllGroups))
	}
	return nil
}

// IsValid reports whether g is one of the fixed groups.
func (g Group) IsValid() bool {
	for _, known := range AllGroups {
		if g == known {
			return true
		}
	}
	return false
}

// Label returns the display label (and milestone title) of the group.
func (g Group) Label() string {
	return string(g)
}

// Folder returns the repository folder for the group, if it has one.
func (g Group) Folder() (string, bool) {
	folder := groupFolders[g]
	return folder, folder != ""
}

// ParseGroup parses a display label such as "Callable Cove".
func ParseGroup(label string) (Group, error) {
	g := Group(label)
	if !g.IsValid() {
		return "", &ValidationError{Field: "group", Value: label}
	}
	return g, nil
}

// GroupFromHeader looks up the group for a spreadsheet header row.
func GroupFromHeader(header string) (Group, bool) {
	g, ok := sheetHeaders[header]
	return g, ok
}

// UnmarshalJSON rejects labels that are not a known group.
// A JSON null leaves the dunder ungrouped.
func (g *Group) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseGroup(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

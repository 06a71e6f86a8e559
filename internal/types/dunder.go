package types

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
)

// Dunder is one tracked work item: a language feature topic with a workflow
// status, an optional group and optional links to GitHub entities.
//
// Name is the natural key. It is used verbatim as the GitHub issue title, so
// it must be unique within a snapshot. Issue and PR are zero when unset.
type Dunder struct {
	Name        string   `json:"name"`
	Status      Status   `json:"status"`
	Group       Group    `json:"group,omitempty"`
	Description string   `json:"description,omitempty"`
	Issue       int      `json:"issue,omitempty"`
	PR          int      `json:"pr,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
	Files       []string `json:"files,omitempty"` // forward-slash, repository-relative
}

// HasGroup reports whether the dunder is grouped.
func (d *Dunder) HasGroup() bool {
	return d.Group != ""
}

// HasIssue reports whether a GitHub issue has been assigned.
func (d *Dunder) HasIssue() bool {
	return d.Issue != 0
}

// HasPR reports whether a pull request is associated.
func (d *Dunder) HasPR() bool {
	return d.PR != 0
}

// SetFiles stores paths in forward-slash form regardless of platform.
func (d *Dunder) SetFiles(paths ...string) {
	if len(paths) == 0 {
		d.Files = nil
		return
	}
	d.Files = make([]string, len(paths))
	for i, p := range paths {
		d.Files[i] = filepath.ToSlash(p)
	}
}

// SetDefaults applies default values for fields omitted in the snapshot.
//   - Status: defaults to StatusTodo if empty
func (d *Dunder) SetDefaults() {
	if d.Status == "" {
		d.Status = StatusTodo
	}
}

// Validate checks that the dunder has valid field values.
func (d *Dunder) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Value: d.Name}
	}
	if !d.Status.IsValid() {
		return &ValidationError{Field: "status", Value: string(d.Status)}
	}
	if d.HasGroup() && !d.Group.IsValid() {
		return &ValidationError{Field: "group", Value: string(d.Group)}
	}
	if d.Issue < 0 {
		return &ValidationError{Field: "issue", Value: fmt.Sprint(d.Issue)}
	}
	if d.PR < 0 {
		return &ValidationError{Field: "pr", Value: fmt.Sprint(d.PR)}
	}
	for _, f := range d.Files {
		if f == "" || path.IsAbs(f) {
			return &ValidationError{Field: "files", Value: f}
		}
	}
	return nil
}

// Clone returns a deep copy of the dunder.
func (d *Dunder) Clone() *Dunder {
	c := *d
	c.Assignees = slices.Clone(d.Assignees)
	c.Files = slices.Clone(d.Files)
	return &c
}

// Equal reports whether two dunders have identical field values.
func (d *Dunder) Equal(other *Dunder) bool {
	return d.Name == other.Name &&
		d.Status == other.Status &&
		d.Group == other.Group &&
		d.Description == other.Description &&
		d.Issue == other.Issue &&
		d.PR == other.PR &&
		slices.Equal(d.Assignees, other.Assignees) &&
		slices.Equal(d.Files, other.Files)
}

// DuplicateNames returns the names that occur more than once, in order of
// their second occurrence.
func DuplicateNames(dunders []*Dunder) []string {
	seen := make(map[string]int, len(dunders))
	var dups []string
	for _, d := range dunders {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			dups = append(dups, d.Name)
		}
	}
	return dups
}

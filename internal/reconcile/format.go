package reconcile

import (
	"fmt"
	"strings"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/types"
)

// FormatPath renders a repository path as a markdown link: the path in
// inline code, pointing at rootURL+path. rootURL ends with a slash.
func FormatPath(rootURL, path string) string {
	return fmt.Sprintf("[`%s`](%s%s)", path, rootURL, path)
}

// FormatFolder renders the "Folder: ..." line for a group, if it has a folder.
func FormatFolder(rootURL string, g types.Group) (string, bool) {
	folder, ok := g.Folder()
	if !ok {
		return "", false
	}
	return "Folder: " + FormatPath(rootURL, folder), true
}

// FormatFiles renders a "Files:" section with one bullet per file.
func FormatFiles(rootURL string, files []string) string {
	lines := make([]string, 0, len(files)+1)
	lines = append(lines, "Files:")
	for _, f := range files {
		lines = append(lines, "- "+FormatPath(rootURL, f))
	}
	return strings.Join(lines, "\n")
}

// IssueBody builds the issue description for a dunder: the folder link, the
// file list and the free-text description, separated by blank lines. Empty
// sections are left out, so the body may be empty.
func IssueBody(rootURL string, d *types.Dunder) string {
	var parts []string

	if d.HasGroup() {
		if folder, ok := FormatFolder(rootURL, d.Group); ok {
			parts = append(parts, folder)
		}
	}
	if len(d.Files) > 0 {
		parts = append(parts, FormatFiles(rootURL, d.Files))
	}
	if d.Description != "" {
		parts = append(parts, d.Description)
	}

	return strings.Join(parts, "\n\n")
}

// BuildIssueRequest builds the create/edit payload for a dunder. The
// milestone is omitted when the dunder has no group or the group has no
// resolved milestone. Assignees are only sent when autoAssign is set.
func BuildIssueRequest(rootURL string, d *types.Dunder, milestones map[types.Group]github.Milestone, autoAssign bool) github.IssueRequest {
	req := github.IssueRequest{
		Title: d.Name,
		Body:  IssueBody(rootURL, d),
	}
	if d.HasGroup() {
		if m, ok := milestones[d.Group]; ok {
			req.Milestone = m.Number
		}
	}
	if autoAssign && len(d.Assignees) > 0 {
		req.Assignees = d.Assignees
	}
	return req
}

// ClosesComment is the comment posted on a pull request to link it to the
// issue it resolves.
func ClosesComment(issue int) string {
	return fmt.Sprintf("Closes #%d.", issue)
}

// Package reconcile projects the dunder snapshot onto a GitHub repository:
// one milestone per group, one issue per dunder, and a "Closes" comment on
// every pull request linked to a dunder.
//
// All remote calls are sequential. Mutating calls are followed by a fixed
// delay to stay under the API rate limits.
package reconcile

import (
	"context"

	"github.com/mcoding/dunders/internal/github"
)

// Tracker is the subset of the GitHub API the reconciler needs.
// *github.Client implements it.
type Tracker interface {
	ListMilestones(ctx context.Context) ([]github.Milestone, error)
	CreateMilestone(ctx context.Context, title, description string) (*github.Milestone, error)
	ListIssues(ctx context.Context) ([]github.Issue, error)
	CreateIssue(ctx context.Context, req github.IssueRequest) (*github.Issue, error)
	EditIssue(ctx context.Context, number int, req github.IssueRequest) (*github.Issue, error)
	GetPullRequest(ctx context.Context, number int) (*github.PullRequest, error)
	ListIssueComments(ctx context.Context, number int) ([]github.Comment, error)
	CreateIssueComment(ctx context.Context, number int, body string) (*github.Comment, error)
}

var _ Tracker = (*github.Client)(nil)

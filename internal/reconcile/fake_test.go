package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/types"
)

const testRoot = "https://github.com/o/r/blob/main/"

var errBoom = errors.New("boom")

// fakeTracker is an in-memory Tracker that records every call.
type fakeTracker struct {
	milestones []github.Milestone
	issues     map[int]*github.Issue
	comments   map[int][]github.Comment
	pulls      map[int]bool

	nextNumber int
	calls      []string
	created    []github.IssueRequest
	edited     map[int]github.IssueRequest

	// failCreateOn makes the n-th CreateIssue call (1-based) fail.
	failCreateOn int
	createCalls  int
	failList     bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		issues:     make(map[int]*github.Issue),
		comments:   make(map[int][]github.Comment),
		pulls:      make(map[int]bool),
		edited:     make(map[int]github.IssueRequest),
		nextNumber: 1,
	}
}

// withAllMilestones registers one milestone per group, numbered from 1.
func (f *fakeTracker) withAllMilestones() *fakeTracker {
	for i, g := range types.AllGroups {
		f.milestones = append(f.milestones, github.Milestone{Number: i + 1, Title: g.Label()})
	}
	return f
}

func (f *fakeTracker) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeTracker) ListMilestones(ctx context.Context) ([]github.Milestone, error) {
	f.record("ListMilestones")
	if f.failList {
		return nil, errBoom
	}
	return f.milestones, nil
}

func (f *fakeTracker) CreateMilestone(ctx context.Context, title, description string) (*github.Milestone, error) {
	f.record("CreateMilestone %s", title)
	m := github.Milestone{Number: len(f.milestones) + 1, Title: title, Description: description}
	f.milestones = append(f.milestones, m)
	return &m, nil
}

func (f *fakeTracker) ListIssues(ctx context.Context) ([]github.Issue, error) {
	f.record("ListIssues")
	if f.failList {
		return nil, errBoom
	}
	out := make([]github.Issue, 0, len(f.issues))
	for n := 1; n < f.nextNumber; n++ {
		if issue, ok := f.issues[n]; ok {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (f *fakeTracker) addIssue(title string) int {
	n := f.nextNumber
	f.nextNumber++
	f.issues[n] = &github.Issue{Number: n, Title: title}
	return n
}

func (f *fakeTracker) CreateIssue(ctx context.Context, req github.IssueRequest) (*github.Issue, error) {
	f.createCalls++
	f.record("CreateIssue %s", req.Title)
	if f.failCreateOn == f.createCalls {
		return nil, errBoom
	}
	f.created = append(f.created, req)
	n := f.addIssue(req.Title)
	return f.issues[n], nil
}

func (f *fakeTracker) EditIssue(ctx context.Context, number int, req github.IssueRequest) (*github.Issue, error) {
	f.record("EditIssue %d", number)
	issue, ok := f.issues[number]
	if !ok {
		return nil, &github.APIError{StatusCode: 404}
	}
	f.edited[number] = req
	issue.Title = req.Title
	issue.Body = req.Body
	return issue, nil
}

func (f *fakeTracker) GetPullRequest(ctx context.Context, number int) (*github.PullRequest, error) {
	f.record("GetPullRequest %d", number)
	if !f.pulls[number] {
		return nil, &github.APIError{StatusCode: 404}
	}
	return &github.PullRequest{Number: number}, nil
}

func (f *fakeTracker) ListIssueComments(ctx context.Context, number int) ([]github.Comment, error) {
	f.record("ListIssueComments %d", number)
	return f.comments[number], nil
}

func (f *fakeTracker) CreateIssueComment(ctx context.Context, number int, body string) (*github.Comment, error) {
	f.record("CreateIssueComment %d %s", number, body)
	c := github.Comment{ID: len(f.comments[number]) + 1, Body: body}
	f.comments[number] = append(f.comments[number], c)
	return &c, nil
}

func testMilestone(number int, title string) github.Milestone {
	return github.Milestone{Number: number, Title: title}
}

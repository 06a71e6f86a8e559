package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/types"
)

const scopeName = "github.com/mcoding/dunders/reconcile"

// Reconciler drives the GitHub side of the synchronization.
type Reconciler struct {
	Tracker Tracker

	// RootURL prefixes repository paths in issue bodies,
	// e.g. "https://github.com/o/r/blob/main/".
	RootURL string

	Logger *slog.Logger

	// Callbacks for UI feedback (optional).
	OnMessage func(msg string)
	OnWarning func(msg string)

	throttle *throttle
	tracer   trace.Tracer
	items    metric.Int64Counter
}

// New creates a reconciler that pauses for delay after every mutating call.
func New(t Tracker, rootURL string, delay time.Duration) *Reconciler {
	items, _ := otel.Meter(scopeName).Int64Counter("dunders.reconcile.items",
		metric.WithDescription("Dunders processed by the reconciler, by outcome"),
	)
	return &Reconciler{
		Tracker:  t,
		RootURL:  rootURL,
		Logger:   slog.Default(),
		throttle: newThrottle(delay),
		tracer:   otel.Tracer(scopeName),
		items:    items,
	}
}

// CreateMilestones creates one milestone per group, in group order, with the
// group folder as description. It is not idempotent: running it twice
// creates duplicate milestones.
func (r *Reconciler) CreateMilestones(ctx context.Context) ([]github.Milestone, error) {
	ctx, span := r.start(ctx, "milestones.create")
	defer span.End()

	created := make([]github.Milestone, 0, len(types.AllGroups))
	for _, g := range types.AllGroups {
		desc, _ := FormatFolder(r.RootURL, g)
		m, err := r.Tracker.CreateMilestone(ctx, g.Label(), desc)
		if err != nil {
			err = &RemoteCallError{Op: "create milestone", Target: g.Label(), Err: err}
			r.fail(span, err)
			return created, err
		}
		created = append(created, *m)
		r.count(ctx, "milestone_created")
		r.msg("Created milestone %q (#%d)", m.Title, m.Number)

		if err := r.throttle.wait(ctx); err != nil {
			r.fail(span, err)
			return created, err
		}
	}
	return created, nil
}

// ResolveMilestones maps every group to its milestone. Milestones whose title
// is not a group label are ignored; when several milestones share a title the
// last one listed wins. A *ConsistencyError names the groups left unresolved;
// the partial mapping is returned alongside it.
func (r *Reconciler) ResolveMilestones(ctx context.Context) (map[types.Group]github.Milestone, error) {
	milestones, err := r.Tracker.ListMilestones(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make(map[types.Group]github.Milestone, len(types.AllGroups))
	for _, m := range milestones {
		g, err := types.ParseGroup(m.Title)
		if err != nil {
			continue
		}
		resolved[g] = m
	}

	var missing []types.Group
	for _, g := range types.AllGroups {
		if _, ok := resolved[g]; !ok {
			missing = append(missing, g)
		}
	}
	if len(missing) > 0 {
		return resolved, &ConsistencyError{Missing: missing}
	}
	return resolved, nil
}

// Backfill fills in issue numbers by matching remote issue titles against
// dunder names. When several dunders share a name only the last one is
// considered. Dunders that already have an issue keep it unless overwrite
// is set.
func (r *Reconciler) Backfill(ctx context.Context, dunders []*types.Dunder, overwrite bool) (*BackfillStats, error) {
	ctx, span := r.start(ctx, "backfill")
	defer span.End()

	for _, name := range types.DuplicateNames(dunders) {
		r.warn("Duplicate dunder %s: only the last one is backfilled", name)
	}

	byName := make(map[string]*types.Dunder, len(dunders))
	for _, d := range dunders {
		byName[d.Name] = d
	}

	issues, err := r.Tracker.ListIssues(ctx)
	if err != nil {
		r.fail(span, err)
		return nil, err
	}

	stats := &BackfillStats{}
	for _, issue := range issues {
		d, ok := byName[issue.Title]
		if !ok {
			continue
		}
		stats.Matched++
		switch {
		case d.Issue == issue.Number:
		case d.HasIssue() && !overwrite:
			stats.Kept++
			r.log().Debug("keeping issue number", "dunder", d.Name, "issue", d.Issue, "remote", issue.Number)
		default:
			d.Issue = issue.Number
			stats.Updated++
			r.count(ctx, "backfilled")
		}
	}

	span.SetAttributes(attribute.Int("dunders.updated", stats.Updated))
	return stats, nil
}

// IssueOptions controls SyncIssues.
type IssueOptions struct {
	UpdateExisting bool // edit issues of dunders that already have one
	AutoAssign     bool // send the dunder's assignees
}

// SyncIssues creates or edits one issue per dunder, in order.
//
// A dunder with an issue is skipped without any remote call unless
// UpdateExisting is set. New issue numbers are written to the dunder
// immediately. The first failing remote call stops the loop: the error is
// logged and returned as a *RemoteCallError together with the stats so far,
// and the dunders already processed keep their changes so the caller can
// still save them.
func (r *Reconciler) SyncIssues(ctx context.Context, dunders []*types.Dunder, opts IssueOptions) (*IssueStats, error) {
	ctx, span := r.start(ctx, "issues.sync",
		attribute.Bool("dunders.update_existing", opts.UpdateExisting),
		attribute.Bool("dunders.auto_assign", opts.AutoAssign),
	)
	defer span.End()

	milestones, err := r.ResolveMilestones(ctx)
	if err != nil {
		r.fail(span, err)
		return nil, err
	}

	for _, name := range types.DuplicateNames(dunders) {
		r.warn("Duplicate dunder %s: each copy gets its own issue", name)
	}

	stats := &IssueStats{}
	for _, d := range dunders {
		if d.HasIssue() && !opts.UpdateExisting {
			stats.Skipped++
			r.count(ctx, "skipped")
			continue
		}

		req := BuildIssueRequest(r.RootURL, d, milestones, opts.AutoAssign)
		if err := r.syncIssue(ctx, d, req, stats); err != nil {
			stats.Aborted = true
			r.log().Error("issue sync aborted", "dunder", d.Name, "error", err)
			r.fail(span, err)
			return stats, err
		}

		if err := r.throttle.wait(ctx); err != nil {
			stats.Aborted = true
			r.fail(span, err)
			return stats, err
		}
	}

	span.SetAttributes(
		attribute.Int("dunders.created", stats.Created),
		attribute.Int("dunders.updated", stats.Updated),
	)
	return stats, nil
}

func (r *Reconciler) syncIssue(ctx context.Context, d *types.Dunder, req github.IssueRequest, stats *IssueStats) error {
	if !d.HasIssue() {
		issue, err := r.Tracker.CreateIssue(ctx, req)
		if err != nil {
			return &RemoteCallError{Op: "create issue", Target: d.Name, Err: err}
		}
		d.Issue = issue.Number
		stats.Created++
		r.count(ctx, "created")
		r.msg("Created issue #%d for %s", issue.Number, d.Name)
		return nil
	}

	if _, err := r.Tracker.EditIssue(ctx, d.Issue, req); err != nil {
		return &RemoteCallError{Op: "edit issue", Target: fmt.Sprintf("%s (#%d)", d.Name, d.Issue), Err: err}
	}
	stats.Updated++
	r.count(ctx, "updated")
	r.msg("Updated issue #%d for %s", d.Issue, d.Name)
	return nil
}

// LinkOptions controls LinkPullRequests.
type LinkOptions struct {
	// SkipExisting lists each pull request's comments first and skips it
	// when the "Closes" comment is already there.
	SkipExisting bool
}

// LinkPullRequests posts "Closes #<issue>." on the pull request of every
// dunder that has both an issue and a pull request. Without SkipExisting a
// rerun posts the comment again.
func (r *Reconciler) LinkPullRequests(ctx context.Context, dunders []*types.Dunder, opts LinkOptions) (*LinkStats, error) {
	ctx, span := r.start(ctx, "pulls.link", attribute.Bool("dunders.skip_existing", opts.SkipExisting))
	defer span.End()

	stats := &LinkStats{}
	for _, d := range dunders {
		if !d.HasIssue() || !d.HasPR() {
			continue
		}

		posted, err := r.linkPullRequest(ctx, d, opts)
		if err != nil {
			r.log().Error("pull request linking aborted", "dunder", d.Name, "pr", d.PR, "error", err)
			r.fail(span, err)
			return stats, err
		}
		if !posted {
			stats.Skipped++
			continue
		}
		stats.Commented++

		if err := r.throttle.wait(ctx); err != nil {
			r.fail(span, err)
			return stats, err
		}
	}
	return stats, nil
}

func (r *Reconciler) linkPullRequest(ctx context.Context, d *types.Dunder, opts LinkOptions) (bool, error) {
	target := fmt.Sprintf("%s (PR #%d)", d.Name, d.PR)

	pr, err := r.Tracker.GetPullRequest(ctx, d.PR)
	if err != nil {
		return false, &RemoteCallError{Op: "get pull request", Target: target, Err: err}
	}

	body := ClosesComment(d.Issue)
	if opts.SkipExisting {
		comments, err := r.Tracker.ListIssueComments(ctx, pr.Number)
		if err != nil {
			return false, &RemoteCallError{Op: "list comments", Target: target, Err: err}
		}
		for _, c := range comments {
			if c.Body == body {
				r.count(ctx, "link_skipped")
				return false, nil
			}
		}
	}

	if _, err := r.Tracker.CreateIssueComment(ctx, pr.Number, body); err != nil {
		return false, &RemoteCallError{Op: "comment", Target: target, Err: err}
	}
	r.count(ctx, "linked")
	r.msg("Linked PR #%d to issue #%d", pr.Number, d.Issue)
	return true, nil
}

func (r *Reconciler) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if r.tracer == nil {
		r.tracer = otel.Tracer(scopeName)
	}
	return r.tracer.Start(ctx, "reconcile."+name, trace.WithAttributes(attrs...))
}

func (r *Reconciler) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (r *Reconciler) count(ctx context.Context, outcome string) {
	if r.items == nil {
		return
	}
	r.items.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (r *Reconciler) msg(format string, args ...interface{}) {
	if r.OnMessage != nil {
		r.OnMessage(fmt.Sprintf(format, args...))
	}
}

func (r *Reconciler) warn(format string, args ...interface{}) {
	if r.OnWarning != nil {
		r.OnWarning(fmt.Sprintf(format, args...))
	}
}

// IsAbort reports whether err stopped a per-dunder loop part way through,
// leaving partial progress worth saving.
func IsAbort(err error) bool {
	var rce *RemoteCallError
	return errors.As(err, &rce) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (r *Reconciler) log() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

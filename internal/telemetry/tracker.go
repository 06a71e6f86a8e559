package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoding/dunders/internal/github"
	"github.com/mcoding/dunders/internal/reconcile"
)

const trackerScopeName = "github.com/mcoding/dunders/github"

// InstrumentedTracker wraps reconcile.Tracker with OTel tracing and metrics.
// Every call gets a client span and is counted in dunders.github.* metrics.
type InstrumentedTracker struct {
	inner  reconcile.Tracker
	tracer trace.Tracer
	calls  metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapTracker returns t decorated with OTel instrumentation.
// When telemetry is disabled, t is returned as-is.
func WrapTracker(t reconcile.Tracker) reconcile.Tracker {
	if !Enabled() {
		return t
	}
	return newInstrumentedTracker(t)
}

func newInstrumentedTracker(t reconcile.Tracker) *InstrumentedTracker {
	m := otel.Meter(trackerScopeName)
	calls, _ := m.Int64Counter("dunders.github.calls",
		metric.WithDescription("Total GitHub API calls"),
	)
	dur, _ := m.Float64Histogram("dunders.github.call.duration",
		metric.WithDescription("GitHub API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("dunders.github.errors",
		metric.WithDescription("Total failed GitHub API calls"),
	)
	return &InstrumentedTracker{
		inner:  t,
		tracer: otel.Tracer(trackerScopeName),
		calls:  calls,
		dur:    dur,
		errs:   errs,
	}
}

func (t *InstrumentedTracker) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("github.operation", name)}, attrs...)
	ctx, span := t.tracer.Start(ctx, "github."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	t.calls.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

func (t *InstrumentedTracker) done(ctx context.Context, name string, span trace.Span, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("github.operation", name))
	t.dur.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errs.Add(ctx, 1, attrs)
	}
	span.End()
}

func (t *InstrumentedTracker) ListMilestones(ctx context.Context) ([]github.Milestone, error) {
	ctx, span, start := t.op(ctx, "ListMilestones")
	ms, err := t.inner.ListMilestones(ctx)
	span.SetAttributes(attribute.Int("github.count", len(ms)))
	t.done(ctx, "ListMilestones", span, start, err)
	return ms, err
}

func (t *InstrumentedTracker) CreateMilestone(ctx context.Context, title, description string) (*github.Milestone, error) {
	ctx, span, start := t.op(ctx, "CreateMilestone", attribute.String("github.milestone.title", title))
	m, err := t.inner.CreateMilestone(ctx, title, description)
	t.done(ctx, "CreateMilestone", span, start, err)
	return m, err
}

func (t *InstrumentedTracker) ListIssues(ctx context.Context) ([]github.Issue, error) {
	ctx, span, start := t.op(ctx, "ListIssues")
	issues, err := t.inner.ListIssues(ctx)
	span.SetAttributes(attribute.Int("github.count", len(issues)))
	t.done(ctx, "ListIssues", span, start, err)
	return issues, err
}

func (t *InstrumentedTracker) CreateIssue(ctx context.Context, req github.IssueRequest) (*github.Issue, error) {
	ctx, span, start := t.op(ctx, "CreateIssue", attribute.String("github.issue.title", req.Title))
	issue, err := t.inner.CreateIssue(ctx, req)
	if issue != nil {
		span.SetAttributes(attribute.Int("github.issue.number", issue.Number))
	}
	t.done(ctx, "CreateIssue", span, start, err)
	return issue, err
}

func (t *InstrumentedTracker) EditIssue(ctx context.Context, number int, req github.IssueRequest) (*github.Issue, error) {
	ctx, span, start := t.op(ctx, "EditIssue", attribute.Int("github.issue.number", number))
	issue, err := t.inner.EditIssue(ctx, number, req)
	t.done(ctx, "EditIssue", span, start, err)
	return issue, err
}

func (t *InstrumentedTracker) GetPullRequest(ctx context.Context, number int) (*github.PullRequest, error) {
	ctx, span, start := t.op(ctx, "GetPullRequest", attribute.Int("github.pull.number", number))
	pr, err := t.inner.GetPullRequest(ctx, number)
	t.done(ctx, "GetPullRequest", span, start, err)
	return pr, err
}

func (t *InstrumentedTracker) ListIssueComments(ctx context.Context, number int) ([]github.Comment, error) {
	ctx, span, start := t.op(ctx, "ListIssueComments", attribute.Int("github.issue.number", number))
	comments, err := t.inner.ListIssueComments(ctx, number)
	t.done(ctx, "ListIssueComments", span, start, err)
	return comments, err
}

func (t *InstrumentedTracker) CreateIssueComment(ctx context.Context, number int, body string) (*github.Comment, error) {
	ctx, span, start := t.op(ctx, "CreateIssueComment", attribute.Int("github.issue.number", number))
	c, err := t.inner.CreateIssueComment(ctx, number, body)
	t.done(ctx, "CreateIssueComment", span, start, err)
	return c, err
}

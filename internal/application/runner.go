package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/report"
	"github.com/ericfisherdev/dailytracker/internal/telemetry"
)

// previewRunes bounds the summary and actions previews in the run report.
const previewRunes = 200

// Runner sequences one pass: locate or create the tracking issue, generate and
// post the narrative, then advance the draft gate. Only a failure to obtain
// the tracking issue aborts the pass; later stages fail independently.
type Runner struct {
	daily     *DailyIssueService
	collector *Collector
	narrator  driven.Narrator
	poster    *CommentPoster
	drafts    *DraftService

	tracer  trace.Tracer
	created metric.Int64Counter
	existed metric.Int64Counter
}

// NewRunner creates a new Runner from its stage services.
func NewRunner(
	daily *DailyIssueService,
	collector *Collector,
	narrator driven.Narrator,
	poster *CommentPoster,
	drafts *DraftService,
) *Runner {
	r := &Runner{
		daily:     daily,
		collector: collector,
		narrator:  narrator,
		poster:    poster,
		drafts:    drafts,
		tracer:    telemetry.Tracer(""),
	}

	meter := telemetry.Meter("")
	var err error
	r.created, err = meter.Int64Counter("dailytracker.drafts.created",
		metric.WithDescription("Sub-issues created from approved drafts"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		slog.Warn("metric registration failed", "metric", "dailytracker.drafts.created", "error", err)
	}
	r.existed, err = meter.Int64Counter("dailytracker.drafts.existed",
		metric.WithDescription("Approved drafts skipped because a matching issue was open"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		slog.Warn("metric registration failed", "metric", "dailytracker.drafts.existed", "error", err)
	}

	return r
}

// Run executes the full pass for date. The returned error is non-nil only
// when the tracking issue could not be located or created.
func (r *Runner) Run(ctx context.Context, date time.Time) (model.RunReport, error) {
	ctx, span := r.tracer.Start(ctx, "dailytracker.run")
	defer span.End()

	start := time.Now()

	tracking, err := r.locate(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.RunReport{}, err
	}
	rep := newReport(tracking)

	narrative, err := r.narrate(ctx, date)
	if err != nil {
		slog.Error("narrative generation failed, status comment skipped", "issue", tracking.Number, "error", err)
		rep.NarrativeError = err.Error()
	} else {
		rep.SummaryPreview = report.Preview(narrative.Summary, previewRunes)
		rep.ActionsPreview = report.Preview(narrative.Actions, previewRunes)
		if comment := r.post(ctx, tracking.Number, narrative); comment != nil {
			rep.CommentURL = comment.URL
		}
	}

	r.processDrafts(ctx, tracking.Number, &rep)

	slog.Info("run complete",
		"issue", tracking.Number,
		"narrative", rep.NarrativeError == "",
		"processed", rep.Stats.Processed,
		"created", rep.Stats.Created,
		"existed", rep.Stats.Existed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return rep, nil
}

// RunDrafts locates or creates the tracking issue for date and advances the
// draft gate, without generating a narrative.
func (r *Runner) RunDrafts(ctx context.Context, date time.Time) (model.RunReport, error) {
	ctx, span := r.tracer.Start(ctx, "dailytracker.run_drafts")
	defer span.End()

	tracking, err := r.locate(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.RunReport{}, err
	}
	rep := newReport(tracking)

	r.processDrafts(ctx, tracking.Number, &rep)

	slog.Info("drafts run complete",
		"issue", tracking.Number,
		"processed", rep.Stats.Processed,
		"created", rep.Stats.Created,
		"existed", rep.Stats.Existed,
	)

	return rep, nil
}

func newReport(tracking model.TrackingIssue) model.RunReport {
	return model.RunReport{
		IssueURL:     tracking.URL,
		IssueNumber:  tracking.Number,
		IssueCreated: tracking.Created,
	}
}

func (r *Runner) locate(ctx context.Context, date time.Time) (model.TrackingIssue, error) {
	ctx, span := r.tracer.Start(ctx, "dailytracker.locate_issue")
	defer span.End()

	tracking, err := r.daily.LocateOrCreate(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.TrackingIssue{}, fmt.Errorf("locating tracking issue: %w", err)
	}

	span.SetAttributes(
		attribute.Int("dailytracker.issue", tracking.Number),
		attribute.Bool("dailytracker.issue_created", tracking.Created),
	)
	return tracking, nil
}

func (r *Runner) narrate(ctx context.Context, date time.Time) (model.Narrative, error) {
	ctx, span := r.tracer.Start(ctx, "dailytracker.generate")
	defer span.End()

	payload, err := r.collector.Collect(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Narrative{}, fmt.Errorf("collecting status: %w", err)
	}

	span.SetAttributes(
		attribute.Int("dailytracker.open_issues", payload.Counts.OpenIssues),
		attribute.Int("dailytracker.open_prs", payload.Counts.OpenPullRequests),
	)

	narrative, err := r.narrator.Generate(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Narrative{}, fmt.Errorf("generating narrative: %w", err)
	}
	return narrative, nil
}

func (r *Runner) post(ctx context.Context, issueNumber int, narrative model.Narrative) *model.Comment {
	ctx, span := r.tracer.Start(ctx, "dailytracker.post_comment")
	defer span.End()

	comment := r.poster.PostSummary(ctx, issueNumber, narrative)
	if comment == nil {
		span.SetStatus(codes.Error, "status comment not posted")
	}
	return comment
}

func (r *Runner) processDrafts(ctx context.Context, issueNumber int, rep *model.RunReport) {
	ctx, span := r.tracer.Start(ctx, "dailytracker.drafts")
	defer span.End()

	stats, err := r.drafts.ProcessDrafts(ctx, issueNumber)
	if err != nil {
		slog.Error("draft processing failed", "issue", issueNumber, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rep.DraftsError = err.Error()
	}
	rep.Stats = stats

	span.SetAttributes(
		attribute.Int("dailytracker.drafts.processed", stats.Processed),
		attribute.Int("dailytracker.drafts.created", stats.Created),
		attribute.Int("dailytracker.drafts.existed", stats.Existed),
	)

	if r.created != nil && stats.Created > 0 {
		r.created.Add(ctx, int64(stats.Created))
	}
	if r.existed != nil && stats.Existed > 0 {
		r.existed.Add(ctx, int64(stats.Existed))
	}
}

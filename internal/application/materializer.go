package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/domain/protocol"
)

// Materializer turns approved draft items into sub-issues of a tracking issue.
type Materializer struct {
	tracker driven.IssueTracker
	repo    model.Repository
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(tracker driven.IssueTracker, repo model.Repository) *Materializer {
	return &Materializer{tracker: tracker, repo: repo}
}

// Materialize creates one sub-issue per item, in order, unless an open issue
// with a matching title already exists. Open issues are re-listed before every
// item so that items later in the batch see issues created earlier in it.
// A failure on one item is logged and the remaining items are still processed.
func (m *Materializer) Materialize(
	ctx context.Context,
	parent model.TrackingIssue,
	items []model.DraftItem,
	stats model.RunStatistics,
) model.RunStatistics {
	var failures int

	for _, item := range items {
		if ctx.Err() != nil {
			slog.Warn("materialization interrupted", "issue", parent.Number, "error", ctx.Err())
			break
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		existing, err := m.findExisting(ctx, parent.Number, title)
		if err != nil {
			slog.Error("failed to check for existing issue",
				"issue", parent.Number, "draft_index", item.Index, "title", title, "error", err)
			failures++
			continue
		}
		if existing != nil {
			slog.Info("draft already tracked",
				"issue", parent.Number, "title", title, "existing_issue", existing.Number)
			stats.Existed++
			continue
		}

		created, err := m.tracker.CreateIssue(ctx, m.repo, model.NewIssue{
			Title:  title,
			Body:   protocol.SubIssueBody(parent, item),
			Labels: []string{protocol.SubIssueLabel},
		})
		if err != nil {
			slog.Error("failed to create sub-issue",
				"issue", parent.Number, "draft_index", item.Index, "title", title, "error", err)
			failures++
			continue
		}
		stats.Created++

		slog.Info("sub-issue created", "issue", parent.Number, "sub_issue", created.Number, "title", title)

		if _, err := m.tracker.CreateComment(ctx, m.repo, parent.Number, protocol.SubIssueAnnouncement(*created)); err != nil {
			slog.Warn("failed to announce sub-issue",
				"issue", parent.Number, "sub_issue", created.Number, "error", err)
		}
	}

	slog.Info("materialization complete",
		"issue", parent.Number,
		"processed", stats.Processed,
		"created", stats.Created,
		"existed", stats.Existed,
		"failed", failures,
	)

	return stats
}

// findExisting returns the first open issue whose title duplicates title.
// Pull requests and the tracking issue itself are never matches.
func (m *Materializer) findExisting(ctx context.Context, parentNumber int, title string) (*model.Issue, error) {
	issues, err := m.tracker.ListOpenIssues(ctx, m.repo, "")
	if err != nil {
		return nil, err
	}

	for i := range issues {
		issue := issues[i]
		if issue.IsPullRequest || issue.Number == parentNumber {
			continue
		}
		if protocol.IsDuplicateTitle(issue.Title, title) {
			return &issues[i], nil
		}
	}
	return nil, nil
}

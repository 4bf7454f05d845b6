package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/domain/protocol"
)

// CommentPoster publishes generated narratives on the tracking issue.
type CommentPoster struct {
	tracker driven.IssueTracker
	repo    model.Repository
	now     func() time.Time
}

// NewCommentPoster creates a new CommentPoster.
func NewCommentPoster(tracker driven.IssueTracker, repo model.Repository) *CommentPoster {
	return &CommentPoster{tracker: tracker, repo: repo, now: time.Now}
}

// PostSummary posts the narrative as a status comment on issueNumber.
// It returns nil when the narrative is incomplete or posting fails; both
// cases are logged and the caller carries on without a comment.
func (p *CommentPoster) PostSummary(ctx context.Context, issueNumber int, narrative model.Narrative) *model.Comment {
	if strings.TrimSpace(narrative.Summary) == "" || strings.TrimSpace(narrative.Actions) == "" {
		slog.Warn("narrative incomplete, status comment skipped",
			"issue", issueNumber,
			"has_summary", strings.TrimSpace(narrative.Summary) != "",
			"has_actions", strings.TrimSpace(narrative.Actions) != "",
		)
		return nil
	}

	body := protocol.StatusComment(p.now(), narrative)

	comment, err := p.tracker.CreateComment(ctx, p.repo, issueNumber, body)
	if err != nil {
		slog.Error("failed to post status comment", "issue", issueNumber, "error", err)
		return nil
	}

	slog.Info("status comment posted", "issue", issueNumber, "comment_id", comment.ID)
	return comment
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/domain/protocol"
)

// DraftService runs the draft approval gate on a tracking issue. All state is
// read back from the tracker on every call, so it is safe to run repeatedly
// at any phase of the gate.
type DraftService struct {
	tracker         driven.IssueTracker
	repo            model.Repository
	materializer    *Materializer
	automationLogin string
}

// NewDraftService creates a new DraftService. automationLogin, when not empty,
// identifies the account that posts confirmation requests in addition to any
// Bot account.
func NewDraftService(
	tracker driven.IssueTracker,
	repo model.Repository,
	materializer *Materializer,
	automationLogin string,
) *DraftService {
	return &DraftService{
		tracker:         tracker,
		repo:            repo,
		materializer:    materializer,
		automationLogin: automationLogin,
	}
}

// ProcessDrafts extracts draft items from the tracking issue body and advances
// the approval gate by one step:
//
//   - no drafts: nothing happens
//   - no confirmation request yet: one is posted listing every item
//   - confirmation request without approval: nothing happens
//   - approved confirmation request: items are materialized
//
// A confirmation request whose list no longer matches the current drafts is
// superseded by a new one instead of being acted on.
func (s *DraftService) ProcessDrafts(ctx context.Context, issueNumber int) (model.RunStatistics, error) {
	var stats model.RunStatistics

	issue, err := s.tracker.GetIssue(ctx, s.repo, issueNumber)
	if err != nil {
		return stats, fmt.Errorf("fetching tracking issue: %w", err)
	}

	items, err := protocol.ExtractDrafts(issue.Body)
	switch {
	case errors.Is(err, protocol.ErrNoDraftsSection):
		slog.Debug("no drafts section", "issue", issueNumber)
		return stats, nil
	case errors.Is(err, protocol.ErrDraftsEmpty), errors.Is(err, protocol.ErrDraftsPlaceholder):
		slog.Info("no drafts authored yet", "issue", issueNumber)
		return stats, nil
	case err != nil:
		return stats, fmt.Errorf("extracting drafts: %w", err)
	}

	stats.Processed = len(items)
	if len(items) == 0 {
		slog.Info("drafts section has no list items", "issue", issueNumber)
		return stats, nil
	}

	comments, err := s.tracker.ListComments(ctx, s.repo, issueNumber)
	if err != nil {
		return stats, fmt.Errorf("listing comments: %w", err)
	}

	confirmation := s.latestConfirmation(comments)
	if confirmation == nil {
		if err := s.requestConfirmation(ctx, issueNumber, items); err != nil {
			return stats, err
		}
		return stats, nil
	}

	if shown := protocol.ParseConfirmation(confirmation.Body); shown != nil && !protocol.SameDrafts(shown, items) {
		slog.Warn("drafts changed since confirmation was requested",
			"issue", issueNumber,
			"comment_id", confirmation.ID,
			"shown", len(shown),
			"current", len(items),
		)
		if err := s.requestConfirmation(ctx, issueNumber, items); err != nil {
			return stats, err
		}
		return stats, nil
	}

	reactions, err := s.tracker.ListCommentReactions(ctx, s.repo, confirmation.ID)
	if err != nil {
		return stats, fmt.Errorf("listing reactions: %w", err)
	}

	if !hasApproval(reactions) {
		slog.Info("awaiting approval", "issue", issueNumber, "comment_id", confirmation.ID, "drafts", len(items))
		return stats, nil
	}

	slog.Info("drafts approved", "issue", issueNumber, "comment_id", confirmation.ID, "drafts", len(items))

	parent := model.TrackingIssue{Number: issue.Number, Title: issue.Title, URL: issue.URL}
	if parent.Number == 0 {
		parent.Number = issueNumber
	}
	return s.materializer.Materialize(ctx, parent, items, stats), nil
}

func (s *DraftService) requestConfirmation(ctx context.Context, issueNumber int, items []model.DraftItem) error {
	comment, err := s.tracker.CreateComment(ctx, s.repo, issueNumber, protocol.ConfirmationRequest(items))
	if err != nil {
		return fmt.Errorf("posting confirmation request: %w", err)
	}
	slog.Info("confirmation requested", "issue", issueNumber, "comment_id", comment.ID, "drafts", len(items))
	return nil
}

// latestConfirmation returns the most recent confirmation request posted by
// the automation identity, or nil.
func (s *DraftService) latestConfirmation(comments []model.Comment) *model.Comment {
	var latest *model.Comment
	for i := range comments {
		c := comments[i]
		if !s.isAutomation(c) || !protocol.HasConfirmationMarker(c.Body) {
			continue
		}
		if latest == nil || !c.CreatedAt.Before(latest.CreatedAt) {
			latest = &comments[i]
		}
	}
	return latest
}

func (s *DraftService) isAutomation(c model.Comment) bool {
	if c.AuthorType == model.AuthorTypeBot {
		return true
	}
	return s.automationLogin != "" && strings.EqualFold(c.Author, s.automationLogin)
}

func hasApproval(reactions []model.Reaction) bool {
	for _, r := range reactions {
		if r.Content == protocol.ApprovalReaction {
			return true
		}
	}
	return false
}

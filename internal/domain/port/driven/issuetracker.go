package driven

import (
	"context"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

// IssueTracker defines the driven port for the repository data source.
// The tracker is the only durable store: every run re-reads what it needs.
type IssueTracker interface {
	// Read methods

	// ListOpenIssues returns open issues, optionally filtered to those
	// carrying label. An empty label disables filtering. Pull requests
	// returned by the issues endpoint are included with IsPullRequest set.
	ListOpenIssues(ctx context.Context, repo model.Repository, label string) ([]model.Issue, error)
	ListOpenPullRequests(ctx context.Context, repo model.Repository) ([]model.PullRequest, error)
	GetIssue(ctx context.Context, repo model.Repository, number int) (*model.Issue, error)
	ListComments(ctx context.Context, repo model.Repository, issueNumber int) ([]model.Comment, error)
	ListCommentReactions(ctx context.Context, repo model.Repository, commentID int64) ([]model.Reaction, error)

	// Write methods

	CreateIssue(ctx context.Context, repo model.Repository, issue model.NewIssue) (*model.Issue, error)
	CreateComment(ctx context.Context, repo model.Repository, issueNumber int, body string) (*model.Comment, error)
}

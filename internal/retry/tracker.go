package retry

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTracker = (*Tracker)(nil)

// Tracker decorates an IssueTracker so every call goes through Do.
// Reads and writes use separate policies.
type Tracker struct {
	inner driven.IssueTracker
	read  Policy
	write Policy
}

// NewTracker wraps inner with the given read and write policies.
func NewTracker(inner driven.IssueTracker, read, write Policy) *Tracker {
	return &Tracker{inner: inner, read: read, write: write}
}

func (t *Tracker) ListOpenIssues(ctx context.Context, repo model.Repository, label string) ([]model.Issue, error) {
	return Do(ctx, t.read, "list open issues", func(ctx context.Context) ([]model.Issue, error) {
		return t.inner.ListOpenIssues(ctx, repo, label)
	})
}

func (t *Tracker) ListOpenPullRequests(ctx context.Context, repo model.Repository) ([]model.PullRequest, error) {
	return Do(ctx, t.read, "list open pull requests", func(ctx context.Context) ([]model.PullRequest, error) {
		return t.inner.ListOpenPullRequests(ctx, repo)
	})
}

func (t *Tracker) GetIssue(ctx context.Context, repo model.Repository, number int) (*model.Issue, error) {
	return Do(ctx, t.read, fmt.Sprintf("get issue #%d", number), func(ctx context.Context) (*model.Issue, error) {
		return t.inner.GetIssue(ctx, repo, number)
	})
}

func (t *Tracker) ListComments(ctx context.Context, repo model.Repository, issueNumber int) ([]model.Comment, error) {
	return Do(ctx, t.read, fmt.Sprintf("list comments on #%d", issueNumber), func(ctx context.Context) ([]model.Comment, error) {
		return t.inner.ListComments(ctx, repo, issueNumber)
	})
}

func (t *Tracker) ListCommentReactions(ctx context.Context, repo model.Repository, commentID int64) ([]model.Reaction, error) {
	return Do(ctx, t.read, fmt.Sprintf("list reactions on comment %d", commentID), func(ctx context.Context) ([]model.Reaction, error) {
		return t.inner.ListCommentReactions(ctx, repo, commentID)
	})
}

func (t *Tracker) CreateIssue(ctx context.Context, repo model.Repository, issue model.NewIssue) (*model.Issue, error) {
	return Do(ctx, t.write, "create issue", func(ctx context.Context) (*model.Issue, error) {
		return t.inner.CreateIssue(ctx, repo, issue)
	})
}

func (t *Tracker) CreateComment(ctx context.Context, repo model.Repository, issueNumber int, body string) (*model.Comment, error) {
	return Do(ctx, t.write, fmt.Sprintf("create comment on #%d", issueNumber), func(ctx context.Context) (*model.Comment, error) {
		return t.inner.CreateComment(ctx, repo, issueNumber, body)
	})
}

package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

// CreateIssue opens a new issue with the given title, body, and labels.
// Labels that do not exist yet are created by GitHub on the fly.
func (c *Client) CreateIssue(ctx context.Context, repo model.Repository, issue model.NewIssue) (*model.Issue, error) {
	if issue.Title == "" {
		return nil, fmt.Errorf("creating issue in %s: title is empty", repo.FullName())
	}

	labels := issue.Labels
	if labels == nil {
		labels = []string{}
	}

	created, resp, err := c.gh.Issues.Create(ctx, repo.Owner, repo.Name, &gh.IssueRequest{
		Title:  gh.Ptr(issue.Title),
		Body:   gh.Ptr(issue.Body),
		Labels: &labels,
	})
	if err != nil {
		return nil, fmt.Errorf("creating issue %q in %s: %w", issue.Title, repo.FullName(), err)
	}

	logRateLimit(resp, repo.FullName()+"/issues:create", 0, 1)

	mapped, ok := mapIssue(created)
	if !ok {
		return nil, fmt.Errorf("creating issue %q in %s: response has no issue number", issue.Title, repo.FullName())
	}
	return &mapped, nil
}

// CreateComment adds a comment to an issue.
func (c *Client) CreateComment(ctx context.Context, repo model.Repository, issueNumber int, body string) (*model.Comment, error) {
	comment, resp, err := c.gh.Issues.CreateComment(ctx, repo.Owner, repo.Name, issueNumber, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("creating comment on %s#%d: %w", repo.FullName(), issueNumber, err)
	}

	logRateLimit(resp, repo.FullName()+"/comments:create", 0, 1)

	mapped := mapComment(comment)
	return &mapped, nil
}

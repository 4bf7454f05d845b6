// Package github implements the IssueTracker port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTracker = (*Client)(nil)

// Client implements the driven.IssueTracker port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with token auth)
//
// Every request revalidates its cached copy, so reads always observe earlier
// writes. Conditional requests answered with 304 do not count against the
// primary rate limit, which matters because open issues are re-listed once
// per draft.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(&revalidateTransport{next: cacheTransport})
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// revalidateTransport marks every request max-age=0 so httpcache never serves
// a cached response without an ETag round-trip.
type revalidateTransport struct {
	next http.RoundTripper
}

func (t *revalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || req.Header.Get("Cache-Control") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Cache-Control", "max-age=0")
	return t.next.RoundTrip(clone)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListOpenIssues retrieves open issues, filtered by label when label is non-empty.
// Pull requests returned by the issues endpoint are kept and flagged.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListOpenIssues(ctx context.Context, repo model.Repository, label string) ([]model.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:     "open",
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}
	if label != "" {
		opts.Labels = []string{label}
	}

	allIssues := []model.Issue{}

	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing open issues for %s (page %d): %w", repo.FullName(), opts.ListOptions.Page, err)
		}

		logRateLimit(resp, repo.FullName()+"/issues", opts.ListOptions.Page, len(issues))

		for _, issue := range issues {
			mapped, ok := mapIssue(issue)
			if !ok {
				slog.Warn("skipping malformed issue", "repo", repo.FullName(), "title", issue.GetTitle())
				continue
			}
			allIssues = append(allIssues, mapped)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}

	return allIssues, nil
}

// ListOpenPullRequests retrieves all open pull requests for the repository.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListOpenPullRequests(ctx context.Context, repo model.Repository) ([]model.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:     "open",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	allPRs := []model.PullRequest{}

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repo.FullName(), opts.Page, err)
		}

		logRateLimit(resp, repo.FullName()+"/pulls", opts.Page, len(prs))

		for _, pr := range prs {
			if pr.GetNumber() <= 0 {
				slog.Warn("skipping malformed pull request", "repo", repo.FullName(), "title", pr.GetTitle())
				continue
			}
			allPRs = append(allPRs, mapPullRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

// GetIssue retrieves a single issue, including its current body.
func (c *Client) GetIssue(ctx context.Context, repo model.Repository, number int) (*model.Issue, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s#%d: %w", repo.FullName(), number, err)
	}

	logRateLimit(resp, repo.FullName()+"/issue", 0, 1)

	mapped, ok := mapIssue(issue)
	if !ok {
		return nil, fmt.Errorf("fetching issue %s#%d: response has no issue number", repo.FullName(), number)
	}
	return &mapped, nil
}

// ListComments retrieves all comments on an issue, oldest first.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListComments(ctx context.Context, repo model.Repository, issueNumber int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	allComments := []model.Comment{}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, repo.Owner, repo.Name, issueNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments for %s#%d (page %d): %w", repo.FullName(), issueNumber, opts.Page, err)
		}

		logRateLimit(resp, repo.FullName()+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			if comment.GetID() == 0 {
				continue
			}
			allComments = append(allComments, mapComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// ListCommentReactions retrieves all reactions on an issue comment.
func (c *Client) ListCommentReactions(ctx context.Context, repo model.Repository, commentID int64) ([]model.Reaction, error) {
	opts := &gh.ListReactionOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	allReactions := []model.Reaction{}

	for {
		reactions, resp, err := c.gh.Reactions.ListIssueCommentReactions(ctx, repo.Owner, repo.Name, commentID, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reactions for %s comment %d (page %d): %w", repo.FullName(), commentID, opts.Page, err)
		}

		for _, r := range reactions {
			allReactions = append(allReactions, model.Reaction{
				Content: r.GetContent(),
				User:    r.GetUser().GetLogin(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allReactions, nil
}

// mapIssue converts a go-github Issue to a domain model Issue.
// ok is false when the payload lacks an issue number.
func mapIssue(issue *gh.Issue) (model.Issue, bool) {
	if issue == nil || issue.GetNumber() <= 0 {
		return model.Issue{}, false
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return model.Issue{
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		State:         model.IssueState(issue.GetState()),
		URL:           issue.GetHTMLURL(),
		Body:          issue.GetBody(),
		Labels:        labels,
		IsPullRequest: issue.IsPullRequest(),
		CreatedAt:     issue.GetCreatedAt().Time,
		UpdatedAt:     issue.GetUpdatedAt().Time,
	}, true
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	return model.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     model.IssueState(pr.GetState()),
		URL:       pr.GetHTMLURL(),
		Author:    pr.GetUser().GetLogin(),
		IsDraft:   pr.GetDraft(),
		Labels:    labels,
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

// mapComment converts a go-github IssueComment to a domain model Comment.
func mapComment(c *gh.IssueComment) model.Comment {
	return model.Comment{
		ID:         c.GetID(),
		Body:       c.GetBody(),
		Author:     c.GetUser().GetLogin(),
		AuthorType: model.AuthorType(c.GetUser().GetType()),
		URL:        c.GetHTMLURL(),
		CreatedAt:  c.GetCreatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

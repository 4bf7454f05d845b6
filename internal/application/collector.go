package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
	"github.com/ericfisherdev/dailytracker/internal/domain/protocol"
)

// CollectorLimits bounds the payload handed to the narrative generator.
type CollectorLimits struct {
	MaxIssues       int
	MaxPullRequests int
	StaleAfterDays  int
}

// Collector gathers the repository snapshot that the narrative describes.
type Collector struct {
	tracker driven.IssueTracker
	repo    model.Repository
	limits  CollectorLimits
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(tracker driven.IssueTracker, repo model.Repository, limits CollectorLimits) *Collector {
	return &Collector{tracker: tracker, repo: repo, limits: limits, now: time.Now}
}

// Collect lists open issues and pull requests and summarizes them. Pull
// requests returned by the issues endpoint and tracking issues are left out
// of the issue list. Counts cover every open item; the item lists are capped
// at the configured limits.
func (c *Collector) Collect(ctx context.Context, date time.Time) (model.StatusPayload, error) {
	now := c.now().UTC()

	issues, err := c.tracker.ListOpenIssues(ctx, c.repo, "")
	if err != nil {
		return model.StatusPayload{}, fmt.Errorf("listing open issues: %w", err)
	}

	prs, err := c.tracker.ListOpenPullRequests(ctx, c.repo)
	if err != nil {
		return model.StatusPayload{}, fmt.Errorf("listing open pull requests: %w", err)
	}

	payload := model.StatusPayload{
		Repository:   c.repo.FullName(),
		Date:         date.UTC().Format(protocol.DateLayout),
		GeneratedAt:  now,
		Labels:       make(map[string]int),
		Issues:       []model.IssueSummary{},
		PullRequests: []model.PullRequestSummary{},
	}

	for _, issue := range issues {
		if issue.IsPullRequest || issue.HasLabel(protocol.TrackingLabel) {
			continue
		}

		payload.Counts.OpenIssues++
		days := issue.DaysSinceUpdate(now)
		if c.isStale(days) {
			payload.Counts.StaleIssues++
		}
		for _, l := range issue.Labels {
			payload.Labels[l]++
		}

		if len(payload.Issues) < c.limits.MaxIssues {
			payload.Issues = append(payload.Issues, model.IssueSummary{
				Number:        issue.Number,
				Title:         issue.Title,
				Labels:        issue.Labels,
				CreatedAt:     formatDate(issue.CreatedAt),
				UpdatedAt:     formatDate(issue.UpdatedAt),
				DaysSinceEdit: days,
			})
		}
	}

	for _, pr := range prs {
		payload.Counts.OpenPullRequests++
		if pr.IsDraft {
			payload.Counts.DraftPRs++
		}
		days := pr.DaysSinceUpdate(now)
		if c.isStale(days) {
			payload.Counts.StalePRs++
		}

		if len(payload.PullRequests) < c.limits.MaxPullRequests {
			payload.PullRequests = append(payload.PullRequests, model.PullRequestSummary{
				Number:        pr.Number,
				Title:         pr.Title,
				Author:        pr.Author,
				Draft:         pr.IsDraft,
				Labels:        pr.Labels,
				CreatedAt:     formatDate(pr.CreatedAt),
				UpdatedAt:     formatDate(pr.UpdatedAt),
				DaysSinceEdit: days,
			})
		}
	}

	slog.Info("repository snapshot collected",
		"repo", c.repo.FullName(),
		"open_issues", payload.Counts.OpenIssues,
		"open_prs", payload.Counts.OpenPullRequests,
		"stale_issues", payload.Counts.StaleIssues,
		"stale_prs", payload.Counts.StalePRs,
	)

	return payload, nil
}

func (c *Collector) isStale(days int) bool {
	return c.limits.StaleAfterDays > 0 && days >= c.limits.StaleAfterDays
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(protocol.DateLayout)
}

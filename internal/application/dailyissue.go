// Package application contains use-case orchestration services.
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

// DailyIssueService finds the tracking issue for a date, creating it when
// none exists yet.
type DailyIssueService struct {
	tracker driven.IssueTracker
	repo    model.Repository
}

// NewDailyIssueService creates a new DailyIssueService.
func NewDailyIssueService(tracker driven.IssueTracker, repo model.Repository) *DailyIssueService {
	return &DailyIssueService{tracker: tracker, repo: repo}
}

// LocateOrCreate returns the open tracking issue whose title matches date,
// creating it with the template body and tracking label if absent. Lookup
// never mutates the tracker. Any tracker error is returned to the caller.
//
// Overlapping runs are not coordinated. If two runs both miss the lookup and
// both create, later runs converge on the lowest-numbered match.
func (s *DailyIssueService) LocateOrCreate(ctx context.Context, date time.Time) (model.TrackingIssue, error) {
	title := protocol.TrackingTitle(date)

	issues, err := s.tracker.ListOpenIssues(ctx, s.repo, protocol.TrackingLabel)
	if err != nil {
		return model.TrackingIssue{}, fmt.Errorf("listing tracking issues: %w", err)
	}

	var found *model.Issue
	var matches int
	for i := range issues {
		issue := issues[i]
		if issue.IsPullRequest || issue.Title != title {
			continue
		}
		matches++
		if found == nil || issue.Number < found.Number {
			found = &issues[i]
		}
	}

	if found != nil {
		if matches > 1 {
			slog.Warn("multiple tracking issues share a title, using the oldest",
				"repo", s.repo.FullName(),
				"title", title,
				"matches", matches,
				"issue", found.Number,
			)
		}
		slog.Info("tracking issue found", "repo", s.repo.FullName(), "issue", found.Number)
		return model.TrackingIssue{Number: found.Number, Title: found.Title, URL: found.URL}, nil
	}

	created, err := s.tracker.CreateIssue(ctx, s.repo, model.NewIssue{
		Title:  title,
		Body:   protocol.TrackingBody(date),
		Labels: []string{protocol.TrackingLabel},
	})
	if err != nil {
		return model.TrackingIssue{}, fmt.Errorf("creating tracking issue: %w", err)
	}

	slog.Info("tracking issue created", "repo", s.repo.FullName(), "issue", created.Number, "title", title)

	return model.TrackingIssue{
		Number:  created.Number,
		Title:   title,
		URL:     created.URL,
		Created: true,
	}, nil
}

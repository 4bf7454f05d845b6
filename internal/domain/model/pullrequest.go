package model

import "time"

// PullRequest represents an open pull request included in the status payload.
type PullRequest struct {
	Number    int
	Title     string
	State     IssueState
	URL       string
	Author    string
	IsDraft   bool
	Labels    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaysSinceUpdate returns the number of whole days between the last update and now.
func (pr PullRequest) DaysSinceUpdate(now time.Time) int {
	return int(now.Sub(pr.UpdatedAt).Hours() / 24)
}

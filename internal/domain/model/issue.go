package model

import (
	"strings"
	"time"
)

// Issue represents an issue as returned by the tracker. The GitHub issues
// endpoint also returns pull requests; those carry IsPullRequest=true.
type Issue struct {
	Number        int
	Title         string
	State         IssueState
	URL           string
	Body          string
	Labels        []string
	IsPullRequest bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasLabel reports whether the issue carries the given label (case-insensitive).
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// DaysSinceUpdate returns the number of whole days between the last update and now.
func (i Issue) DaysSinceUpdate(now time.Time) int {
	return int(now.Sub(i.UpdatedAt).Hours() / 24)
}

// NewIssue is the input to IssueTracker.CreateIssue.
type NewIssue struct {
	Title  string
	Body   string
	Labels []string
}

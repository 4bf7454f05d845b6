package model

import "time"

// Narrative is the generated status text posted on the tracking issue.
type Narrative struct {
	Summary string
	Actions string
}

// StatusPayload is the structured input handed to the narrative generator.
type StatusPayload struct {
	Repository   string               `yaml:"repository"`
	Date         string               `yaml:"date"`
	GeneratedAt  time.Time            `yaml:"generated_at"`
	Counts       StatusCounts         `yaml:"counts"`
	Labels       map[string]int       `yaml:"labels,omitempty"`
	Issues       []IssueSummary       `yaml:"issues"`
	PullRequests []PullRequestSummary `yaml:"pull_requests"`
}

// StatusCounts aggregates the collected items.
type StatusCounts struct {
	OpenIssues       int `yaml:"open_issues"`
	OpenPullRequests int `yaml:"open_pull_requests"`
	DraftPRs         int `yaml:"draft_pull_requests"`
	StaleIssues      int `yaml:"stale_issues"`
	StalePRs         int `yaml:"stale_pull_requests"`
}

// IssueSummary is the trimmed view of an issue sent to the generator.
type IssueSummary struct {
	Number        int      `yaml:"number"`
	Title         string   `yaml:"title"`
	Labels        []string `yaml:"labels,omitempty"`
	CreatedAt     string   `yaml:"created_at"`
	UpdatedAt     string   `yaml:"updated_at"`
	DaysSinceEdit int      `yaml:"days_since_update"`
}

// PullRequestSummary is the trimmed view of a pull request sent to the generator.
type PullRequestSummary struct {
	Number        int      `yaml:"number"`
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author,omitempty"`
	Draft         bool     `yaml:"draft"`
	Labels        []string `yaml:"labels,omitempty"`
	CreatedAt     string   `yaml:"created_at"`
	UpdatedAt     string   `yaml:"updated_at"`
	DaysSinceEdit int      `yaml:"days_since_update"`
}

// RunReport is what a run reports outward once it completes.
type RunReport struct {
	IssueURL       string
	IssueNumber    int
	IssueCreated   bool
	SummaryPreview string
	ActionsPreview string
	CommentURL     string
	Stats          RunStatistics
	NarrativeError string
	DraftsError    string
}

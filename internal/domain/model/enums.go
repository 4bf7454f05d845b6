package model

// IssueState represents the open/closed state of an issue or pull request.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// AuthorType mirrors the GitHub account type of a comment author.
type AuthorType string

const (
	AuthorTypeUser         AuthorType = "User"
	AuthorTypeBot          AuthorType = "Bot"
	AuthorTypeOrganization AuthorType = "Organization"
)

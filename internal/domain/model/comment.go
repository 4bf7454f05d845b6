package model

import "time"

// Comment represents a comment on an issue (GitHub Issues API).
type Comment struct {
	ID         int64
	Body       string
	Author     string
	AuthorType AuthorType
	URL        string
	CreatedAt  time.Time
}

// Reaction is a single emoji reaction on a comment. Content uses the GitHub
// reaction vocabulary ("+1", "-1", "laugh", "hooray", ...).
type Reaction struct {
	Content string
	User    string
}

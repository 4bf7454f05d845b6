package model

// TrackingIssue identifies the dated issue that collects status comments and
// hosts the drafts section.
type TrackingIssue struct {
	Number  int
	Title   string
	URL     string
	Created bool // True when this run created the issue.
}

// DraftItem is one list line from the drafts section of a tracking issue.
// It is recomputed from the issue body on every run.
type DraftItem struct {
	Index int    // 1-based position among the surviving list lines.
	Line  string // Raw line as written, trimmed.
	Title string // Line with the list prefix removed.
}

// RunStatistics counts what the draft workflow did during one run.
type RunStatistics struct {
	Processed int
	Created   int
	Existed   int
}

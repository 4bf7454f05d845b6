// Package protocol holds the plain-text conventions shared with the issue
// tracker: labels, title format, section headers, comment markers, and the
// small parsers that read them back out of issue bodies and comments.
//
// These strings are a wire format. Existing tracking issues depend on them,
// so changing any value breaks recognition of issues created earlier.
package protocol

import "time"

const (
	// TrackingLabel marks daily tracking issues.
	TrackingLabel = "daily-status"

	// TitlePrefix precedes the ISO date in a tracking issue title.
	TitlePrefix = "Daily Status"

	// DraftsHeader opens the drafts section of a tracking issue body.
	DraftsHeader = "## 📝 Drafts"

	// PlaceholderText appears in the template drafts section until a human
	// replaces it. Its presence means nothing has been authored yet.
	PlaceholderText = "Replace this comment with draft issues"

	// SubIssueLabel is applied to every issue materialized from a draft.
	SubIssueLabel = "from-draft"

	// ConfirmationMarker identifies a confirmation request comment.
	ConfirmationMarker = "Draft issues awaiting confirmation"

	// ApprovalReaction is the reaction content that approves a confirmation request.
	ApprovalReaction = "+1"

	// DateLayout is the layout of the date in tracking issue titles.
	DateLayout = "2006-01-02"
)

// sectionBreak starts the next second-level heading after the drafts header.
const sectionBreak = "\n## "

// TrackingTitle returns the exact tracking issue title for date.
// The date is converted to UTC before formatting.
func TrackingTitle(date time.Time) string {
	return TitlePrefix + " " + date.UTC().Format(DateLayout)
}

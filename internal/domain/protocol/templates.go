package protocol

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

// TrackingBody returns the template body of a new tracking issue.
func TrackingBody(date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", TrackingTitle(date))
	b.WriteString("Status updates for this day are posted as comments below.\n\n")
	b.WriteString("## 🔔 Reminders\n\n")
	b.WriteString("- [ ] Review open pull requests\n")
	b.WriteString("- [ ] Triage new issues\n")
	b.WriteString("- [ ] Follow up on stale items\n\n")
	b.WriteString("## 📊 Metrics\n\n")
	b.WriteString("_Filled in by the daily status comment._\n\n")
	b.WriteString(DraftsHeader + "\n\n")
	b.WriteString("<!-- " + PlaceholderText + ", one per line (\"- Title\" or \"1. Title\"). ")
	b.WriteString("Remove this comment when you add items. -->\n")
	return b.String()
}

// StatusComment formats the generated narrative as a tracking issue comment.
func StatusComment(now time.Time, n model.Narrative) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 🤖 Status Update (%s UTC)\n\n", now.UTC().Format("2006-01-02 15:04"))
	b.WriteString("### Summary\n\n")
	b.WriteString(strings.TrimSpace(n.Summary))
	b.WriteString("\n\n### Proposed Actions\n\n")
	b.WriteString(strings.TrimSpace(n.Actions))
	b.WriteString("\n\n---\n")
	b.WriteString("_Generated automatically from open issues and pull requests. Verify before acting on proposals._\n")
	return b.String()
}

// ConfirmationRequest formats the comment asking a human to approve the
// materialization of items. Items are listed with their 1-based index so
// ParseConfirmation can read the list back.
func ConfirmationRequest(items []model.DraftItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 📋 %s\n\n", ConfirmationMarker)
	fmt.Fprintf(&b, "Found %d draft item(s) in the drafts section:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
	}
	b.WriteString("\nReact with 👍 to this comment to create these issues. ")
	b.WriteString("They are created on the next scheduled run; drafts that match an existing open issue are skipped.\n")
	return b.String()
}

// SubIssueBody returns the body of an issue materialized from item.
func SubIssueBody(parent model.TrackingIssue, item model.DraftItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created from a draft in #%d", parent.Number)
	if parent.URL != "" {
		fmt.Fprintf(&b, " (%s)", parent.URL)
	}
	b.WriteString(".\n\n## Details\n\n")
	b.WriteString(item.Title)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Parent issue: #%d\n", parent.Number)
	return b.String()
}

// SubIssueAnnouncement is posted on the tracking issue after a sub-issue is created.
func SubIssueAnnouncement(created model.Issue) string {
	if created.URL == "" {
		return fmt.Sprintf("✅ Created sub-issue #%d: %s", created.Number, created.Title)
	}
	return fmt.Sprintf("✅ Created sub-issue #%d: [%s](%s)", created.Number, created.Title, created.URL)
}

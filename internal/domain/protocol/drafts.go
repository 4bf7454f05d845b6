package protocol

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

var (
	// ErrNoDraftsSection means the body has no drafts header at all.
	ErrNoDraftsSection = errors.New("drafts section not found")
	// ErrDraftsEmpty means the drafts section exists but holds no text.
	ErrDraftsEmpty = errors.New("drafts section is empty")
	// ErrDraftsPlaceholder means the template placeholder is still present.
	ErrDraftsPlaceholder = errors.New("drafts section still holds the template placeholder")
)

// listItemPattern matches a bullet ("-", "*", "+") or ordinal ("1." / "1)")
// list line and captures the text after the prefix.
var listItemPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.*)$`)

// taskBoxPattern matches a GFM task-list checkbox at the start of item text.
var taskBoxPattern = regexp.MustCompile(`^\[[ xX]\]\s*`)

// DraftsRegion returns the trimmed text between DraftsHeader and the next
// second-level heading (or the end of the body).
func DraftsRegion(body string) (string, error) {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	idx := strings.Index(body, DraftsHeader)
	if idx < 0 {
		return "", ErrNoDraftsSection
	}

	region := body[idx+len(DraftsHeader):]
	if end := strings.Index(region, sectionBreak); end >= 0 {
		region = region[:end]
	}

	region = strings.TrimSpace(region)
	if region == "" {
		return "", ErrDraftsEmpty
	}
	if strings.Contains(region, PlaceholderText) {
		return "", ErrDraftsPlaceholder
	}
	return region, nil
}

// ExtractDrafts returns the list items of the drafts section in source order.
// Lines that are not list items are ignored, as are items whose text is empty
// once the prefix is removed. A section with no list lines yields an empty
// slice and a nil error.
func ExtractDrafts(body string) ([]model.DraftItem, error) {
	region, err := DraftsRegion(body)
	if err != nil {
		return nil, err
	}

	var items []model.DraftItem
	for _, line := range strings.Split(region, "\n") {
		title, ok := ListItemTitle(line)
		if !ok {
			continue
		}
		items = append(items, model.DraftItem{
			Index: len(items) + 1,
			Line:  strings.TrimSpace(line),
			Title: title,
		})
	}
	return items, nil
}

// ListItemTitle strips the list prefix (and a task checkbox, if any) from line.
// ok is false when line is not a list item or nothing remains after stripping.
func ListItemTitle(line string) (string, bool) {
	m := listItemPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(taskBoxPattern.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	if title == "" {
		return "", false
	}
	return title, true
}

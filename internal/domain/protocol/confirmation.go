package protocol

import (
	"regexp"
	"strings"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

var confirmationItemPattern = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

// HasConfirmationMarker reports whether body is a confirmation request.
// Authorship is checked separately by the caller.
func HasConfirmationMarker(body string) bool {
	return strings.Contains(body, ConfirmationMarker)
}

// ParseConfirmation returns the draft titles listed in a confirmation request,
// in the order they were shown. Comments that predate item listing, or list
// nothing recognizable, yield nil.
func ParseConfirmation(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	idx := strings.Index(body, ConfirmationMarker)
	if idx < 0 {
		return nil
	}

	var titles []string
	for _, line := range strings.Split(body[idx:], "\n") {
		m := confirmationItemPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		titles = append(titles, strings.TrimSpace(m[2]))
	}
	return titles
}

// SameDrafts reports whether shown (from ParseConfirmation) lists exactly the
// titles of items, in the same order.
func SameDrafts(shown []string, items []model.DraftItem) bool {
	if len(shown) != len(items) {
		return false
	}
	for i, item := range items {
		if shown[i] != item.Title {
			return false
		}
	}
	return true
}

// IsDuplicateTitle reports whether an existing issue title and a draft title
// describe the same work, ignoring case: the titles are equal, the existing
// title contains the draft title, or the draft title contains the existing
// title as whole words. The last check is word-bounded so that a short
// existing title such as "CI" does not match inside "specific".
func IsDuplicateTitle(existing, candidate string) bool {
	e := strings.ToLower(strings.TrimSpace(existing))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if e == "" || c == "" {
		return false
	}
	return e == c || strings.Contains(e, c) || containsWords(c, e)
}

// containsWords reports whether phrase occurs in s delimited by non-word
// characters or the ends of s.
func containsWords(s, phrase string) bool {
	re, err := regexp.Compile(`(?:^|\W)` + regexp.QuoteMeta(phrase) + `(?:\W|$)`)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

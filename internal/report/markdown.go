// Package report renders the outcome of a run for people and for workflow
// tooling: plain-text previews, a terminal summary, and GitHub Actions outputs.
package report

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	mdRenderer  = goldmark.New(goldmark.WithExtensions(extension.GFM))
	tagStripper = bluemonday.StrictPolicy()
)

// ellipsis marks a truncated preview.
const ellipsis = "…"

// Preview converts markdown to a single line of plain text of at most n runes.
// Markup is rendered and then stripped, so "**bold** [link](url)" previews as
// "bold link". Returns empty string for empty input or n < 1.
func Preview(src string, n int) string {
	if strings.TrimSpace(src) == "" || n < 1 {
		return ""
	}

	return truncate(PlainText(src), n)
}

// PlainText renders markdown and strips every tag, collapsing whitespace.
func PlainText(src string) string {
	var buf bytes.Buffer
	rendered := src
	if err := mdRenderer.Convert([]byte(src), &buf); err == nil {
		rendered = buf.String()
	}

	text := html.UnescapeString(tagStripper.Sanitize(rendered))
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return ellipsis
	}

	runes := []rune(s)
	return strings.TrimRight(string(runes[:n-1]), " ") + ellipsis
}

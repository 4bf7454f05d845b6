package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

var (
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorHead = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

// palette renders the parts of a report. The plain palette leaves text as is.
type palette struct {
	heading func(string) string
	label   func(string) string
	pass    func(string) string
	warn    func(string) string
	fail    func(string) string
}

func plainPalette() palette {
	id := func(s string) string { return s }
	return palette{heading: id, label: id, pass: id, warn: id, fail: id}
}

func styledPalette() palette {
	render := func(st lipgloss.Style) func(string) string {
		return func(s string) string { return st.Render(s) }
	}
	return palette{
		heading: render(lipgloss.NewStyle().Bold(true).Foreground(colorHead)),
		label:   render(lipgloss.NewStyle().Foreground(colorMute)),
		pass:    render(lipgloss.NewStyle().Foreground(colorPass)),
		warn:    render(lipgloss.NewStyle().Foreground(colorWarn)),
		fail:    render(lipgloss.NewStyle().Foreground(colorFail)),
	}
}

// Write prints a human-readable summary of rep to w. Colors are applied only
// when styled is true, which callers set when w is a terminal.
func Write(w io.Writer, rep model.RunReport, styled bool) error {
	p := plainPalette()
	if styled {
		p = styledPalette()
	}

	issue := fmt.Sprintf("#%d %s", rep.IssueNumber, rep.IssueURL)
	if rep.IssueCreated {
		issue += " " + p.pass("(created)")
	}

	lines := []string{
		p.heading("Daily status run"),
		row(p, "Tracking issue", issue),
	}

	switch {
	case rep.NarrativeError != "":
		lines = append(lines, row(p, "Narrative", p.fail("✗ "+rep.NarrativeError)))
	default:
		lines = append(lines,
			row(p, "Summary", rep.SummaryPreview),
			row(p, "Actions", rep.ActionsPreview),
		)
		if rep.CommentURL != "" {
			lines = append(lines, row(p, "Comment", rep.CommentURL))
		} else {
			lines = append(lines, row(p, "Comment", p.warn("⚠ not posted")))
		}
	}

	lines = append(lines, row(p, "Drafts", fmt.Sprintf("processed %d, created %d, existed %d",
		rep.Stats.Processed, rep.Stats.Created, rep.Stats.Existed)))
	if rep.DraftsError != "" {
		lines = append(lines, row(p, "Drafts error", p.fail("✗ "+rep.DraftsError)))
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

func row(p palette, label, value string) string {
	return p.label(fmt.Sprintf("%-15s", label+":")) + " " + value
}

// Outputs returns rep as GitHub Actions step outputs, in a stable order.
func Outputs(rep model.RunReport) [][2]string {
	return [][2]string{
		{"issue_url", rep.IssueURL},
		{"issue_number", strconv.Itoa(rep.IssueNumber)},
		{"issue_created", strconv.FormatBool(rep.IssueCreated)},
		{"summary_preview", rep.SummaryPreview},
		{"actions_preview", rep.ActionsPreview},
		{"comment_url", rep.CommentURL},
		{"processed", strconv.Itoa(rep.Stats.Processed)},
		{"created", strconv.Itoa(rep.Stats.Created)},
		{"existed", strconv.Itoa(rep.Stats.Existed)},
		{"narrative_error", rep.NarrativeError},
		{"drafts_error", rep.DraftsError},
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"FinChart/internal/loader"
	"FinChart/internal/recorder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#85bb65"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(10)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// renderSummary describes a successful load.
func renderSummary(res *loader.Result, out string) string {
	s := res.Series
	lines := []string{
		titleStyle.Render(res.Chart.Title),
		row("load", res.LoadID),
		row("source", res.Source),
		row("points", fmt.Sprintf("%d", s.Len())),
		row("skipped", fmt.Sprintf("%d (null %d, bad key %d, bad value %d)",
			s.Skipped.Total(), s.Skipped.Null, s.Skipped.BadKey, s.Skipped.BadValue)),
	}
	if s.Len() > 0 {
		lines = append(lines,
			row("range", fmt.Sprintf("%s → %s", s.Dates[0], s.Dates[s.Len()-1])),
			row("last", fmt.Sprintf("%.2f", s.Prices[s.Len()-1])))
	}
	lines = append(lines, row("took", res.Duration.String()))
	if out != "" {
		lines = append(lines, row("written", out))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderFailure describes a failed load.
func renderFailure(err error) string {
	return errorStyle.Render(fmt.Sprintf("✗ %s", loader.Outcome(err))) + " " + err.Error()
}

// renderLoads lists recorded loads, newest first.
func renderLoads(events []recorder.LoadEvent) string {
	if len(events) == 0 {
		return "no chart loads recorded"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent chart loads") + "\n")
	for _, e := range events {
		outcome := okStyle.Render(e.Outcome)
		if e.Outcome != loader.OutcomeOK {
			outcome = errorStyle.Render(e.Outcome)
		}
		b.WriteString(fmt.Sprintf("%s  %-8s %-22s %5d pts %4d skipped %6dms  %s\n",
			e.StartedAt.Format("2006-01-02 15:04:05"), e.Source, outcome,
			e.Points, e.Null+e.BadKey+e.BadValue, e.Duration.Milliseconds(), e.ID))
		if e.Error != "" {
			b.WriteString("    " + e.Error + "\n")
		}
	}
	return b.String()
}

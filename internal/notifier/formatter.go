package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"FinChart/internal/recorder"
)

// FormatLoadFailure formats a failed chart load into an alert message.
func FormatLoadFailure(source, outcome, loadID string, err error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("❌ <b>FinChart export failed</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Source: %s\n", html.EscapeString(source)))
	b.WriteString(fmt.Sprintf("Outcome: %s\n", outcome))
	if loadID != "" {
		b.WriteString(fmt.Sprintf("Load: <code>%s</code>\n", loadID))
	}
	if err != nil {
		b.WriteString(fmt.Sprintf("\n%s\n", html.EscapeString(err.Error())))
	}
	return b.String()
}

// FormatExportDone formats a successful export.
func FormatExportDone(path string, points, skipped int) string {
	return fmt.Sprintf("✅ <b>Chart exported</b>\n\nFile: %s\nPoints: %d (skipped %d)",
		html.EscapeString(path), points, skipped)
}

// FormatRecentLoads lists recent load attempts, newest first.
func FormatRecentLoads(events []recorder.LoadEvent) string {
	if len(events) == 0 {
		return "No chart loads recorded yet."
	}
	var b strings.Builder
	b.WriteString("📈 <b>Recent chart loads</b>\n\n")
	for _, e := range events {
		mark := "✅"
		if e.Outcome != "ok" {
			mark = "❌"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %d pts (%d skipped) %dms\n",
			mark, e.StartedAt.Format("01-02 15:04"), e.Outcome,
			e.Points, e.Null+e.BadKey+e.BadValue, e.Duration.Milliseconds()))
	}
	return b.String()
}

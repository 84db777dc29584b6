package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/summarize"
)

var (
	// reportTitleStyle for the report heading
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	// dimStyle for muted label text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for healthy counters
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for skip and degradation counters
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for failure counters
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// reportBoxStyle for the report frame
	reportBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// printRunReport renders the end-of-run summary box.
func printRunReport(w io.Writer, mode summarize.Mode, res pipeline.Result, stats summarize.StatsSnapshot) {
	count := func(n int, style lipgloss.Style) string {
		if n == 0 {
			return dimStyle.Render("0")
		}
		return style.Render(fmt.Sprintf("%d", n))
	}

	content := fmt.Sprintf("%s\n\n%s %d\n%s %s\n%s %s\n%s %s\n%s %s\n%s %s",
		reportTitleStyle.Render(fmt.Sprintf("docsum %s-level run", mode)),
		dimStyle.Render("Files found:"), res.FilesFound,
		dimStyle.Render("Summaries: "), count(res.Summaries, successStyle),
		dimStyle.Render("Cache hits:"), count(res.CacheSkips, successStyle),
		dimStyle.Render("Skipped:   "), count(res.Skipped, warnStyle),
		dimStyle.Render("Degraded:  "), count(res.Degraded, warnStyle),
		dimStyle.Render("Failures:  "), count(res.Failures, errorStyle),
	)

	if stats.Count > 0 {
		content += fmt.Sprintf("\n\n%s %d calls, avg %.0fms, p50 %.0fms, p95 %.0fms",
			dimStyle.Render("LLM latency:"), stats.Count, stats.AvgMs, stats.P50Ms, stats.P95Ms)
	}

	fmt.Fprintln(w, reportBoxStyle.Render(content))
}

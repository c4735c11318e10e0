package radarr

import (
	"fmt"
	"strings"
)

// ConsoleFormatter provides console output formatting for export results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatExportResult formats the outcome of an export
func (f *ConsoleFormatter) FormatExportResult(result *ExportResult) string {
	if result == nil {
		return ""
	}

	var sb strings.Builder

	addedLabel := "Added to Radarr"
	if result.DryRun {
		addedLabel = "Would add to Radarr"
	}

	f.formatSection(&sb, addedLabel, result.Added, nil)
	f.formatSection(&sb, "Already in Radarr", result.Skipped, nil)

	if len(result.Failed) > 0 {
		items := make([]ExportItem, len(result.Failed))
		reasons := make([]string, len(result.Failed))
		for i, failure := range result.Failed {
			items[i] = failure.Item
			reasons[i] = failure.Err.Error()
		}
		f.formatSection(&sb, "Failed", items, reasons)
	}

	if sb.Len() == 0 {
		return "Nothing to export"
	}

	fmt.Fprintf(&sb, "Summary: %d added, %d skipped, %d failed\n",
		len(result.Added), len(result.Skipped), len(result.Failed))
	return sb.String()
}

func (f *ConsoleFormatter) formatSection(sb *strings.Builder, label string, items []ExportItem, reasons []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(sb, "\n%s (%d):\n\n", label, len(items))
	for i, item := range items {
		isLast := i == len(items)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		title := item.Title
		if title == "" {
			title = fmt.Sprintf("TMDB %d", item.TMDBID)
		}
		if item.Year > 0 {
			title = fmt.Sprintf("%s (%d)", title, item.Year)
		}
		fmt.Fprintf(sb, "%s── %s\n", prefix, title)

		if reasons != nil {
			fmt.Fprintf(sb, "%sError: %s\n", indent, reasons[i])
		}
	}
	sb.WriteString("\n")
}

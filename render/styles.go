package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Gold      = lipgloss.Color("#E5A00D")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

type styles struct {
	title   lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
	err     lipgloss.Style
	success lipgloss.Style
	link    lipgloss.Style
	header  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Foreground(White).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(DimGray),
		accent:  lipgloss.NewStyle().Foreground(Gold),
		err:     lipgloss.NewStyle().Foreground(Red),
		success: lipgloss.NewStyle().Foreground(Green),
		link:    lipgloss.NewStyle().Foreground(Blue).Underline(true),
		header:  lipgloss.NewStyle().Foreground(LightGray).Bold(true),
	}
}

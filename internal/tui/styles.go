package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ANSI 256 palette.
var (
	blue   = lipgloss.Color("39")
	gray   = lipgloss.Color("245")
	pink   = lipgloss.Color("212")
	green  = lipgloss.Color("76")
	orange = lipgloss.Color("214")
	dim    = lipgloss.Color("240")
	white  = lipgloss.Color("255")
	black  = lipgloss.Color("0")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	titleStyle      = fg(blue).Bold(true).MarginBottom(1)
	statsStyle      = fg(gray).MarginBottom(1)
	breadcrumbStyle = fg(gray)
	statusStyle     = fg(gray)
	filterStyle     = fg(orange)
	detailStyle     = fg(orange)
	helpStyle       = fg(dim).MarginTop(1)

	headerStyle = fg(dim).Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(dim)
	selectedStyle = fg(black).Background(blue).Bold(true)

	dirStyle     = fg(blue).Bold(true)
	fileStyle    = fg(white)
	symlinkStyle = fg(pink)

	barFilledStyle = fg(green)
	barEmptyStyle  = fg(dim)
)

// FormatSize formats a byte count for display.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// FormatCount formats a count for display.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

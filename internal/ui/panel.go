package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/wt/internal/model"
)

// ShareBar renders how much of total belongs to part, with a percentage.
func ShareBar(part, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(part) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	t := Current()
	bar := strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled)
	pct := int(float64(part) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Tabs renders the category switch with the active category highlighted.
func Tabs(active model.Category) string {
	t := Current()
	parts := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		style := t.InactiveTab
		if c == active {
			style = t.ActiveTab
		}
		parts = append(parts, style.Render(c.Label()))
	}
	return strings.Join(parts, "   ")
}

// Placeholder is the input hint for category c.
func Placeholder(c model.Category) string {
	if c == model.Travel {
		return "Where do you want to go?"
	}
	return "What do you have to do?"
}

// Truncate shortens s to max runes, ending with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// Box frames inner with the current theme's border.
func Box(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, Box(strings.Join(lines, "\n")))
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Warn lipgloss.Style
	ActiveTab, InactiveTab, Selected          lipgloss.Style
	BorderColor                               lipgloss.TerminalColor
	Border                                    lipgloss.Border
	SymOK, SymFail, SymWarn, Bullet, Cursor   string
	BarFull, BarEmpty                         string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warn:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		InactiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		BorderColor: lipgloss.Color("8"),
		Border:      lipgloss.RoundedBorder(),
		SymOK:       "✔", SymFail: "✖", SymWarn: "!",
		Bullet: "•", Cursor: "> ",
		BarFull: "█", BarEmpty: "░",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		t := classic()
		t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		t.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
		t.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		t.BorderColor = lipgloss.Color("13")
		t.Bullet = "◆"
		current = t
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Warn: plain,
			ActiveTab: plain.Underline(true), InactiveTab: plain, Selected: plain.Reverse(true),
			BorderColor: lipgloss.NoColor{},
			Border:      lipgloss.ASCIIBorder(),
			SymOK:       "ok", SymFail: "x", SymWarn: "!",
			Bullet: "-", Cursor: "> ",
			BarFull: "#", BarEmpty: ".",
		}
	default: // classic
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }

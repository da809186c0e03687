package tui

import "github.com/charmbracelet/lipgloss"

// Styles 终端界面样式
type Styles struct {
	Header    lipgloss.Style
	Mode      lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Rationale lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Notice    lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	UserTurn  lipgloss.Style
	ModelTurn lipgloss.Style
	Help      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#5A56E0")).Padding(0, 1),
		Mode:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A8A8")).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#A8A8A8")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("#EE6FF8")),
		Rationale: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#767676")),
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8")).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#767676")),
		Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
		UserTurn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		ModelTurn: lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

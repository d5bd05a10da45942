package style

import "github.com/charmbracelet/lipgloss"

// Styles are the shared lipgloss styles of the launchpad screens.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Link        lipgloss.Style
	Button      lipgloss.Style
	ButtonIdle  lipgloss.Style
	Placeholder lipgloss.Style
}

func DefaultStyles() Styles {
	p := DefaultPalette()
	tabBorder := lipgloss.RoundedBorder()

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginBottom(1),
		Tab: lipgloss.NewStyle().
			Border(tabBorder).
			BorderForeground(p.TextMuted).
			Foreground(p.TextSecondary).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Border(tabBorder).
			BorderForeground(p.Primary).
			Foreground(p.Primary).
			Bold(true).
			Padding(0, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.TextMuted).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(p.Info).
			Bold(true),
		Label:   lipgloss.NewStyle().Foreground(p.TextSecondary),
		Muted:   lipgloss.NewStyle().Foreground(p.TextMuted),
		Success: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Link:    lipgloss.NewStyle().Foreground(p.Info).Underline(true),
		Button: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Secondary).
			Bold(true).
			Padding(0, 2),
		ButtonIdle: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Background(p.BackgroundAlt).
			Padding(0, 2),
		Placeholder: lipgloss.NewStyle().
			Foreground(p.TextMuted).
			Italic(true).
			Padding(1, 2),
	}
}

package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// LogPane renders the tail of the in-memory log ring.
type LogPane struct {
	ring     *logger.Ring
	viewport viewport.Model
	visible  bool
	title    string

	container lipgloss.Style
	titleSt   lipgloss.Style
	timestamp lipgloss.Style
	errorSt   lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
}

func NewLogPane(ring *logger.Ring) *LogPane {
	palette := style.DefaultPalette()

	return &LogPane{
		ring:     ring,
		visible:  true,
		title:    "Recent Logs",
		viewport: viewport.New(60, 5),

		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),
		titleSt:   lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
		timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
		errorSt:   lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
		warning:   lipgloss.NewStyle().Foreground(palette.Warning),
		info:      lipgloss.NewStyle().Foreground(palette.Text),
	}
}

// SetSize sets the component dimensions
func (lp *LogPane) SetSize(width, height int) {
	lp.container = lp.container.Width(width - 2)
	lp.viewport.Width = width - 4
	h := height - 3 // border + title
	if h < 2 {
		h = 2
	}
	lp.viewport.Height = h
}

func (lp *LogPane) Toggle() {
	lp.visible = !lp.visible
}

func (lp *LogPane) IsVisible() bool {
	return lp.visible
}

func (lp *LogPane) View() string {
	if !lp.visible {
		return ""
	}
	lp.refresh()

	return lp.container.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		lp.titleSt.Render(lp.title+" [ctrl+l]"),
		lp.viewport.View(),
	))
}

func (lp *LogPane) refresh() {
	if lp.ring == nil {
		lp.viewport.SetContent("No log buffer available")
		return
	}

	entries := lp.ring.Recent(50)
	if len(entries) == 0 {
		lp.viewport.SetContent("No logs yet")
		return
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, lp.format(e))
	}
	lp.viewport.SetContent(strings.Join(lines, "\n"))
	lp.viewport.GotoBottom()
}

func (lp *LogPane) format(e logger.LogEntry) string {
	ts := lp.timestamp.Render(e.Timestamp.Format("15:04:05"))

	var msg string
	switch {
	case e.Level >= zapcore.ErrorLevel:
		msg = lp.errorSt.Render(e.Message)
	case e.Level == zapcore.WarnLevel:
		msg = lp.warning.Render(e.Message)
	default:
		msg = lp.info.Render(e.Message)
	}
	return fmt.Sprintf("%s %s", ts, msg)
}

package watch

import "github.com/charmbracelet/lipgloss"

var (
	downloadingMode = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			SetString("Downloading")

	pausedMode = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("3")).
			SetString("Paused")
)

var (
	ColorGray lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "239", Dark: "244"}
	ColorRed  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#FF7043", Dark: "#FF7043"}
	ColorDone lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}

	ColorFocusBackground lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "15", Dark: "8"}
)

var (
	styleSpeed = lipgloss.NewStyle().Padding(0, 1)
	styleError = lipgloss.NewStyle().Foreground(ColorRed).Padding(0, 1)
	styleHelp  = lipgloss.NewStyle().Foreground(ColorGray).Padding(0, 1)
)

func trunc(s string, n int) string {
	if n <= 3 {
		return s
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

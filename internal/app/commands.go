package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LoadCmd returns a command that sends LoadMsg for path.
func LoadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return LoadMsg{Path: path}
	}
}

// ScrubCommitCmd returns a command that sends ScrubCommitMsg after delay.
func ScrubCommitCmd(delay time.Duration, version int) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return ScrubCommitMsg{Version: version}
	})
}

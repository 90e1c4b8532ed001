package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/keymap"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.Config.SeekStep.Seconds()

	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m.quit()
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case keymap.ActionPlayPause:
		m.Player.Toggle()
	case keymap.ActionScrubBack:
		return m.scrubBy(-step)
	case keymap.ActionScrubFwd:
		return m.scrubBy(step)
	case keymap.ActionSeekBack:
		return m.seekBy(-step), nil
	case keymap.ActionSeekForward:
		return m.seekBy(step), nil
	case keymap.ActionVolumeUp:
		return m.changeVolume(volumeStep), nil
	case keymap.ActionVolumeDown:
		return m.changeVolume(-volumeStep), nil
	}
	return m, nil
}

// scrubBy drags the display time like a slider gesture. The seek happens
// once the key has not repeated for the commit delay.
func (m Model) scrubBy(delta float64) (tea.Model, tea.Cmd) {
	if _, ok := m.Player.SliderRange(); !ok || m.MouseScrubbing {
		return m, nil
	}
	m.Player.Drag(m.Player.DisplayTime() + delta)
	m.KeyScrubbing = true
	m.ScrubVersion++
	return m, ScrubCommitCmd(m.Config.ScrubCommitDelay, m.ScrubVersion)
}

// seekBy seeks immediately, ending any keyboard scrub in progress.
func (m Model) seekBy(delta float64) Model {
	if _, ok := m.Player.SliderRange(); !ok || m.MouseScrubbing {
		return m
	}
	m.cancelScrub()
	m.Player.SeekBy(delta)
	return m
}

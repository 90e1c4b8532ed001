package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/ui/playerbar"
)

// handleMouse maps a press on the slider to BeginScrub, motion to Drag and
// the release to EndScrub at the dragged display time. The player bar is
// drawn at the top of the screen, so mouse coordinates are bar coordinates.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	bar := m.barState()
	width := m.width()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		switch playerbar.HitTest(bar, msg.X, msg.Y, width) {
		case playerbar.TargetButton:
			m.Player.Toggle()
		case playerbar.TargetSlider:
			m.cancelScrub()
			m.MouseScrubbing = true
			m.Player.BeginScrub()
			m.Player.Drag(playerbar.SliderValueAt(bar, msg.X, width))
		case playerbar.TargetNone:
		}

	case tea.MouseActionMotion:
		if m.MouseScrubbing {
			m.Player.Drag(playerbar.SliderValueAt(bar, msg.X, width))
		}

	case tea.MouseActionRelease:
		if m.MouseScrubbing {
			m.MouseScrubbing = false
			m.Player.EndScrub(m.Player.DisplayTime())
		}
	}
	return m
}

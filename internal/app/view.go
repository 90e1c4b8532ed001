package app

import (
	"github.com/llehouerou/ripple/internal/ui/playerbar"
)

// View renders the player bar and the help line below it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return playerbar.Render(m.barState(), m.width()) + "\n " + m.help.View(m.helpKeys)
}

func (m Model) barState() playerbar.State {
	s := playerbar.State{
		Status:      m.Player.Status(),
		DisplayTime: m.Player.DisplayTime(),
		Duration:    m.Player.Duration(),
		Err:         m.ErrorMsg,
	}
	if m.Track != nil {
		s.Title = m.Track.Title
		s.Artist = m.Track.Artist
		s.Size = m.Track.Size
	}
	s.Volume, s.HasVolume = m.Player.Volume()
	return s
}

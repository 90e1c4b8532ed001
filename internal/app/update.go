package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/errmsg"
	"github.com/llehouerou/ripple/internal/mainloop"
	"github.com/llehouerou/ripple/internal/tags"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mainloop.CallbackMsg:
		msg.Run()
		return m, m.Queue.Wait()

	case mainloop.ClosedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case LoadMsg:
		return m.handleLoad(msg.Path), nil

	case ScrubCommitMsg:
		return m.handleScrubCommit(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}

	return m, nil
}

func (m Model) handleLoad(path string) Model {
	m.session.finish()

	if err := m.Player.Load(path); err != nil {
		// The previous item keeps playing, along with any gesture on it.
		m.session.keep(m.Path)
		m.Log.Error().Err(err).Str("path", path).Msg("load failed")
		m.ErrorMsg = errmsg.FormatWith(errmsg.OpMediaLoad, path, err)
		return m
	}
	m.cancelScrub()
	m.MouseScrubbing = false

	track, err := tags.Read(path)
	if err != nil {
		m.Log.Warn().Err(err).Str("path", path).Msg(errmsg.Format(errmsg.OpTagsRead, err))
		track = &tags.Tag{Path: path, Title: tags.FallbackTitle(path)}
	}

	m.Path = path
	m.Track = track
	m.ErrorMsg = ""
	m.session.start(path)
	if m.NowPlaying != nil {
		m.NowPlaying.TrackChanged(path, track)
	}
	m.Log.Info().Str("path", path).Str("title", track.Title).Msg("loaded")
	return m
}

// handleScrubCommit ends a keyboard scrub once the keys stop repeating.
func (m Model) handleScrubCommit(msg ScrubCommitMsg) Model {
	if msg.Version != m.ScrubVersion || !m.KeyScrubbing {
		return m
	}
	m.KeyScrubbing = false
	m.Player.EndScrub(m.Player.DisplayTime())
	return m
}

// cancelScrub drops a pending keyboard scrub without seeking.
func (m *Model) cancelScrub() {
	m.KeyScrubbing = false
	m.ScrubVersion++
}

func (m Model) changeVolume(delta float64) Model {
	level, ok := m.Player.Volume()
	if !ok {
		return m
	}
	level = math.Round((level+delta)*100) / 100
	level = max(0, min(level, 1))
	m.Player.SetVolume(level)

	if m.StateMgr != nil {
		if err := m.StateMgr.SaveVolume(level); err != nil {
			m.Log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpVolumeSave, err))
		}
	}
	if m.NowPlaying != nil {
		m.NowPlaying.VolumeChanged(level)
	}
	return m
}

// quit shuts the model down and stops the program.
func (m Model) quit() (Model, tea.Cmd) {
	m.cancelScrub()
	m.Shutdown()
	m.quitting = true
	return m, tea.Quit
}

// Shutdown stores the position, releases the player subscriptions and stops
// the callback queue. It is idempotent: main runs it again on the model
// returned by the program, which covers interrupts that never reach Update.
// The engine and the state database are closed by the caller afterwards.
func (m Model) Shutdown() {
	m.session.finish()
	m.session.close()
	m.Player.Close()
	if m.Queue != nil {
		m.Queue.Close()
	}
}

package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/keymap"
	"github.com/llehouerou/ripple/internal/mainloop"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/state"
	"github.com/llehouerou/ripple/internal/tags"
)

const (
	defaultWidth = 80
	volumeStep   = 0.05
)

// NowPlaying is told about changes made from the UI that the player does not
// publish itself.
type NowPlaying interface {
	TrackChanged(path string, t *tags.Tag)
	VolumeChanged(level float64)
}

type Model struct {
	Player     *playback.Player
	Queue      *mainloop.Queue
	StateMgr   state.Interface
	Config     *config.Config
	NowPlaying NowPlaying
	Log        zerolog.Logger

	InitialPath    string
	Path           string
	Track          *tags.Tag
	ErrorMsg       string
	Width          int
	Height         int
	ScrubVersion   int
	KeyScrubbing   bool
	MouseScrubbing bool

	keys     *keymap.Resolver
	helpKeys keymap.Help
	help     help.Model
	session  *session
	quitting bool
}

// New creates the application model. The volume comes from the config, or
// else from the last saved value.
func New(cfg *config.Config, stateMgr state.Interface, p *playback.Player, q *mainloop.Queue, log zerolog.Logger) Model {
	var resumeStore state.Interface
	if cfg.ResumeEnabled() {
		resumeStore = stateMgr
	}

	m := Model{
		Player:   p,
		Queue:    q,
		StateMgr: stateMgr,
		Config:   cfg,
		Log:      log,
		keys:     keymap.NewResolver(keymap.All),
		helpKeys: keymap.NewHelp(keymap.ActionPlayPause, keymap.ActionScrubFwd, keymap.ActionSeekForward, keymap.ActionQuit, keymap.ActionHelp),
		help:     help.New(),
		session:  newSession(p, resumeStore, log.With().Str("component", "session").Logger()),
	}
	m.applyInitialVolume()
	return m
}

func (m Model) applyInitialVolume() {
	if m.Config.Volume != nil {
		m.Player.SetVolume(*m.Config.Volume)
		return
	}
	if m.StateMgr == nil {
		return
	}
	level, ok, err := m.StateMgr.GetVolume()
	if err != nil {
		m.Log.Warn().Err(err).Msg("read saved volume")
		return
	}
	if ok {
		m.Player.SetVolume(level)
	}
}

// Init starts listening for engine callbacks and loads the initial file.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Queue != nil {
		cmds = append(cmds, m.Queue.Wait())
	}
	if m.InitialPath != "" {
		cmds = append(cmds, LoadCmd(m.InitialPath))
	}
	return tea.Batch(cmds...)
}

func (m Model) width() int {
	if m.Width <= 0 {
		return defaultWidth
	}
	return m.Width
}

package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/mainloop"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/scrub"
	"github.com/llehouerou/ripple/internal/state"
	"github.com/llehouerou/ripple/internal/tags"
	"github.com/llehouerou/ripple/internal/ui/playerbar"
)

type testEnv struct {
	eng   *engine.Mock
	store *state.Mock
	queue *mainloop.Queue
}

func newTestModel(t *testing.T) (Model, *testEnv) {
	t.Helper()
	cfg, err := config.LoadFrom()
	require.NoError(t, err)

	env := &testEnv{eng: engine.NewMock(), store: state.NewMock(), queue: mainloop.New()}
	p := playback.New(env.eng)
	m := New(cfg, env.store, p, env.queue, zerolog.Nop())
	t.Cleanup(func() {
		p.Close()
		env.queue.Close()
	})
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok, "Update should return Model")
	return result, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "shift+left":
		return tea.KeyMsg{Type: tea.KeyShiftLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.Width)
	assert.Equal(t, 40, m.Height)
}

func TestInit_LoadsInitialPath(t *testing.T) {
	m, _ := newTestModel(t)
	m.InitialPath = "/music/song.mp3"

	assert.NotNil(t, m.Init())
	assert.Equal(t, LoadMsg{Path: "/music/song.mp3"}, LoadCmd("/music/song.mp3")())
}

func TestLoad(t *testing.T) {
	m, env := newTestModel(t)

	m, _ = update(t, m, LoadMsg{Path: "/music/missing/song.mp3"})

	assert.Equal(t, []string{"/music/missing/song.mp3"}, env.eng.Loads())
	assert.Equal(t, "/music/missing/song.mp3", m.Path)
	require.NotNil(t, m.Track)
	assert.Equal(t, "song", m.Track.Title, "unreadable tags fall back to the file name")
	assert.Empty(t, m.ErrorMsg)
}

func TestLoad_Error(t *testing.T) {
	m, env := newTestModel(t)
	env.eng.SetLoadError(engine.ErrUnsupportedFormat)

	m, _ = update(t, m, LoadMsg{Path: "/music/song.m4a"})

	assert.Contains(t, m.ErrorMsg, "Failed to load media '/music/song.m4a'")
	assert.Empty(t, m.Path)
}

func TestLoad_ErrorKeepsCurrentItem(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)
	env.eng.Tick(40)
	m, _ = update(t, m, key("right"))

	env.eng.SetLoadError(engine.ErrUnsupportedFormat)
	m, _ = update(t, m, LoadMsg{Path: "/music/b.m4a"})

	assert.NotEmpty(t, m.ErrorMsg)
	assert.Equal(t, "/music/a.mp3", m.Path)
	assert.True(t, m.KeyScrubbing, "the scrub on the current item survives")
	_, ok := m.Player.SliderRange()
	assert.True(t, ok)

	m, _ = update(t, m, ScrubCommitMsg{Version: m.ScrubVersion})
	assert.Equal(t, []float64{45}, env.eng.SeekCalls())

	env.eng.Tick(46)
	env.eng.Tick(47)
	_, _ = update(t, m, key("q"))
	pos, ok, err := env.store.GetPosition("/music/a.mp3")
	require.NoError(t, err)
	require.True(t, ok, "positions are still recorded for the current item")
	assert.InDelta(t, 47.0, pos, 1e-9)
}

type recordingNowPlaying struct {
	paths   []string
	volumes []float64
}

func (r *recordingNowPlaying) TrackChanged(path string, _ *tags.Tag) {
	r.paths = append(r.paths, path)
}

func (r *recordingNowPlaying) VolumeChanged(level float64) {
	r.volumes = append(r.volumes, level)
}

func TestLoad_NotifiesNowPlaying(t *testing.T) {
	m, _ := newTestModel(t)
	np := &recordingNowPlaying{}
	m.NowPlaying = np

	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	_, _ = update(t, m, key("-"))

	assert.Equal(t, []string{"/music/a.mp3"}, np.paths)
	require.Len(t, np.volumes, 1)
	assert.InDelta(t, 0.95, np.volumes[0], 1e-9)
}

func TestPlayPause_Key(t *testing.T) {
	m, env := newTestModel(t)

	m, _ = update(t, m, key("space"))
	assert.Equal(t, 1, env.eng.PlayCalls(), "paused: button plays")

	env.eng.SetStatus(engine.StatusWaiting)
	m, _ = update(t, m, key("space"))
	assert.Equal(t, 1, env.eng.PauseCalls(), "waiting: button pauses")

	env.eng.SetStatus(engine.StatusPlaying)
	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, env.eng.PauseCalls())
}

func TestPlayPause_Click(t *testing.T) {
	m, env := newTestModel(t)

	_, _ = update(t, m, mouse(tea.MouseActionPress, playerbar.ContentX+1, playerbar.ControlsRow))

	assert.Equal(t, 1, env.eng.PlayCalls())
}

func TestMouseScrub(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 46, Height: 10}) // 40 slider cells
	env.eng.ResolveDuration(78)
	env.eng.Tick(12)

	// Press before the slider's first cell does nothing.
	m, _ = update(t, m, mouse(tea.MouseActionPress, playerbar.ContentX-1, playerbar.SliderRow))
	assert.False(t, m.MouseScrubbing)

	m, _ = update(t, m, mouse(tea.MouseActionPress, playerbar.ContentX+13, playerbar.SliderRow))
	assert.True(t, m.MouseScrubbing)
	assert.Equal(t, scrub.ScrubStarted, m.Player.ScrubState().Kind)
	assert.InDelta(t, 26.0, m.Player.DisplayTime(), 1e-9)

	env.eng.Tick(12.5)
	assert.InDelta(t, 26.0, m.Player.DisplayTime(), 1e-9, "ticks ignored while dragging")

	m, _ = update(t, m, mouse(tea.MouseActionMotion, playerbar.ContentX+20, playerbar.SliderRow))
	assert.InDelta(t, 40.0, m.Player.DisplayTime(), 1e-9)
	assert.Empty(t, env.eng.SeekCalls(), "no seek until release")

	m, _ = update(t, m, mouse(tea.MouseActionRelease, playerbar.ContentX+20, playerbar.SliderRow))
	assert.False(t, m.MouseScrubbing)
	assert.Equal(t, []float64{40}, env.eng.SeekCalls())

	env.eng.Tick(13)
	assert.InDelta(t, 40.0, m.Player.DisplayTime(), 1e-9, "stale tick replaced by the seek target")
	env.eng.Tick(40.5)
	assert.InDelta(t, 40.5, m.Player.DisplayTime(), 1e-9)
}

func TestMouseScrub_IgnoredBeforeDuration(t *testing.T) {
	m, env := newTestModel(t)

	m, _ = update(t, m, mouse(tea.MouseActionPress, playerbar.ContentX+5, playerbar.SliderRow))

	assert.False(t, m.MouseScrubbing)
	assert.Equal(t, scrub.Idle, m.Player.ScrubState().Kind)
	assert.Empty(t, env.eng.SeekCalls())
}

func TestKeyScrub_CommitsAfterDebounce(t *testing.T) {
	m, env := newTestModel(t)
	env.eng.ResolveDuration(100)
	env.eng.Tick(20)

	m, cmd := update(t, m, key("right"))
	require.NotNil(t, cmd)
	first := m.ScrubVersion
	m, _ = update(t, m, key("l"))

	assert.True(t, m.KeyScrubbing)
	assert.InDelta(t, 30.0, m.Player.DisplayTime(), 1e-9)
	env.eng.Tick(20.5)
	assert.InDelta(t, 30.0, m.Player.DisplayTime(), 1e-9)

	m, _ = update(t, m, ScrubCommitMsg{Version: first})
	assert.Empty(t, env.eng.SeekCalls(), "stale commit ignored")

	m, _ = update(t, m, ScrubCommitMsg{Version: m.ScrubVersion})
	assert.False(t, m.KeyScrubbing)
	assert.Equal(t, []float64{30}, env.eng.SeekCalls())

	_, _ = update(t, m, ScrubCommitMsg{Version: m.ScrubVersion})
	assert.Len(t, env.eng.SeekCalls(), 1, "a commit is applied once")
}

func TestKeyScrub_ClampsAtStart(t *testing.T) {
	m, env := newTestModel(t)
	env.eng.ResolveDuration(100)
	env.eng.Tick(2)

	m, _ = update(t, m, key("left"))
	_, _ = update(t, m, ScrubCommitMsg{Version: m.ScrubVersion})

	assert.Equal(t, []float64{0}, env.eng.SeekCalls())
}

func TestKeyScrub_IgnoredBeforeDuration(t *testing.T) {
	m, env := newTestModel(t)

	m, cmd := update(t, m, key("right"))

	assert.Nil(t, cmd)
	assert.False(t, m.KeyScrubbing)
	assert.Empty(t, env.eng.SeekCalls())
}

func TestSeekBy_Keys(t *testing.T) {
	m, env := newTestModel(t)
	env.eng.ResolveDuration(100)
	env.eng.Tick(50)

	m, _ = update(t, m, key("shift+right"))
	assert.Equal(t, []float64{55}, env.eng.SeekCalls())

	env.eng.Tick(50.2)
	_, _ = update(t, m, key("shift+left"))
	assert.Equal(t, []float64{55, 50}, env.eng.SeekCalls())
}

func TestSeekBy_CancelsKeyScrub(t *testing.T) {
	m, env := newTestModel(t)
	env.eng.ResolveDuration(100)
	env.eng.Tick(50)

	m, _ = update(t, m, key("right"))
	pending := m.ScrubVersion
	m, _ = update(t, m, key("shift+right"))
	_, _ = update(t, m, ScrubCommitMsg{Version: pending})

	assert.Equal(t, []float64{60}, env.eng.SeekCalls())
}

func TestVolumeKeys(t *testing.T) {
	m, env := newTestModel(t)

	m, _ = update(t, m, key("-"))
	m, _ = update(t, m, key("-"))
	assert.InDelta(t, 0.9, env.eng.Volume(), 1e-9)

	_, _ = update(t, m, key("+"))
	assert.InDelta(t, 0.95, env.eng.Volume(), 1e-9)

	saved, ok, err := env.store.GetVolume()
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.95, saved, 1e-9)
}

func TestNew_RestoresSavedVolume(t *testing.T) {
	cfg, err := config.LoadFrom()
	require.NoError(t, err)
	eng := engine.NewMock()
	store := state.NewMock()
	require.NoError(t, store.SaveVolume(0.4))

	p := playback.New(eng)
	defer p.Close()
	New(cfg, store, p, nil, zerolog.Nop())
	assert.InDelta(t, 0.4, eng.Volume(), 1e-9)

	level := 0.7
	cfg.Volume = &level
	New(cfg, store, p, nil, zerolog.Nop())
	assert.InDelta(t, 0.7, eng.Volume(), 1e-9, "config wins over saved volume")
}

func TestQuit(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)
	env.eng.Tick(42)

	m, cmd := update(t, m, key("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Player.Closed())
	status, duration, periodic := env.eng.Subscribers()
	assert.Zero(t, status+duration+periodic, "player released the engine")
	assert.Empty(t, m.View())

	pos, ok, err := env.store.GetPosition("/music/a.mp3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 42.0, pos, 1e-9)
}

func TestShutdown_WithoutQuitKey(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)
	env.eng.Tick(42)

	m.Shutdown()
	m.Shutdown()

	assert.True(t, m.Player.Closed())
	status, duration, periodic := env.eng.Subscribers()
	assert.Zero(t, status+duration+periodic)
	assert.Equal(t, mainloop.ClosedMsg{}, env.queue.Wait()())

	pos, ok, err := env.store.GetPosition("/music/a.mp3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 42.0, pos, 1e-9)
}

func TestShutdown_AfterQuitIsNoop(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)
	env.eng.Tick(42)
	quitModel, _ := update(t, m, key("q"))
	require.NoError(t, env.store.ClearPosition("/music/a.mp3"))

	m.Shutdown()
	quitModel.Shutdown()

	_, ok, err := env.store.GetPosition("/music/a.mp3")
	require.NoError(t, err)
	assert.False(t, ok, "the session was already finished by quit")
}

func TestQuit_NearEndForgetsPosition(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)
	env.eng.Tick(98)

	_, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	_, ok, err := env.store.GetPosition("/music/a.mp3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResume(t *testing.T) {
	m, env := newTestModel(t)
	env.store.SavePosition("/music/a.mp3", 30)

	m, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.Tick(0)
	assert.Empty(t, env.eng.SeekCalls(), "resume waits for the duration")

	env.eng.ResolveDuration(100)
	assert.Equal(t, []float64{30}, env.eng.SeekCalls())

	env.eng.Tick(0.4)
	assert.InDelta(t, 30.0, m.Player.DisplayTime(), 1e-9)
}

func TestResume_SkipsPositionNearEnd(t *testing.T) {
	m, env := newTestModel(t)
	env.store.SavePosition("/music/a.mp3", 97)

	_, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	env.eng.ResolveDuration(100)

	assert.Empty(t, env.eng.SeekCalls())
}

func TestResume_Disabled(t *testing.T) {
	cfg, err := config.LoadFrom()
	require.NoError(t, err)
	off := false
	cfg.Resume = &off

	eng := engine.NewMock()
	store := state.NewMock()
	store.SavePosition("/music/a.mp3", 30)
	p := playback.New(eng)
	defer p.Close()
	m := New(cfg, store, p, nil, zerolog.Nop())

	_, _ = update(t, m, LoadMsg{Path: "/music/a.mp3"})
	eng.ResolveDuration(100)

	assert.Empty(t, eng.SeekCalls())
}

func TestCallbackMsg_RunsOnUpdateAndRearms(t *testing.T) {
	cfg, err := config.LoadFrom()
	require.NoError(t, err)
	eng := engine.NewMock()
	q := mainloop.New()
	defer q.Close()
	p := playback.New(eng, playback.WithDispatcher(q.Post))
	defer p.Close()
	m := New(cfg, nil, p, q, zerolog.Nop())

	eng.Tick(7)
	assert.InDelta(t, 0.0, m.Player.DisplayTime(), 1e-9, "not applied off the UI loop")

	// Drain the replayed status callback first.
	msg := q.Wait()()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)

	msg = cmd()
	_, cmd = update(t, m, msg)
	assert.InDelta(t, 7.0, p.DisplayTime(), 1e-9)
	assert.NotNil(t, cmd, "wait re-armed")
}

func TestView(t *testing.T) {
	m, env := newTestModel(t)
	m, _ = update(t, m, LoadMsg{Path: "/music/missing/song.mp3"})

	view := m.View()
	assert.Contains(t, view, playerbar.Placeholder)
	assert.Contains(t, view, "Display time 00:00")
	assert.Contains(t, view, "song")
	assert.Contains(t, view, "play/pause")

	env.eng.ResolveDuration(240)
	env.eng.Tick(83)
	view = m.View()
	assert.NotContains(t, view, playerbar.Placeholder)
	assert.Contains(t, view, "Display time 01:23")
}

func TestScrubCommitCmd(t *testing.T) {
	cmd := ScrubCommitCmd(time.Millisecond, 3)
	assert.Equal(t, ScrubCommitMsg{Version: 3}, cmd())
}
